package source

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/captionrelay/backend/internal/caption"
	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/captionrelay/backend/internal/fetch"
	"github.com/captionrelay/backend/internal/logger"
)

const watchURLFormat = "https://www.youtube.com/watch?v=%s&hl=en"

// formatSuffixes are the delivery-format variants tried against a track's
// base URL, in order: as delivered, WebVTT, then TTML-style XML.
var formatSuffixes = []string{"", "&fmt=vtt", "&fmt=ttml"}

// playabilityRe pulls the playability status out of player data when no
// caption tracks were found, purely to improve the failure message.
var playabilityRe = regexp.MustCompile(`"playabilityStatus"\s*:\s*\{\s*"status"\s*:\s*"([A-Z_]+)"`)

// watchTrack mirrors one entry of the player data's captionTracks array.
type watchTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

// WatchPage retrieves captions by scraping the watch page's embedded player
// data for caption track descriptors, then fetching the chosen track's cue
// payload in one of several delivery formats.
type WatchPage struct {
	getter fetch.Getter
	log    *logger.Logger
}

// NewWatchPage creates the watch-page source on the given HTTP capability.
func NewWatchPage(getter fetch.Getter) *WatchPage {
	return &WatchPage{getter: getter, log: logger.Default().WithComponent("source.watchpage")}
}

func (s *WatchPage) Name() string {
	return "watch-page"
}

// Fetch enumerates the video's caption tracks, selects one for the language
// preference, and tries each format variant of its base URL until a payload
// parses to a non-empty sequence.
func (s *WatchPage) Fetch(ctx context.Context, videoID, lang string, trace *caption.Trace) (caption.Sequence, error) {
	trace.Add("watch page: enumerating caption tracks for %s", videoID)

	tracks, err := s.ListTracks(ctx, videoID)
	if err != nil {
		return nil, apperrors.StrategyExhausted(s.Name(), "track enumeration failed").WithCause(err)
	}
	if len(tracks) == 0 {
		return nil, apperrors.StrategyExhausted(s.Name(), "player data lists no caption tracks")
	}

	track := SelectTrack(tracks, lang)
	lastStatus := 0
	for _, suffix := range formatSuffixes {
		label := strings.TrimPrefix(suffix, "&fmt=")
		if label == "" {
			label = "default"
		}
		trace.Add("watch page: trying track %s (format=%s)", track.LanguageCode, label)

		resp, err := s.getter.Get(ctx, track.BaseURL+suffix, fetch.BrowserHeaders())
		if err != nil {
			s.log.Debug(ctx, "caption fetch failed", map[string]any{"format": label, "error": err.Error()})
			continue
		}
		if !resp.OK() {
			lastStatus = resp.Status
			continue
		}
		if seq, ok := parsePayload(resp.Body); ok {
			return seq, nil
		}
	}

	return nil, apperrors.StrategyExhausted(s.Name(),
		fmt.Sprintf("no format variant yielded cues for track %s (last status %d)", track.LanguageCode, lastStatus))
}

// ListTracks fetches the watch page and decodes the captionTracks array out
// of the embedded player data.
func (s *WatchPage) ListTracks(ctx context.Context, videoID string) ([]caption.Track, error) {
	resp, err := s.getter.Get(ctx, fmt.Sprintf(watchURLFormat, videoID), fetch.BrowserHeaders())
	if err != nil {
		return nil, apperrors.UpstreamFailure("watch page request failed").WithCause(err)
	}
	if !resp.OK() {
		return nil, apperrors.UpstreamFailure(fmt.Sprintf("watch page returned status %d", resp.Status))
	}

	raw, found := extractCaptionTracks(resp.Body)
	if !found {
		if m := playabilityRe.FindStringSubmatch(resp.Body); m != nil && m[1] != "OK" {
			return nil, apperrors.UpstreamEmpty(fmt.Sprintf("no caption data in player response (playability %s)", m[1]))
		}
		return nil, apperrors.UpstreamEmpty("no caption data in player response")
	}

	tracks := make([]caption.Track, 0, len(raw))
	for _, t := range raw {
		if t.BaseURL == "" || t.LanguageCode == "" {
			continue
		}
		kind := caption.KindManual
		if t.Kind == "asr" {
			kind = caption.KindAutomatic
		}
		tracks = append(tracks, caption.Track{
			LanguageCode: t.LanguageCode,
			Name:         t.Name.SimpleText,
			Kind:         kind,
			BaseURL:      t.BaseURL,
		})
	}
	return tracks, nil
}

// extractCaptionTracks locates the "captionTracks" array in the page HTML
// and decodes just that array. The JSON decoder stops at the closing
// bracket, so the surrounding script soup never needs to parse.
func extractCaptionTracks(body string) ([]watchTrack, bool) {
	const marker = `"captionTracks":`
	idx := strings.Index(body, marker)
	if idx == -1 {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(body[idx+len(marker):]))
	var tracks []watchTrack
	if err := dec.Decode(&tracks); err != nil {
		return nil, false
	}
	return tracks, true
}
