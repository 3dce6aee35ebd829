package source

import (
	"context"
	"fmt"
	"net/url"

	"github.com/captionrelay/backend/internal/caption"
	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/captionrelay/backend/internal/fetch"
	"github.com/captionrelay/backend/internal/logger"
)

const timedTextBase = "https://www.youtube.com/api/timedtext"

// TimedText retrieves captions straight from the timedtext endpoint. It is
// the last resort: a listing phase discovers tracks through several query
// variants (some tracks, notably ASR ones, only appear with extra
// parameters), then the chosen track's cues are fetched directly.
type TimedText struct {
	getter fetch.Getter
	log    *logger.Logger
}

// NewTimedText creates the timedtext source on the given HTTP capability.
func NewTimedText(getter fetch.Getter) *TimedText {
	return &TimedText{getter: getter, log: logger.Default().WithComponent("source.timedtext")}
}

func (s *TimedText) Name() string {
	return "timedtext"
}

// listVariants returns the query-parameter variants for the listing phase,
// in the order they are tried: plain, with a host-language hint, and with
// the ASR-surfacing flag.
func listVariants(videoID, lang string) []url.Values {
	hint := "en"
	if lang != "" {
		hint = lang
	}
	return []url.Values{
		{"type": {"list"}, "v": {videoID}},
		{"type": {"list"}, "v": {videoID}, "hl": {hint}},
		{"type": {"list"}, "v": {videoID}, "hl": {hint}, "asrs": {"1"}},
	}
}

// Fetch runs the two phases: list tracks (first variant that yields any
// wins), select a track, then try the WebVTT URL followed by the plain XML
// URL, accepting the first non-empty parse.
func (s *TimedText) Fetch(ctx context.Context, videoID, lang string, trace *caption.Trace) (caption.Sequence, error) {
	tracks, err := s.listTracks(ctx, videoID, lang, trace)
	if err != nil {
		return nil, apperrors.StrategyExhausted(s.Name(), "track listing failed").WithCause(err)
	}
	if len(tracks) == 0 {
		return nil, apperrors.StrategyExhausted(s.Name(), "no listing variant yielded tracks")
	}

	track := SelectTrack(tracks, lang)

	params := url.Values{"v": {videoID}, "lang": {track.LanguageCode}}
	if track.Kind == caption.KindAutomatic {
		params.Set("kind", "asr")
	}
	if track.Name != "" {
		params.Set("name", track.Name)
	}

	for _, format := range []string{"vtt", ""} {
		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		label := "xml"
		if format != "" {
			q.Set("fmt", format)
			label = format
		}
		trace.Add("timedtext: fetching track %s (format=%s)", track.LanguageCode, label)

		resp, err := s.getter.Get(ctx, timedTextBase+"?"+q.Encode(), fetch.BrowserHeaders())
		if err != nil {
			s.log.Debug(ctx, "timedtext fetch failed", map[string]any{"format": label, "error": err.Error()})
			continue
		}
		if !resp.OK() {
			continue
		}
		if seq, ok := parsePayload(resp.Body); ok {
			return seq, nil
		}
	}

	return nil, apperrors.StrategyExhausted(s.Name(),
		fmt.Sprintf("track %s yielded no cues in any format", track.LanguageCode))
}

// ListTracks exposes the listing phase for track discovery without a trace.
func (s *TimedText) ListTracks(ctx context.Context, videoID string) ([]caption.Track, error) {
	return s.listTracks(ctx, videoID, "", caption.NewTrace())
}

func (s *TimedText) listTracks(ctx context.Context, videoID, lang string, trace *caption.Trace) ([]caption.Track, error) {
	var lastErr error
	for i, variant := range listVariants(videoID, lang) {
		trace.Add("timedtext: listing tracks (variant %d)", i+1)

		resp, err := s.getter.Get(ctx, timedTextBase+"?"+variant.Encode(), fetch.BrowserHeaders())
		if err != nil {
			lastErr = apperrors.UpstreamFailure("track listing request failed").WithCause(err)
			continue
		}
		if !resp.OK() {
			lastErr = apperrors.UpstreamFailure(fmt.Sprintf("track listing returned status %d", resp.Status))
			continue
		}

		tracks, err := caption.ParseTrackList(resp.Body)
		if err != nil {
			lastErr = err
			continue
		}
		if len(tracks) > 0 {
			return tracks, nil
		}
	}
	return nil, lastErr
}
