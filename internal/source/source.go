// Package source implements the caption retrieval strategies. Each Source
// is a self-contained procedure that tries to obtain a non-empty caption
// sequence for a video through one upstream mechanism, recording every
// sub-attempt in the trace before it executes.
package source

import (
	"context"
	"strings"

	"github.com/captionrelay/backend/internal/caption"
	"golang.org/x/text/language"
)

// Source is one retrieval strategy. Fetch appends at least one trace entry
// before returning, succeeds only with a non-empty sequence, and reports an
// error once its whole candidate space is exhausted.
type Source interface {
	Name() string
	Fetch(ctx context.Context, videoID, lang string, trace *caption.Trace) (caption.Sequence, error)
}

// TrackLister is implemented by sources that can enumerate a video's
// caption tracks without fetching cue data.
type TrackLister interface {
	ListTracks(ctx context.Context, videoID string) ([]caption.Track, error)
}

// fallbackLanguages is the fixed list of English variants tried after the
// caller's preference.
var fallbackLanguages = []string{"en", "en-US", "en-GB"}

// languageOptions builds the ordered option list for the library source:
// "any language" (empty), the caller's preference when given, then the
// English fallbacks, with duplicates removed.
func languageOptions(preferred string) []string {
	opts := []string{""}
	seen := map[string]bool{}
	add := func(code string) {
		key := strings.ToLower(code)
		if code == "" || seen[key] {
			return
		}
		seen[key] = true
		opts = append(opts, code)
	}
	add(preferred)
	for _, code := range fallbackLanguages {
		add(code)
	}
	return opts
}

// SelectTrack picks a track for the given preference: first track whose
// language code has the preference as a case-insensitive prefix, then the
// first English-prefixed track, then the first track outright. Prefix
// matching tolerates regional suffixes but also means an ambiguous
// preference picks whichever regional variant the platform listed first.
func SelectTrack(tracks []caption.Track, preferred string) caption.Track {
	if preferred != "" {
		if t, ok := firstWithPrefix(tracks, preferred); ok {
			return t
		}
	}
	if t, ok := firstWithPrefix(tracks, "en"); ok {
		return t
	}
	return tracks[0]
}

func firstWithPrefix(tracks []caption.Track, prefix string) (caption.Track, bool) {
	prefix = strings.ToLower(prefix)
	for _, t := range tracks {
		if strings.HasPrefix(strings.ToLower(t.LanguageCode), prefix) {
			return t, true
		}
	}
	return caption.Track{}, false
}

// NormalizeLanguage canonicalizes a language preference ("EN_us" ->
// "en-US") via BCP 47 parsing. Unparseable preferences pass through
// unchanged; they simply will not match any track.
func NormalizeLanguage(preferred string) string {
	if preferred == "" {
		return ""
	}
	tag, err := language.Parse(preferred)
	if err != nil {
		return preferred
	}
	return tag.String()
}

// parsePayload sniffs a caption payload and dispatches to the matching
// parser: WebVTT when the body carries the WEBVTT marker, timed-text XML
// when it opens a <text or <timedtext element. Unrecognizable bodies and
// zero-cue parses both come back as not-ok.
func parsePayload(body string) (caption.Sequence, bool) {
	switch {
	case strings.Contains(body, "WEBVTT"):
		seq, err := caption.ParseVTT(body)
		return seq, err == nil
	case strings.Contains(body, "<text") || strings.Contains(body, "<timedtext"):
		seq, err := caption.ParseTimedText(body)
		return seq, err == nil
	default:
		return nil, false
	}
}
