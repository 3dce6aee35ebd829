// Package caption holds the canonical caption data model shared by every
// retrieval source: timed segments, attempt traces, and track descriptors.
package caption

import "math"

// Segment is a single timed caption cue. Text is already entity-decoded
// and stripped of inline markup by the time a Segment exists.
type Segment struct {
	Text       string `json:"text"`
	OffsetMs   int64  `json:"offset_ms"`
	DurationMs int64  `json:"duration_ms"`
}

// Sequence is a chronologically ordered list of segments. A Sequence handed
// to the renderers is non-empty by construction; parsers that find zero
// usable cues report ErrNoCues instead of returning an empty Sequence.
type Sequence []Segment

// TrackKind distinguishes human-authored tracks from speech-recognition ones.
type TrackKind string

const (
	KindManual    TrackKind = "manual"
	KindAutomatic TrackKind = "automatic"
)

// Track describes one caption track discovered for a video. Tracks are
// discovered per request and never persisted.
type Track struct {
	LanguageCode string    `json:"language_code"`
	Name         string    `json:"name,omitempty"`
	Kind         TrackKind `json:"kind"`
	BaseURL      string    `json:"-"`
}

// MillisFromSeconds converts a floating-point seconds value to whole
// milliseconds, rounding to nearest.
func MillisFromSeconds(sec float64) int64 {
	return int64(math.Round(sec * 1000))
}

// ClampDuration forces a duration to be non-negative.
func ClampDuration(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}
