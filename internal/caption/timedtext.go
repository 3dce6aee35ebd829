package caption

import (
	"encoding/xml"
	"fmt"
)

// timedTextDoc mirrors the timed-text XML transcript shape:
// <transcript><text start="1.0" dur="2.5">Hello</text>...</transcript>.
// InnerXML keeps nested markup and raw entities so CleanText can handle both.
type timedTextDoc struct {
	Texts []struct {
		Start    float64 `xml:"start,attr"`
		Dur      float64 `xml:"dur,attr"`
		InnerXML string  `xml:",innerxml"`
	} `xml:"text"`
}

// trackListDoc mirrors the timedtext track-listing shape:
// <transcript_list><track lang_code="en" name="" kind="asr"/>...</transcript_list>.
type trackListDoc struct {
	Tracks []struct {
		LangCode string `xml:"lang_code,attr"`
		Name     string `xml:"name,attr"`
		Kind     string `xml:"kind,attr"`
	} `xml:"track"`
}

// ParseTimedText converts a timed-text XML payload into a Sequence. Every
// <text> element with start/dur attributes (seconds) becomes one segment;
// offsets and durations are rounded to the nearest millisecond and cues
// whose cleaned text is empty are discarded.
func ParseTimedText(raw string) (Sequence, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("parse timed-text xml: %w", err)
	}

	var seq Sequence
	for _, t := range doc.Texts {
		text := CleanText(t.InnerXML)
		if text == "" {
			continue
		}
		seq = append(seq, Segment{
			Text:       text,
			OffsetMs:   MillisFromSeconds(t.Start),
			DurationMs: ClampDuration(MillisFromSeconds(t.Dur)),
		})
	}

	if len(seq) == 0 {
		return nil, ErrNoCues
	}
	return seq, nil
}

// ParseTrackList extracts caption track descriptors from a timedtext
// track-listing payload. A missing or empty list is not an error here;
// the caller decides whether to try the next listing variant.
func ParseTrackList(raw string) ([]Track, error) {
	var doc trackListDoc
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("parse track list xml: %w", err)
	}

	tracks := make([]Track, 0, len(doc.Tracks))
	for _, t := range doc.Tracks {
		if t.LangCode == "" {
			continue
		}
		kind := KindManual
		if t.Kind == "asr" {
			kind = KindAutomatic
		}
		tracks = append(tracks, Track{
			LanguageCode: t.LangCode,
			Name:         t.Name,
			Kind:         kind,
		})
	}
	return tracks, nil
}
