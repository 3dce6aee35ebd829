package source

import (
	"testing"

	"github.com/captionrelay/backend/internal/caption"
)

func TestLanguageOptions(t *testing.T) {
	tests := []struct {
		name      string
		preferred string
		want      []string
	}{
		{"no preference", "", []string{"", "en", "en-US", "en-GB"}},
		{"preference prepended", "de", []string{"", "de", "en", "en-US", "en-GB"}},
		{"duplicate preference collapsed", "en-US", []string{"", "en-US", "en", "en-GB"}},
		{"case-insensitive dedup", "EN", []string{"", "EN", "en-US", "en-GB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := languageOptions(tt.preferred)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("option %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSelectTrack(t *testing.T) {
	tracks := []caption.Track{
		{LanguageCode: "en-US"},
		{LanguageCode: "en-GB"},
		{LanguageCode: "fr"},
	}

	tests := []struct {
		name      string
		tracks    []caption.Track
		preferred string
		want      string
	}{
		{"prefix match takes first in list order", tracks, "en", "en-US"},
		{"exact regional preference", tracks, "en-GB", "en-GB"},
		{"case-insensitive", tracks, "FR", "fr"},
		{"no preference falls back to english prefix", tracks, "", "en-US"},
		{"unmatched preference falls back to english", tracks, "ja", "en-US"},
		{
			"no english falls back to first track",
			[]caption.Track{{LanguageCode: "de"}, {LanguageCode: "fr"}},
			"ja",
			"de",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectTrack(tt.tracks, tt.preferred); got.LanguageCode != tt.want {
				t.Errorf("SelectTrack() = %q, want %q", got.LanguageCode, tt.want)
			}
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"en", "en"},
		{"EN-us", "en-US"},
		{"pt_br", "pt-BR"},
		{"!!", "!!"},
	}
	for _, tt := range tests {
		if got := NormalizeLanguage(tt.in); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePayload(t *testing.T) {
	if _, ok := parsePayload("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhi\n"); !ok {
		t.Error("expected VTT payload to parse")
	}
	if _, ok := parsePayload(`<transcript><text start="0" dur="1">hi</text></transcript>`); !ok {
		t.Error("expected timed-text payload to parse")
	}
	if _, ok := parsePayload("<html>nothing here</html>"); ok {
		t.Error("expected unrecognized payload to fail")
	}
	// A recognizable container with zero usable cues is still a failure.
	if _, ok := parsePayload("WEBVTT\n\n"); ok {
		t.Error("expected empty VTT to fail")
	}
}
