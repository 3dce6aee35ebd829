package source

import (
	"context"
	"strings"
	"testing"

	"github.com/captionrelay/backend/internal/caption"
	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/captionrelay/backend/internal/fetch"
)

// scriptedGetter answers GETs from a script keyed on exact query content,
// falling back to a default response.
type scriptedGetter struct {
	handler   func(url string) (*fetch.Response, error)
	requested []string
}

func (g *scriptedGetter) Get(ctx context.Context, url string, headers map[string]string) (*fetch.Response, error) {
	g.requested = append(g.requested, url)
	return g.handler(url)
}

const asrTrackList = `<transcript_list docid="1">` +
	`<track id="0" name="" lang_code="en" kind="asr"/>` +
	`</transcript_list>`

func TestTimedTextFetch_ASRTrackViaLaterVariant(t *testing.T) {
	getter := &scriptedGetter{handler: func(url string) (*fetch.Response, error) {
		switch {
		case strings.Contains(url, "type=list") && strings.Contains(url, "asrs=1"):
			return &fetch.Response{Status: 200, Body: asrTrackList}, nil
		case strings.Contains(url, "type=list"):
			return &fetch.Response{Status: 200, Body: `<transcript_list docid="1"></transcript_list>`}, nil
		case strings.Contains(url, "fmt=vtt"):
			return &fetch.Response{Status: 200, Body: "WEBVTT\n\n00:00:00.500 --> 00:00:02.000\nauto generated\n"}, nil
		default:
			return &fetch.Response{Status: 404, Body: ""}, nil
		}
	}}
	s := NewTimedText(getter)

	trace := caption.NewTrace()
	seq, err := s.Fetch(context.Background(), "abcdefghijk", "", trace)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(seq) != 1 || seq[0].Text != "auto generated" {
		t.Errorf("unexpected sequence: %+v", seq)
	}

	// All three listing variants were attempted before the asr one hit.
	listCalls := 0
	for _, u := range getter.requested {
		if strings.Contains(u, "type=list") {
			listCalls++
		}
	}
	if listCalls != 3 {
		t.Errorf("got %d listing calls, want 3", listCalls)
	}

	// The direct fetch carries the asr kind.
	last := getter.requested[len(getter.requested)-1]
	if !strings.Contains(last, "kind=asr") || !strings.Contains(last, "lang=en") {
		t.Errorf("direct fetch query missing asr parameters: %s", last)
	}
}

func TestTimedTextFetch_VTTFailsXMLSucceeds(t *testing.T) {
	getter := &scriptedGetter{handler: func(url string) (*fetch.Response, error) {
		switch {
		case strings.Contains(url, "type=list"):
			return &fetch.Response{Status: 200, Body: `<transcript_list><track id="0" name="intro" lang_code="de"/></transcript_list>`}, nil
		case strings.Contains(url, "fmt=vtt"):
			return &fetch.Response{Status: 404, Body: ""}, nil
		default:
			return &fetch.Response{Status: 200, Body: `<transcript><text start="1.0" dur="2.0">hallo</text></transcript>`}, nil
		}
	}}
	s := NewTimedText(getter)

	trace := caption.NewTrace()
	seq, err := s.Fetch(context.Background(), "abcdefghijk", "de", trace)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if seq[0].Text != "hallo" || seq[0].OffsetMs != 1000 {
		t.Errorf("unexpected sequence: %+v", seq)
	}

	// Track display name is forwarded on the direct fetch.
	last := getter.requested[len(getter.requested)-1]
	if !strings.Contains(last, "name=intro") {
		t.Errorf("track name missing from query: %s", last)
	}
}

func TestTimedTextFetch_NoVariantYieldsTracks(t *testing.T) {
	getter := &scriptedGetter{handler: func(url string) (*fetch.Response, error) {
		return &fetch.Response{Status: 200, Body: `<transcript_list></transcript_list>`}, nil
	}}
	s := NewTimedText(getter)

	trace := caption.NewTrace()
	_, err := s.Fetch(context.Background(), "abcdefghijk", "", trace)
	if !apperrors.IsCode(err, apperrors.CodeStrategyExhausted) {
		t.Fatalf("error = %v, want STRATEGY_EXHAUSTED", err)
	}
	if trace.Len() != 3 {
		t.Errorf("got %d trace entries, want one per listing variant", trace.Len())
	}
}

func TestTimedTextListVariants_LanguageHint(t *testing.T) {
	variants := listVariants("abcdefghijk", "fr")
	if got := variants[1].Get("hl"); got != "fr" {
		t.Errorf("hl = %q, want fr", got)
	}
	if got := variants[2].Get("asrs"); got != "1" {
		t.Errorf("asrs = %q, want 1", got)
	}
	if variants[0].Has("hl") {
		t.Error("first variant should carry no language hint")
	}
}
