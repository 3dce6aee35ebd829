package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/captionrelay/backend/internal/caption"
	"github.com/captionrelay/backend/internal/captions"
	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/captionrelay/backend/internal/fetch"
	"github.com/captionrelay/backend/internal/health"
	"github.com/captionrelay/backend/internal/websocket"
)

// stubSource serves canned segments, or fails when empty.
type stubSource struct {
	name     string
	segments caption.Sequence
	tracks   []caption.Track
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, videoID, lang string, trace *caption.Trace) (caption.Sequence, error) {
	trace.Add("%s: attempt", s.name)
	if len(s.segments) == 0 {
		return nil, apperrors.StrategyExhausted(s.name, "nothing here")
	}
	return s.segments, nil
}

func (s *stubSource) ListTracks(ctx context.Context, videoID string) ([]caption.Track, error) {
	if len(s.tracks) == 0 {
		return nil, apperrors.UpstreamEmpty("no tracks")
	}
	return s.tracks, nil
}

type stubGetter struct{}

func (stubGetter) Get(ctx context.Context, url string, headers map[string]string) (*fetch.Response, error) {
	return &fetch.Response{Status: 204}, nil
}

func newTestRouter(src *stubSource) *Router {
	service := captions.NewService(src)
	return NewRouter(service, websocket.NewStreamer(service), health.NewChecker(stubGetter{}, "test"), "")
}

func TestResolveEndpoint(t *testing.T) {
	router := newTestRouter(&stubSource{
		name:     "stub",
		segments: caption.Sequence{{Text: "hi there", OffsetMs: 0, DurationMs: 1200}},
	})

	body := strings.NewReader(`{"url":"https://youtu.be/dQw4w9WgXcQ"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/captions", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result captions.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if result.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("video_id = %q", result.VideoID)
	}
	if result.PlainText != "hi there" {
		t.Errorf("plain_text = %q", result.PlainText)
	}
	if !strings.Contains(result.SRT, "00:00:00,000 --> 00:00:01,200") {
		t.Errorf("srt = %q", result.SRT)
	}
	if len(result.TriedOrder) != 1 {
		t.Errorf("tried_order = %v", result.TriedOrder)
	}
}

func TestResolveEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		source     *stubSource
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed JSON",
			body:       `{"url":`,
			source:     &stubSource{name: "stub"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidRequest,
		},
		{
			name:       "missing url",
			body:       `{"lang":"en"}`,
			source:     &stubSource{name: "stub"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidRequest,
		},
		{
			name:       "unresolvable input",
			body:       `{"url":"https://example.com/nope"}`,
			source:     &stubSource{name: "stub"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidInput,
		},
		{
			name:       "all sources exhausted",
			body:       `{"url":"dQw4w9WgXcQ"}`,
			source:     &stubSource{name: "stub"},
			wantStatus: http.StatusBadGateway,
			wantCode:   apperrors.CodeAllStrategiesExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.source)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/captions", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var errResp apperrors.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("body not JSON: %v", err)
			}
			if errResp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", errResp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestResolveEndpoint_ExhaustedCarriesTrace(t *testing.T) {
	router := newTestRouter(&stubSource{name: "stub"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/captions", strings.NewReader(`{"url":"dQw4w9WgXcQ"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var errResp apperrors.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	tried, ok := errResp.Error.Details["tried_order"].([]any)
	if !ok || len(tried) != 1 {
		t.Errorf("tried_order = %v, want one entry", errResp.Error.Details["tried_order"])
	}
}

func TestTracksEndpoint(t *testing.T) {
	router := newTestRouter(&stubSource{
		name:   "stub",
		tracks: []caption.Track{{LanguageCode: "en", Kind: caption.KindManual}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/captions/dQw4w9WgXcQ/tracks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp tracksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if resp.VideoID != "dQw4w9WgXcQ" || len(resp.Tracks) != 1 || resp.Tracks[0].LanguageCode != "en" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubSource{name: "stub"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
