package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/captionrelay/backend/internal/fetch"
)

type stubGetter struct {
	status int
	err    error
}

func (s *stubGetter) Get(ctx context.Context, url string, headers map[string]string) (*fetch.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fetch.Response{Status: s.status}, nil
}

func TestLiveness(t *testing.T) {
	c := NewChecker(&stubGetter{status: 204}, "1.0.0")

	rec := httptest.NewRecorder()
	c.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if resp.Status != StatusHealthy || resp.Version != "1.0.0" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		getter     *stubGetter
		wantStatus int
		wantHealth Status
	}{
		{"upstream reachable", &stubGetter{status: 204}, http.StatusOK, StatusHealthy},
		{"upstream error status", &stubGetter{status: 503}, http.StatusServiceUnavailable, StatusUnhealthy},
		{"upstream unreachable", &stubGetter{err: errors.New("dial timeout")}, http.StatusServiceUnavailable, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(tt.getter, "")

			rec := httptest.NewRecorder()
			c.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("body not JSON: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("health = %q, want %q", resp.Status, tt.wantHealth)
			}
		})
	}
}
