// Package health serves the liveness and readiness probes. Readiness
// includes an upstream reachability check, since a server that cannot reach
// the video platform cannot resolve anything.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/captionrelay/backend/internal/fetch"
)

// probeURL is a cheap upstream endpoint that answers without a body.
const probeURL = "https://www.youtube.com/generate_204"

// Status represents the health of a component or of the whole service.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth is the health of a single component.
type ComponentHealth struct {
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Response is the full health check payload.
type Response struct {
	Status     Status                     `json:"status"`
	Timestamp  string                     `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Uptime     string                     `json:"uptime,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Checker performs the health checks.
type Checker struct {
	upstream     fetch.Getter
	version      string
	checkTimeout time.Duration
	startTime    time.Time
}

// NewChecker creates a Checker probing upstream reachability through the
// given getter.
func NewChecker(upstream fetch.Getter, version string) *Checker {
	return &Checker{
		upstream:     upstream,
		version:      version,
		checkTimeout: 5 * time.Second,
		startTime:    time.Now(),
	}
}

// Liveness answers GET /health: the process is up.
func (c *Checker) Liveness(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteJSON(w, "", http.StatusOK, Response{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   c.version,
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
	})
}

// Readiness answers GET /health/ready: the process is up and upstream is
// reachable. An unreachable upstream yields 503.
func (c *Checker) Readiness(w http.ResponseWriter, r *http.Request) {
	upstream := c.checkUpstream(r.Context())

	resp := Response{
		Status:     StatusHealthy,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Version:    c.version,
		Components: map[string]ComponentHealth{"upstream": upstream},
	}
	status := http.StatusOK
	if upstream.Status != StatusHealthy {
		resp.Status = StatusUnhealthy
		status = http.StatusServiceUnavailable
	}

	apperrors.WriteJSON(w, "", status, resp)
}

func (c *Checker) checkUpstream(ctx context.Context) ComponentHealth {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	resp, err := c.upstream.Get(ctx, probeURL, fetch.BrowserHeaders())
	if err != nil {
		return ComponentHealth{
			Status:   StatusUnhealthy,
			Message:  "upstream unreachable",
			Duration: time.Since(start).String(),
		}
	}
	if resp.Status >= 500 {
		return ComponentHealth{
			Status:   StatusUnhealthy,
			Message:  fmt.Sprintf("upstream returned status %d", resp.Status),
			Duration: time.Since(start).String(),
		}
	}

	return ComponentHealth{Status: StatusHealthy, Duration: time.Since(start).String()}
}
