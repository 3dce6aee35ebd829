package api

import (
	"net/http"

	"github.com/captionrelay/backend/internal/auth"
	"github.com/captionrelay/backend/internal/captions"
	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/captionrelay/backend/internal/health"
	"github.com/captionrelay/backend/internal/metrics"
	"github.com/captionrelay/backend/internal/websocket"
)

// Router wires the HTTP surface: caption endpoints (optionally behind the
// bearer gate), the websocket trace stream, health probes, and metrics.
type Router struct {
	mux      *http.ServeMux
	handlers *CaptionHandlers
	streamer *websocket.Streamer
	checker  *health.Checker
	guard    func(http.Handler) http.Handler
}

// NewRouter builds the router. An empty apiSecret leaves the API open.
func NewRouter(service *captions.Service, streamer *websocket.Streamer, checker *health.Checker, apiSecret string) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		handlers: NewCaptionHandlers(service),
		streamer: streamer,
		checker:  checker,
		guard:    auth.Middleware(apiSecret),
	}
	r.setupRoutes()
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) setupRoutes() {
	// Health and metrics (never gated)
	r.mux.HandleFunc("GET /health", r.checker.Liveness)
	r.mux.HandleFunc("GET /health/ready", r.checker.Readiness)
	r.mux.Handle("GET /metrics", metrics.Default().Handler())

	// Caption API
	r.mux.Handle("POST /api/v1/captions", r.guard(apperrors.HandleFunc(r.handlers.Resolve)))
	r.mux.Handle("GET /api/v1/captions/{video_id}/tracks", r.guard(apperrors.HandleFunc(r.handlers.Tracks)))
	r.mux.Handle("GET /api/v1/captions/ws", r.guard(http.HandlerFunc(r.streamer.Handle)))
}
