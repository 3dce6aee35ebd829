// Package websocket streams the caption resolution trace live: a client
// connects, sends one resolve request, and receives each retrieval attempt
// as it happens, followed by the final result or error.
package websocket

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/captionrelay/backend/internal/caption"
	"github.com/captionrelay/backend/internal/captions"
	apperrors "github.com/captionrelay/backend/internal/errors"
	"github.com/captionrelay/backend/internal/logger"
	"github.com/captionrelay/backend/internal/metrics"
	"github.com/gorilla/websocket"
)

const (
	// readWait bounds how long we wait for the client's resolve request.
	readWait = 10 * time.Second
	// writeWait bounds each outbound message write.
	writeWait = 10 * time.Second
)

// Resolver is the resolution capability the streamer drives. Matched by
// *captions.Service.
type Resolver interface {
	Resolve(ctx context.Context, rawInput, lang string, trace *caption.Trace) (*captions.Result, error)
}

// Request is the single message a client sends after connecting.
type Request struct {
	URL  string `json:"url"`
	Lang string `json:"lang,omitempty"`
}

// Message is one server-to-client frame.
type Message struct {
	Type   string           `json:"type"` // "attempt", "result", or "error"
	Entry  string           `json:"entry,omitempty"`
	Result *captions.Result `json:"result,omitempty"`
	Code   string           `json:"code,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Streamer upgrades connections and runs one resolution per connection.
type Streamer struct {
	upgrader websocket.Upgrader
	resolver Resolver
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewStreamer creates a Streamer on the given resolver. Origin checking is
// left to the CORS layer; the upgrader accepts any origin.
func NewStreamer(resolver Resolver) *Streamer {
	return &Streamer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		resolver: resolver,
		log:      logger.Default().WithComponent("websocket"),
		metrics:  metrics.Default(),
	}
}

// Handle upgrades the request, reads one resolve request, and streams the
// resolution. The connection closes when the resolution finishes either way.
func (s *Streamer) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(r.Context(), "websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}
	defer conn.Close()

	s.metrics.IncWSConnections()
	defer s.metrics.DecWSConnections()

	conn.SetReadDeadline(time.Now().Add(readWait))
	var req Request
	if err := conn.ReadJSON(&req); err != nil {
		s.writeMessage(conn, Message{Type: "error", Code: apperrors.CodeInvalidRequest, Error: "expected a JSON resolve request"})
		return
	}
	if req.URL == "" {
		s.writeMessage(conn, Message{Type: "error", Code: apperrors.CodeInvalidRequest, Error: "url is required"})
		return
	}

	// The trace sink runs on this goroutine, inside Resolve, so writes
	// never race.
	trace := caption.NewTraceWithSink(func(entry string) {
		s.writeMessage(conn, Message{Type: "attempt", Entry: entry})
	})

	result, err := s.resolver.Resolve(r.Context(), req.URL, req.Lang, trace)
	if err != nil {
		code := apperrors.CodeInternalError
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			code = appErr.Code
		}
		s.writeMessage(conn, Message{Type: "error", Code: code, Error: err.Error()})
		return
	}

	s.writeMessage(conn, Message{Type: "result", Result: result})
}

func (s *Streamer) writeMessage(conn *websocket.Conn, msg Message) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.log.Debug(context.Background(), "websocket write failed", map[string]any{"error": err.Error()})
	}
}
