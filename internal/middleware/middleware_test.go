package middleware

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/captionrelay/backend/internal/logger"
)

var _ http.Hijacker = (*responseWriter)(nil)

type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	server, client := net.Pipe()
	client.Close()
	rw := bufio.NewReadWriter(bufio.NewReader(server), bufio.NewWriter(server))
	return server, rw, nil
}

func TestLogging_HijackDelegates(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test")

	rec := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}

	handler := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("wrapped writer does not implement http.Hijacker")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("hijack failed: %v", err)
		}
		conn.Close()
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/captions/ws", nil)
	handler.ServeHTTP(rec, req)

	if !rec.hijacked {
		t.Error("hijack did not reach the underlying writer")
	}
}

func TestLogging_HijackUnsupported(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test")

	handler := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj := w.(http.Hijacker)
		if _, _, err := hj.Hijack(); err != http.ErrNotSupported {
			t.Errorf("err = %v, want http.ErrNotSupported", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	// plain recorder: no Hijack on the underlying writer
	req := httptest.NewRequest(http.MethodGet, "/api/v1/captions/ws", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
