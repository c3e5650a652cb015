// ABOUTME: Outbound HTTP logging transport with correlation IDs.
// ABOUTME: Logs each backend call with method, path, status, and latency.

package client

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// loggingTransport tags every request with an X-Request-ID and logs its outcome.
type loggingTransport struct {
	next http.RoundTripper
}

func newLoggingTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if _, ok := next.(*loggingTransport); ok {
		return next
	}
	return &loggingTransport{next: next}
}

// RoundTrip implements http.RoundTripper
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := uuid.NewString()

	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", requestID)

	path := sanitizePath(req.URL.Path)
	slog.Debug("Backend call started",
		"request_id", requestID,
		"method", req.Method,
		"path", path,
	)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		slog.Warn("Backend call failed",
			"request_id", requestID,
			"method", req.Method,
			"path", path,
			"error", err,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	slog.Log(req.Context(), level, "Backend call completed",
		"request_id", requestID,
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// sanitizePath strips control characters so a path cannot forge log lines.
func sanitizePath(path string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, path)
}
