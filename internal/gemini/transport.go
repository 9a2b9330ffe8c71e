package gemini

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport logs method, path, status and latency of outgoing API
// calls at debug level. Bodies and query strings are never logged.
type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	rt := t.base
	if rt == nil {
		rt = http.DefaultTransport
	}

	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.logger.Debug("gemini request error",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
			"elapsed", time.Since(start),
		)
		return resp, err
	}

	t.logger.Debug("gemini request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)
	return resp, nil
}
