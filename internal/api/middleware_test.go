package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dgnsrekt/gemini-tts-proxy/internal/logging"
)

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	cfg := testConfig()
	cfg.BearerToken = "secret-token"
	srv := testServer(cfg, newEngine())

	called := false
	handler := srv.withAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	if called {
		t.Error("handler should not have been called without auth")
	}

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Error != "missing authorization header" {
		t.Errorf("expected error 'missing authorization header', got '%s'", resp.Error)
	}
}

func TestAuthMiddlewareInvalidFormat(t *testing.T) {
	cfg := testConfig()
	cfg.BearerToken = "secret-token"
	srv := testServer(cfg, newEngine())

	called := false
	handler := srv.withAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz") // Basic auth format
	w := httptest.NewRecorder()

	handler(w, req)

	if called {
		t.Error("handler should not have been called with invalid auth format")
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Error != "invalid authorization format" {
		t.Errorf("expected error 'invalid authorization format', got '%s'", resp.Error)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	cfg := testConfig()
	cfg.BearerToken = "secret-token"
	srv := testServer(cfg, newEngine())

	called := false
	handler := srv.withAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()

	handler(w, req)

	if called {
		t.Error("handler should not have been called with wrong token")
	}

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Error != "invalid token" {
		t.Errorf("expected error 'invalid token', got '%s'", resp.Error)
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := testConfig()
	cfg.BearerToken = "secret-token"
	srv := testServer(cfg, newEngine())

	called := false
	handler := srv.withAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "bearer secret-token") // scheme is case-insensitive
	w := httptest.NewRecorder()

	handler(w, req)

	if !called {
		t.Error("handler should have been called with valid token")
	}

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAuthMiddlewareDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.BearerToken = "" // Auth disabled
	srv := testServer(cfg, newEngine())

	called := false
	handler := srv.withAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	// No Authorization header
	w := httptest.NewRecorder()

	handler(w, req)

	if !called {
		t.Error("handler should have been called when auth is disabled")
	}
}

func TestRequestIDGenerated(t *testing.T) {
	srv := testServer(testConfig(), newEngine())

	req := httptest.NewRequest("GET", "/v1/healthz", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	id := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("X-Request-ID = %q is not a UUID: %v", id, err)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	srv := testServer(testConfig(), newEngine())

	req := httptest.NewRequest("GET", "/v1/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestRequestIDTooLongReplaced(t *testing.T) {
	srv := testServer(testConfig(), newEngine())

	req := httptest.NewRequest("GET", "/v1/healthz", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("oversized inbound request ID should be replaced with a UUID")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	srv := New(testConfig(), logging.NewWithWriter(&buf, "info", "json"), newEngine())

	req := httptest.NewRequest("GET", "/v1/healthz", nil)
	req.Header.Set(RequestIDHeader, "log-test")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	var entry map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var e map[string]any
		if json.Unmarshal(line, &e) == nil && e["msg"] == "http request" {
			entry = e
		}
	}
	if entry == nil {
		t.Fatalf("no access log line found in %s", buf.String())
	}

	if entry["path"] != "/v1/healthz" {
		t.Errorf("path = %v, want /v1/healthz", entry["path"])
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
	if entry["request_id"] != "log-test" {
		t.Errorf("request_id = %v, want log-test", entry["request_id"])
	}
}
