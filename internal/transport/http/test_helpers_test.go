package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"batepapo/internal/config"
	"batepapo/internal/core"
	"batepapo/internal/store/sqlite"
)

// testEnv bundles a wired server with the core services behind it, so
// tests can seed state directly.
type testEnv struct {
	handler  stdhttp.Handler
	registry *core.Registry
	messages *core.MessageLog
}

// newTestEnv creates a server over an in-memory document store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := zerolog.Nop()
	registry := core.NewRegistry(st, &logger)
	messages := core.NewMessageLog(st, &logger)

	cfg := config.Default()
	server := NewServer(registry, messages, &cfg, &logger)

	return &testEnv{
		handler:  server.Handler,
		registry: registry,
		messages: messages,
	}
}

// do performs a request against the test server. A non-empty user is sent
// in the User header.
func (e *testEnv) do(t *testing.T, method, path, body, user string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(HeaderUser, user)
	}

	resp := httptest.NewRecorder()
	e.handler.ServeHTTP(resp, req)
	return resp
}
