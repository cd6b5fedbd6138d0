package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/chatbridge/internal/facade"
	"github.com/xiaot623/chatbridge/internal/metrics"
	"github.com/xiaot623/chatbridge/internal/session"
	"github.com/xiaot623/chatbridge/internal/testutil"
)

func TestNewServer(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>chat</html>"), 0o600))

	fake := &testutil.FakeBackend{}
	m := metrics.New()
	m.ObserveLogin("success")
	e := NewServer(facade.New(fake), session.NewManager(session.NewStubProvider(), fake), Options{
		StaticDir: static,
		Metrics:   m.Handler(),
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `chatbridge_logins_total{outcome="success"} 1`)

	rec = get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat")

	// Client side routes fall back to the UI bundle.
	rec = get("/chats/c1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat")

	rec = get("/v1/session")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"logged_in":false`)
}

func TestNewServerWithoutExtras(t *testing.T) {
	fake := &testutil.FakeBackend{}
	e := NewServer(facade.New(fake), session.NewManager(session.NewStubProvider(), fake), Options{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
