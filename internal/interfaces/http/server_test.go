package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/backend/internal/infrastructure/config"
	"github.com/taskboard/backend/internal/infrastructure/storage"
	infraWS "github.com/taskboard/backend/internal/infrastructure/websocket"
	"github.com/taskboard/backend/internal/interfaces/http/handler"
	"github.com/taskboard/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()

	storageCfg := &config.StorageConfig{DataFile: filepath.Join(t.TempDir(), "tasks.json")}
	repo := storage.NewTaskRepository(storage.NewJSONStore(storageCfg), storage.NoopLocker{})
	hub := infraWS.NewHub()

	return NewServer(
		handler.NewTaskHandler(repo),
		handler.NewEventsHandler(hub, &config.WebSocketConfig{}),
		&config.ServerConfig{HTTPPort: ":0"},
	)
}

func serve(s *HTTPServer, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	w := serve(newTestServer(t), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestServer_RouteNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/unknown", "/", "/api/tasks/1/extra"} {
		w := serve(s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String(), path)
	}
}

func TestServer_EndToEnd(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodPost, "/api/tasks", `{"title":"Buy milk","completed":false}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Buy milk","completed":false}`, w.Body.String())

	w = serve(s, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"title":"Buy milk","completed":false}]`, w.Body.String())

	w = serve(s, http.MethodPut, "/api/tasks/1", `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Buy milk","completed":true}`, w.Body.String())

	w = serve(s, http.MethodDelete, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Task deleted successfully"}`, w.Body.String())

	w = serve(s, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestServer_StopBeforeStart(t *testing.T) {
	assert.NoError(t, newTestServer(t).Stop())
}
