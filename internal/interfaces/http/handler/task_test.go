package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/backend/internal/domain/task"
	"github.com/taskboard/backend/internal/infrastructure/config"
	"github.com/taskboard/backend/internal/infrastructure/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTaskRouter 基于临时目录中的 JSON 文档构建路由
func setupTaskRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	dataFile := filepath.Join(t.TempDir(), "tasks.json")
	store := storage.NewJSONStore(&config.StorageConfig{DataFile: dataFile})
	return newTaskRouter(storage.NewTaskRepository(store, storage.NoopLocker{})), dataFile
}

func newTaskRouter(repo task.Repository) *gin.Engine {
	h := NewTaskHandler(repo)
	router := gin.New()
	router.GET("/api/tasks", h.List)
	router.POST("/api/tasks", h.Create)
	router.PUT("/api/tasks/:id", h.Update)
	router.DELETE("/api/tasks/:id", h.Delete)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) task.Task {
	t.Helper()
	var got task.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func TestTaskHandler_Lifecycle(t *testing.T) {
	router, dataFile := setupTaskRouter(t)

	// 空文档
	w := doRequest(router, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	// 创建
	w = doRequest(router, http.MethodPost, "/api/tasks", `{"title":"  Buy milk  ","completed":false}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, task.Task{ID: 1, Title: "Buy milk", Completed: false}, decodeTask(t, w))

	w = doRequest(router, http.MethodPost, "/api/tasks", `{"title":"Walk dog","completed":true}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, task.Task{ID: 2, Title: "Walk dog", Completed: true}, decodeTask(t, w))

	// 部分更新
	w = doRequest(router, http.MethodPut, "/api/tasks/1", `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, task.Task{ID: 1, Title: "Buy milk", Completed: true}, decodeTask(t, w))

	// 删除
	w = doRequest(router, http.MethodDelete, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Task deleted successfully"}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":2,"title":"Walk dog","completed":true}]`, w.Body.String())

	// 删除后 id 不复用
	w = doRequest(router, http.MethodPost, "/api/tasks", `{"title":"Read","completed":false}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 3, decodeTask(t, w).ID)

	data, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[{"id":2,"title":"Walk dog","completed":true},{"id":3,"title":"Read","completed":false}],"nextId":4}`, string(data))
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"空对象",
			`{}`,
			`{"errors":[{"field":"title","message":"Title is required"},{"field":"completed","message":"Completed is required"}]}`,
		},
		{
			"空请求体",
			``,
			`{"errors":[{"field":"title","message":"Title is required"},{"field":"completed","message":"Completed is required"}]}`,
		},
		{"缺少 completed", `{"title":"ok"}`, `{"errors":[{"field":"completed","message":"Completed is required"}]}`},
		{"空白 title", `{"title":"   ","completed":false}`, `{"errors":[{"field":"title","message":"Title cannot be empty"}]}`},
		{"title 非字符串", `{"title":42,"completed":false}`, `{"errors":[{"field":"title","message":"Title must be a string"}]}`},
		{
			"title 过长",
			`{"title":"` + strings.Repeat("a", 201) + `","completed":false}`,
			`{"errors":[{"field":"title","message":"Title must be at most 200 characters"}]}`,
		},
		{"completed 为字符串", `{"title":"ok","completed":"false"}`, `{"errors":[{"field":"completed","message":"Completed must be a boolean"}]}`},
		{"completed 为数字", `{"title":"ok","completed":0}`, `{"errors":[{"field":"completed","message":"Completed must be a boolean"}]}`},
		{
			"多个错误按字段顺序",
			`{"title":"","completed":1}`,
			`{"errors":[{"field":"title","message":"Title cannot be empty"},{"field":"completed","message":"Completed must be a boolean"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, dataFile := setupTaskRouter(t)

			w := doRequest(router, http.MethodPost, "/api/tasks", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
			assert.NoFileExists(t, dataFile, "校验失败不应写入文档")
		})
	}
}

func TestTaskHandler_InvalidJSON(t *testing.T) {
	router, _ := setupTaskRouter(t)

	for _, body := range []string{`{"title":`, `[1,2]`, `"text"`, `null`} {
		w := doRequest(router, http.MethodPost, "/api/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Invalid JSON in request body"}`, w.Body.String(), body)
	}

	doRequest(router, http.MethodPost, "/api/tasks", `{"title":"a","completed":false}`)
	w := doRequest(router, http.MethodPut, "/api/tasks/1", `{bad`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON in request body"}`, w.Body.String())
}

func TestTaskHandler_UpdateValidation(t *testing.T) {
	router, _ := setupTaskRouter(t)
	doRequest(router, http.MethodPost, "/api/tasks", `{"title":"Original","completed":false}`)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"completed 为 null", `{"completed":null}`, `{"errors":[{"field":"completed","message":"Completed must be a boolean"}]}`},
		{"title 为空", `{"title":""}`, `{"errors":[{"field":"title","message":"Title cannot be empty"}]}`},
		{"title 为 null", `{"title":null}`, `{"errors":[{"field":"title","message":"Title must be a string"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPut, "/api/tasks/1", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}

	w := doRequest(router, http.MethodGet, "/api/tasks", "")
	assert.JSONEq(t, `[{"id":1,"title":"Original","completed":false}]`, w.Body.String())
}

func TestTaskHandler_UpdateEmptyBodyIsNoop(t *testing.T) {
	router, _ := setupTaskRouter(t)
	doRequest(router, http.MethodPost, "/api/tasks", `{"title":"Keep","completed":false}`)

	w := doRequest(router, http.MethodPut, "/api/tasks/1", `{}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, task.Task{ID: 1, Title: "Keep"}, decodeTask(t, w))
}

func TestTaskHandler_InvalidID(t *testing.T) {
	router, _ := setupTaskRouter(t)

	for _, path := range []string{"/api/tasks/abc", "/api/tasks/1.5", "/api/tasks/1x"} {
		w := doRequest(router, http.MethodPut, path, `{"completed":true}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.JSONEq(t, `{"error":"Invalid task ID"}`, w.Body.String(), path)

		w = doRequest(router, http.MethodDelete, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.JSONEq(t, `{"error":"Invalid task ID"}`, w.Body.String(), path)
	}
}

func TestTaskHandler_NotFound(t *testing.T) {
	router, _ := setupTaskRouter(t)
	doRequest(router, http.MethodPost, "/api/tasks", `{"title":"only","completed":false}`)

	w := doRequest(router, http.MethodPut, "/api/tasks/99", `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Task not found"}`, w.Body.String())

	w = doRequest(router, http.MethodDelete, "/api/tasks/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Task not found"}`, w.Body.String())

	// 二次删除
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodDelete, "/api/tasks/1", "").Code)
	w = doRequest(router, http.MethodDelete, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_ListCorruptDocument(t *testing.T) {
	router, dataFile := setupTaskRouter(t)
	require.NoError(t, os.WriteFile(dataFile, []byte("not json"), 0644))

	w := doRequest(router, http.MethodGet, "/api/tasks", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

// failingStore 写入总是失败的文档存储
type failingStore struct{}

func (failingStore) Load() *task.Document { return task.NewDocument() }

func (failingStore) Save(*task.Document) error {
	return &storage.WriteError{Path: "tasks.json", Err: errors.New("disk full")}
}

func TestTaskHandler_WriteFailure(t *testing.T) {
	router := newTaskRouter(storage.NewTaskRepository(failingStore{}, storage.NoopLocker{}))

	w := doRequest(router, http.MethodPost, "/api/tasks", `{"title":"x","completed":false}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to create task"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "disk full")

	w = doRequest(router, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBindJSONObject_RejectsTrailingData(t *testing.T) {
	router, _ := setupTaskRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{"title":"a","completed":false} {"title":"b","completed":false}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON in request body"}`, w.Body.String())
}
