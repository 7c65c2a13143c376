package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/taskboard/backend/internal/domain/task"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestResponses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(c *gin.Context)
		status int
		body   string
	}{
		{"ok", func(c *gin.Context) { OK(c, []int{}) }, http.StatusOK, `[]`},
		{"created", func(c *gin.Context) { Created(c, gin.H{"id": 1}) }, http.StatusCreated, `{"id":1}`},
		{"message", func(c *gin.Context) { Message(c, MsgTaskDeleted) }, http.StatusOK, `{"message":"Task deleted successfully"}`},
		{"error", func(c *gin.Context) { Error(c, http.StatusNotFound, MsgTaskNotFound) }, http.StatusNotFound, `{"error":"Task not found"}`},
		{
			"validation",
			func(c *gin.Context) {
				ValidationFailed(c, []task.Violation{{Field: "title", Message: "Title is required"}})
			},
			http.StatusBadRequest,
			`{"errors":[{"field":"title","message":"Title is required"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.write(c)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
