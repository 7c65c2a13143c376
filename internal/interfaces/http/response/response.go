package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/backend/internal/domain/task"
)

// 通用错误信息
const (
	MsgInvalidJSON   = "Invalid JSON in request body"
	MsgInvalidTaskID = "Invalid task ID"
	MsgTaskNotFound  = "Task not found"
	MsgTaskDeleted   = "Task deleted successfully"
	MsgRouteNotFound = "Route not found"
	MsgInternalError = "Internal server error"
	MsgListFailed    = "Failed to load tasks"
	MsgCreateFailed  = "Failed to create task"
	MsgUpdateFailed  = "Failed to update task"
	MsgDeleteFailed  = "Failed to delete task"
)

// ErrorResponse 单条错误响应 {"error": "..."}
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse 校验失败响应 {"errors": [{field, message}]}
type ValidationErrorResponse struct {
	Errors []task.Violation `json:"errors"`
}

// MessageResponse 确认消息 {"message": "..."}
type MessageResponse struct {
	Message string `json:"message"`
}

// OK 200 响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 200 确认消息
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, message string) {
	c.AbortWithStatusJSON(httpCode, ErrorResponse{Error: message})
}

// ValidationFailed 400 校验失败响应
func ValidationFailed(c *gin.Context, violations []task.Violation) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{Errors: violations})
}
