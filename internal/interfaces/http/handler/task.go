package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/backend/internal/domain/task"
	"github.com/taskboard/backend/internal/infrastructure/log"
	"github.com/taskboard/backend/internal/interfaces/http/response"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	repo   task.Repository
	logger *slog.Logger
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(repo task.Repository) *TaskHandler {
	return &TaskHandler{
		repo:   repo,
		logger: log.NewModuleLogger("http", "task_handler"),
	}
}

// CreateTaskRequest 创建任务请求（仅用于文档）
type CreateTaskRequest struct {
	Title     string `json:"title" example:"Buy milk"`
	Completed bool   `json:"completed" example:"false"`
}

// UpdateTaskRequest 更新任务请求，字段均可选（仅用于文档）
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty" example:"Buy oat milk"`
	Completed *bool   `json:"completed,omitempty" example:"true"`
}

// List 获取任务列表
// @Summary 获取任务列表
// @Tags 任务
// @Produce json
// @Success 200 {array} task.Task
// @Failure 500 {object} response.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err, response.MsgListFailed)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	response.OK(c, tasks)
}

// Create 创建任务
// @Summary 创建任务
// @Tags 任务
// @Accept json
// @Produce json
// @Param body body CreateTaskRequest true "任务内容"
// @Success 201 {object} task.Task
// @Failure 400 {object} response.ValidationErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	body, ok := bindJSONObject(c)
	if !ok {
		return
	}

	in, violations := task.ValidateCreate(body)
	if len(violations) > 0 {
		response.ValidationFailed(c, violations)
		return
	}

	created, err := h.repo.Create(c.Request.Context(), in.Title, in.Completed)
	if err != nil {
		h.fail(c, err, response.MsgCreateFailed)
		return
	}

	response.Created(c, created)
}

// Update 更新任务，只修改请求中出现的字段
// @Summary 更新任务
// @Tags 任务
// @Accept json
// @Produce json
// @Param id path int true "任务ID"
// @Param body body UpdateTaskRequest true "更新内容"
// @Success 200 {object} task.Task
// @Failure 400 {object} response.ValidationErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	body, ok := bindJSONObject(c)
	if !ok {
		return
	}

	in, violations := task.ValidateUpdate(body)
	if len(violations) > 0 {
		response.ValidationFailed(c, violations)
		return
	}

	updated, err := h.repo.UpdateByID(c.Request.Context(), id, in.Patch())
	if err != nil {
		h.fail(c, err, response.MsgUpdateFailed)
		return
	}

	response.OK(c, updated)
}

// Delete 删除任务
// @Summary 删除任务
// @Tags 任务
// @Produce json
// @Param id path int true "任务ID"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := h.repo.DeleteByID(c.Request.Context(), id); err != nil {
		h.fail(c, err, response.MsgDeleteFailed)
		return
	}

	response.Message(c, response.MsgTaskDeleted)
}

// fail 将仓储错误映射为 HTTP 状态码
func (h *TaskHandler) fail(c *gin.Context, err error, message string) {
	if errors.Is(err, task.ErrNotFound) {
		response.Error(c, http.StatusNotFound, response.MsgTaskNotFound)
		return
	}

	log.FromContext(c.Request.Context(), h.logger).Error(message,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	response.Error(c, http.StatusInternalServerError, message)
}

// parseID 解析路径参数 id
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.MsgInvalidTaskID)
		return 0, false
	}
	return id, true
}

// bindJSONObject 读取请求体为 JSON 对象，保留字段是否出现及原始类型
// 空请求体视为 {}；无法解析或不是对象时返回 400
func bindJSONObject(c *gin.Context) (map[string]json.RawMessage, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.MsgInvalidJSON)
		return nil, false
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return map[string]json.RawMessage{}, true
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		response.Error(c, http.StatusBadRequest, response.MsgInvalidJSON)
		return nil, false
	}
	return body, true
}
