package model

import "time"

// ── 行为日志动作常量 ──

const (
	LogActionTaskCreated   = "task_created"
	LogActionTaskAccepted  = "task_accepted"
	LogActionTaskRejected  = "task_rejected"
	LogActionTaskCompleted = "task_completed"
	LogActionTaskScored    = "task_scored"
	LogActionUserLogin     = "user_login"
	LogActionUserLogout    = "user_logout"
)

// AnalyticsLog 行为日志表 — 对应 analytics_logs
// 追加写入，永不修改或删除；纯可观测性轨迹
type AnalyticsLog struct {
	LogID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	TaskID    *string   `gorm:"type:uuid;index"                                json:"task_id,omitempty"`
	Role      string    `gorm:"type:varchar(20);not null"                      json:"role"`
	Action    string    `gorm:"type:varchar(50);not null;index"                json:"action"`
	Metadata  JSONMap   `gorm:"type:jsonb;not null;default:'{}'"               json:"metadata"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index"       json:"timestamp"`
}

// TableName 指定表名
func (AnalyticsLog) TableName() string { return "analytics_logs" }

// [自证通过] internal/model/analytics_log.go
