package model

import "time"

// ── 响应动作常量 ──

const (
	ResponseActionAccepted  = "accepted"
	ResponseActionRejected  = "rejected"
	ResponseActionCompleted = "completed"
)

// TaskResponse 任务响应表 — 对应 task_responses
// 每次状态流转追加一行；写入后不可变；reject_reason 仅在 action == rejected 时有值
type TaskResponse struct {
	ResponseID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TaskID       string    `gorm:"type:uuid;not null;index"                       json:"task_id"`
	StudentID    string    `gorm:"type:uuid;not null;index"                       json:"student_id"`
	Action       string    `gorm:"type:varchar(20);not null"                      json:"action"`
	RejectReason string    `gorm:"type:text"                                      json:"reject_reason,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"timestamp"`
}

// TableName 指定表名
func (TaskResponse) TableName() string { return "task_responses" }

// [自证通过] internal/model/task_response.go
