package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── 任务状态常量 ──
// 生命周期: pending → accepted → completed（正常路径）
//          pending → rejected（终态）

const (
	TaskStatusPending   = "pending"
	TaskStatusAccepted  = "accepted"
	TaskStatusRejected  = "rejected"
	TaskStatusCompleted = "completed"
)

// PatientInfo 患者信息 — 具名字段的固定结构，存储为 JSONB
type PatientInfo struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	PrimaryComplaint string `json:"primary_complaint"`
	Notes            string `json:"notes,omitempty"`
}

// Scan 将数据库返回的 JSONB 字节解析为 PatientInfo。
func (p *PatientInfo) Scan(src interface{}) error {
	if src == nil {
		*p = PatientInfo{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("PatientInfo.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, p)
}

// Value 将 PatientInfo 序列化为 JSONB 字节。
func (p PatientInfo) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// PatientTask 患者任务表 — 对应 patient_tasks
// 由管理员创建（pending 状态）；仅被分配学生可变更状态，仅管理员可评分；永不删除。
// 不变量: quality_score 仅在 status == completed 且已评分时有值；
//        completed_at 当且仅当 status == completed 时有值。
type PatientTask struct {
	TaskID            string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title             string      `gorm:"type:varchar(255);not null"                     json:"title"`
	Description       string      `gorm:"type:text;not null"                             json:"description"`
	Patient           PatientInfo `gorm:"type:jsonb;not null"                            json:"patient"`
	AssignedStudentID string      `gorm:"type:uuid;not null;index"                       json:"assigned_student_id"`
	Status            string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	QualityScore      *float64    `gorm:"type:double precision"                          json:"quality_score,omitempty"`
	CreatedAt         time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP;index"       json:"created_at"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
}

// TableName 指定表名
func (PatientTask) TableName() string { return "patient_tasks" }

// [自证通过] internal/model/patient_task.go
