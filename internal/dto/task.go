package dto

import "time"

// ── 任务模块 DTO ──

// PatientInfoRequest 患者信息
type PatientInfoRequest struct {
	Name             string `json:"name"              binding:"required"`
	Age              int    `json:"age"               binding:"required,gte=0,lte=150"`
	PrimaryComplaint string `json:"primary_complaint" binding:"required"`
	Notes            string `json:"notes"`
}

// CreateTaskRequest 创建任务请求（仅管理员）
type CreateTaskRequest struct {
	Title             string             `json:"title"               binding:"required,max=255"`
	Description       string             `json:"description"         binding:"required"`
	Patient           PatientInfoRequest `json:"patient"             binding:"required"`
	AssignedStudentID string             `json:"assigned_student_id" binding:"required,uuid"`
}

// RejectTaskRequest 拒绝任务请求；拒绝理由必填
type RejectTaskRequest struct {
	RejectReason string `json:"reject_reason" binding:"required"`
}

// ScoreTaskRequest 评分请求（仅管理员）；指针以区分「缺失」与显式 0 分
type ScoreTaskRequest struct {
	QualityScore *float64 `json:"quality_score" binding:"required,gte=0,lte=5"`
}

// PatientInfoResponse 患者信息响应
type PatientInfoResponse struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	PrimaryComplaint string `json:"primary_complaint"`
	Notes            string `json:"notes,omitempty"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Patient             PatientInfoResponse `json:"patient"`
	AssignedStudentID   string              `json:"assigned_student_id"`
	AssignedStudentName string              `json:"assigned_student_name,omitempty"`
	Status              string              `json:"status"`
	QualityScore        *float64            `json:"quality_score,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	CompletedAt         *time.Time          `json:"completed_at,omitempty"`
}

// [自证通过] internal/dto/task.go
