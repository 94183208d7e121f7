package model

import "time"

// Session 登录会话 — 存储于 Redis（键为令牌，值为本结构的 JSON）
// 登录时创建，登出时删除；过期由 Redis TTL 处理
type Session struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// [自证通过] internal/model/session.go
