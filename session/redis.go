package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"PosFM/model"

	"github.com/go-redis/redis/v8"
)

// GetSessionKey 根据会话ID生成Redis键
func GetSessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// RedisStore Redis会话存储。滑动窗口由键的EXPIRE实现：Verify每次
// 重新下发EXPIRE，键自然过期即等价于不活动销毁。
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore 创建Redis会话存储
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Create 注册会话，已存在时覆盖
func (s *RedisStore) Create(ctx context.Context, sid, principalID string) error {
	if s.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	now := time.Now()
	sess := model.ServerSession{
		PrincipalID: principalID,
		CreatedAt:   now,
		LastSeenAt:  now,
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, GetSessionKey(sid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Verify 校验会话并滑动过期窗口
func (s *RedisStore) Verify(ctx context.Context, sid string) (*model.ServerSession, error) {
	if s.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	key := GetSessionKey(sid)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess model.ServerSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// 滑动窗口：刷新最近活动时间并重新下发过期时间
	sess.LastSeenAt = time.Now()
	if updated, err := json.Marshal(sess); err == nil {
		s.client.Set(ctx, key, updated, s.ttl)
	} else {
		s.client.Expire(ctx, key, s.ttl)
	}

	return &sess, nil
}

// Destroy 销毁会话，幂等。DEL之后下一次Verify立即观察到会话缺失。
func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	if s.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	if err := s.client.Del(ctx, GetSessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
