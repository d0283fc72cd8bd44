package session

import (
	"context"
	"sync"
	"time"

	"PosFM/logger"
	"PosFM/model"
)

// memoryEntry 内存会话条目，timer负责到期销毁
type memoryEntry struct {
	session model.ServerSession
	timer   *time.Timer
}

// MemoryStore 进程内会话存储。到期定时器的重置与Destroy在同一把锁下
// 完成，不会出现销毁后定时器又复活会话的情况。
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*memoryEntry
}

// NewMemoryStore 创建内存会话存储，ttl为滑动不活动窗口
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*memoryEntry),
	}
}

// Create 注册会话，已存在时覆盖
func (s *MemoryStore) Create(ctx context.Context, sid, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.sessions[sid]; ok {
		old.timer.Stop()
	}

	now := time.Now()
	entry := &memoryEntry{
		session: model.ServerSession{
			PrincipalID: principalID,
			CreatedAt:   now,
			LastSeenAt:  now,
		},
	}
	entry.timer = time.AfterFunc(s.ttl, func() {
		s.expire(sid)
	})
	s.sessions[sid] = entry

	logger.Info("[Session] 会话已创建",
		logger.String("principalId", principalID),
		logger.Duration("ttl", s.ttl))
	return nil
}

// Verify 校验会话并重置不活动窗口
func (s *MemoryStore) Verify(ctx context.Context, sid string) (*model.ServerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sid]
	if !ok {
		return nil, ErrNoSession
	}

	// 滑动窗口：任何一次校验都算作活动
	entry.session.LastSeenAt = time.Now()
	entry.timer.Reset(s.ttl)

	copied := entry.session
	return &copied, nil
}

// Destroy 销毁会话，幂等
func (s *MemoryStore) Destroy(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[sid]; ok {
		entry.timer.Stop()
		delete(s.sessions, sid)
		logger.Info("[Session] 会话已销毁", logger.String("principalId", entry.session.PrincipalID))
	}
	return nil
}

// expire 不活动超时回调
func (s *MemoryStore) expire(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sid]
	if !ok {
		return
	}
	delete(s.sessions, sid)
	logger.Info("[Session] 会话因不活动超时被销毁",
		logger.String("principalId", entry.session.PrincipalID))
}
