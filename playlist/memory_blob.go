package playlist

import (
	"context"
	"sync"
)

// MemoryBlob 进程内的播放列表持久化后端，用于无Redis环境和测试
type MemoryBlob struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryBlob 创建内存持久化后端
func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{blobs: make(map[string][]byte)}
}

func (b *MemoryBlob) Save(ctx context.Context, principalID string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	b.blobs[principalID] = stored
	return nil
}

func (b *MemoryBlob) Load(ctx context.Context, principalID string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[principalID]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (b *MemoryBlob) Delete(ctx context.Context, principalID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.blobs, principalID)
	return nil
}
