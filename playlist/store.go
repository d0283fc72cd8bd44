// Package playlist implements the user-curated play queue: an ordered,
// deduplicated collection of track references keyed by file name, with
// persistence across reloads through a pluggable blob backend.
package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"PosFM/logger"
	"PosFM/model"
)

var (
	// ErrDuplicateEntry 同名曲目已在列表中。调用方应把它当作提示而非故障。
	ErrDuplicateEntry = errors.New("playlist: track already in playlist")

	// ErrEmptyFileName 文件名为空的曲目不可入列
	ErrEmptyFileName = errors.New("playlist: track has no file name")
)

// Blob 播放列表序列化数据的持久化后端
type Blob interface {
	Save(ctx context.Context, principalID string, data []byte) error
	Load(ctx context.Context, principalID string) ([]byte, error)
	Delete(ctx context.Context, principalID string) error
}

// Store 单个用户的播放列表。插入顺序保留，按FileName去重，可上下移动。
type Store struct {
	mu          sync.Mutex
	principalID string
	items       []model.Track
	blob        Blob
}

// NewStore 创建播放列表。blob可为nil，此时Persist/Restore为空操作。
func NewStore(principalID string, blob Blob) *Store {
	return &Store{principalID: principalID, blob: blob}
}

// Add 追加曲目。重复的FileName返回ErrDuplicateEntry且列表不变。
func (s *Store) Add(track model.Track) error {
	if track.FileName == "" {
		return ErrEmptyFileName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.FileName == track.FileName {
			return ErrDuplicateEntry
		}
	}
	s.items = append(s.items, track)
	return nil
}

// Remove 按文件名删除曲目，返回被删除曲目的下标，未找到返回-1
func (s *Store) Remove(fileName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.FileName == fileName {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return i
		}
	}
	return -1
}

// RemoveAt 按下标删除曲目，越界时为空操作
func (s *Store) RemoveAt(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return false
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return true
}

// MoveUp 上移曲目。首位时为空操作，返回false。
func (s *Store) MoveUp(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index <= 0 || index >= len(s.items) {
		return false
	}
	s.items[index-1], s.items[index] = s.items[index], s.items[index-1]
	return true
}

// MoveDown 下移曲目。末位时为空操作，返回false。
func (s *Store) MoveDown(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items)-1 {
		return false
	}
	s.items[index+1], s.items[index] = s.items[index], s.items[index+1]
	return true
}

// List 返回当前列表的副本
func (s *Store) List() []model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Track, len(s.items))
	copy(out, s.items)
	return out
}

// Len 返回列表长度
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Contains 判断曲目是否已在列表中
func (s *Store) Contains(fileName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.FileName == fileName {
			return true
		}
	}
	return false
}

// RemoveMissing 删除目录中已不存在的曲目，返回被删除条目的原下标
// （降序），供调用方逐个修正播放索引。
func (s *Store) RemoveMissing(existing map[string]bool) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []int
	for i := len(s.items) - 1; i >= 0; i-- {
		if !existing[s.items[i].FileName] {
			logger.Info("[Playlist] 曲目已从目录消失，移出播放列表",
				logger.String("fileName", s.items[i].FileName))
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = append(removed, i)
		}
	}
	return removed
}

// Persist 将列表序列化后写入持久化后端
func (s *Store) Persist(ctx context.Context) error {
	if s.blob == nil {
		return nil
	}

	s.mu.Lock()
	data, err := json.Marshal(s.items)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal playlist: %w", err)
	}

	return s.blob.Save(ctx, s.principalID, data)
}

// Restore 从持久化后端恢复列表。后端无数据时保持为空列表。
func (s *Store) Restore(ctx context.Context) error {
	if s.blob == nil {
		return nil
	}

	data, err := s.blob.Load(ctx, s.principalID)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	var items []model.Track
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to unmarshal playlist: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Clear 清空列表并删除持久化数据（登出时调用）
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	if s.blob == nil {
		return nil
	}
	return s.blob.Delete(ctx, s.principalID)
}
