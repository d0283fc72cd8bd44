package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// playlistTTL 播放列表的过期时间
const playlistTTL = 24 * time.Hour

// PlaylistCache 在Redis中保存用户的播放列表序列化数据
type PlaylistCache struct {
	client *redis.Client
}

// NewPlaylistCache 创建 PlaylistCache 实例
func NewPlaylistCache(client *redis.Client) *PlaylistCache {
	return &PlaylistCache{client: client}
}

// GetPlaylistKey 根据用户标识生成播放列表的Redis键
func GetPlaylistKey(principalID string) string {
	return fmt.Sprintf("playlist:%s", principalID)
}

// Save 保存播放列表数据并刷新过期时间
func (c *PlaylistCache) Save(ctx context.Context, principalID string, data []byte) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	key := GetPlaylistKey(principalID)
	if err := c.client.Set(ctx, key, data, playlistTTL).Err(); err != nil {
		return fmt.Errorf("failed to save playlist: %w", err)
	}
	return nil
}

// Load 读取播放列表数据，列表不存在时返回nil数据
func (c *PlaylistCache) Load(ctx context.Context, principalID string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	key := GetPlaylistKey(principalID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load playlist: %w", err)
	}
	return data, nil
}

// Delete 清空播放列表数据（登出时调用）
func (c *PlaylistCache) Delete(ctx context.Context, principalID string) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	key := GetPlaylistKey(principalID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear playlist: %w", err)
	}
	return nil
}
