package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound 媒体文件不存在
var ErrNotFound = errors.New("storage: media file not found")

// MediaInfo 媒体文件元信息
type MediaInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// ReadSeekCloser 可随机读取的媒体对象，本地文件和MinIO对象都满足此接口，
// 因此网关可以统一用 http.ServeContent 支持Range请求。
type ReadSeekCloser interface {
	io.ReadSeeker
	io.Closer
}

// MediaStore 媒体根目录的抽象。name必须是已经过basename归一化的文件名。
type MediaStore interface {
	Stat(ctx context.Context, name string) (*MediaInfo, error)
	Open(ctx context.Context, name string) (ReadSeekCloser, error)
}

// LocalStore 本地目录媒体存储
type LocalStore struct {
	dir string
}

// NewLocalStore 创建本地媒体存储
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Stat 返回文件元信息
func (s *LocalStore) Stat(ctx context.Context, name string) (*MediaInfo, error) {
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}
	return &MediaInfo{Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Open 打开文件用于流式读取
func (s *LocalStore) Open(ctx context.Context, name string) (ReadSeekCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
