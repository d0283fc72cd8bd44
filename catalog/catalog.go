// Package catalog 维护可播放曲目的权威列表。列表来自数据库，
// 但实际媒体文件在磁盘或对象存储里，watcher负责两者之间的对账。
package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"PosFM/model"
	"PosFM/repository"
)

// Catalog 曲目目录的读取入口
type Catalog interface {
	// ListTracks 返回目录中全部曲目，按发行日期倒序
	ListTracks(ctx context.Context) ([]model.Track, error)
	// Exists 判断文件名是否仍在目录中
	Exists(ctx context.Context, fileName string) (bool, error)
}

type repoCatalog struct {
	repo repository.TrackRepository
}

// NewCatalog 基于曲目仓库创建目录
func NewCatalog(repo repository.TrackRepository) Catalog {
	return &repoCatalog{repo: repo}
}

func (c *repoCatalog) ListTracks(ctx context.Context) ([]model.Track, error) {
	tracks, err := c.repo.ListTracks()
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog tracks: %w", err)
	}

	// 目录只收.mp3，其他扩展名的脏数据直接过滤掉
	out := tracks[:0]
	for _, t := range tracks {
		if IsPlayable(t.FileName) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *repoCatalog) Exists(ctx context.Context, fileName string) (bool, error) {
	t, err := c.repo.GetTrackByFileName(fileName)
	if err != nil {
		return false, err
	}
	return t != nil, nil
}

// IsPlayable 报告文件名是否为受支持的媒体格式
func IsPlayable(fileName string) bool {
	return strings.ToLower(filepath.Ext(fileName)) == ".mp3"
}
