package catalog

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"PosFM/logger"
	"PosFM/repository"
)

// Watcher 监听媒体目录，文件被删除或改名时把对应条目从目录中清除，
// 并通过回调通知上层（比如从用户播放列表里剔除失效曲目）。
type Watcher struct {
	watcher  *fsnotify.Watcher
	repo     repository.TrackRepository
	onRemove func(fileName string)
	done     chan struct{}
}

// NewWatcher 创建媒体目录监听器。onRemove在文件消失时以文件名回调，可为nil。
func NewWatcher(mediaDir string, repo repository.TrackRepository, onRemove func(fileName string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(mediaDir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		repo:     repo,
		onRemove: onRemove,
		done:     make(chan struct{}),
	}
	go w.loop()

	logger.Info("[Catalog] 媒体目录监听已启动", logger.String("dir", mediaDir))
	return w, nil
}

// Close 停止监听
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !IsPlayable(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			fileName := filepath.Base(event.Name)
			logger.Info("[Catalog] 媒体文件已移除，清理目录条目",
				logger.String("file", fileName),
				logger.String("op", event.Op.String()),
			)

			if err := w.repo.DeleteTrackByFileName(fileName); err != nil {
				logger.Error("[Catalog] 清理目录条目失败",
					logger.String("file", fileName),
					logger.ErrorField(err),
				)
				continue
			}
			if w.onRemove != nil {
				w.onRemove(fileName)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("[Catalog] 目录监听错误", logger.ErrorField(err))

		case <-w.done:
			return
		}
	}
}
