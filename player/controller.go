// Package player owns the playback state machine: which track is active, in
// which list, and in what transport state. Both the catalog grid and the
// modal queue delegate every transport action here, so the process-wide
// invariant "at most one element is audible" lives in exactly one place.
package player

import (
	"context"
	"errors"
	"sync"

	"PosFM/logger"
	"PosFM/model"
)

// retryLimit 音频源加载失败后的最大自动重试次数
const retryLimit = 2

// Snapshot 对外暴露的播放会话状态
type Snapshot struct {
	State     TransportState `json:"-"`
	StateName string         `json:"state"`
	Index     int            `json:"index"`
	ListLen   int            `json:"listLen"`
	Track     *model.Track   `json:"track,omitempty"`
}

// Controller 播放控制器。持有当前列表、下标与传输状态，串行处理
// 控制事件。等待网络完成后会重新校验代数，丢弃过期结果。
type Controller struct {
	mu       sync.Mutex
	resolver SourceResolver

	tracks     []model.Track
	index      int
	state      TransportState
	active     Element
	generation uint64

	onChange func(Snapshot)
	onError  func(error)
}

// NewController 创建播放控制器
func NewController(resolver SourceResolver) *Controller {
	return &Controller{resolver: resolver}
}

// SetOnChange 注册状态变更回调（视图与WebSocket推送使用）
func (c *Controller) SetOnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SetOnError 注册用户可见的故障回调
func (c *Controller) SetOnError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// Attach 切换播放上下文（网格或队列），重置播放会话。
// 文件名为空的曲目不可入列，会被直接丢弃。
func (c *Controller) Attach(tracks []model.Track) {
	c.mu.Lock()
	c.stopLocked()
	c.tracks = c.tracks[:0]
	for _, t := range tracks {
		if t.FileName != "" {
			c.tracks = append(c.tracks, t)
		}
	}
	c.index = 0
	c.generation++
	emit := c.emitLocked()
	c.mu.Unlock()
	emit()
}

// Dispatch 处理一个播放控制事件
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventPlay:
		return c.PlayAt(ctx, ev.Index, ev.Element)
	case EventToggle:
		c.Toggle()
		return nil
	case EventPause:
		c.Pause()
		return nil
	case EventNext:
		return c.Next(ctx)
	case EventPrev:
		return c.Previous(ctx)
	case EventEnded:
		return c.Ended(ctx)
	case EventRemove:
		c.RemoveAt(ev.Index)
		return nil
	case EventSwap:
		c.Swap(ev.From, ev.To)
		return nil
	case EventStop:
		c.Stop()
		return nil
	default:
		return errors.New("player: unknown event")
	}
}

// Snapshot 返回当前状态快照
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// PlayAt plays the track at index through el. The source URL is resolved
// and bound here, on explicit play intent, never earlier. Whichever element
// held Playing before is paused first.
func (c *Controller) PlayAt(ctx context.Context, index int, el Element) error {
	if el == nil {
		return errors.New("player: no element to play through")
	}

	c.mu.Lock()
	if index < 0 || index >= len(c.tracks) {
		c.mu.Unlock()
		return errors.New("player: play index out of range")
	}

	// 全局排他：先暂停任何正在出声的元素，无论它属于哪个视图
	if c.active != nil && c.state == Playing {
		c.active.Pause()
	}

	c.index = index
	c.state = Loading
	c.generation++
	gen := c.generation
	track := c.tracks[index]
	emit := c.emitLocked()
	c.mu.Unlock()
	emit()

	// 网络阶段不持锁：解析网关地址并绑定到元素
	var lastErr error
	for attempt := 0; attempt <= retryLimit; attempt++ {
		src, err := c.resolver.Resolve(ctx, track.FileName)
		if err == nil {
			err = el.Load(src)
		}
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
		if errors.Is(err, ErrUnauthorized) {
			// 授权失败重试无意义
			break
		}
		logger.Warn("[Player] 音频源加载失败，重试",
			logger.String("fileName", track.FileName),
			logger.Int("attempt", attempt+1),
			logger.ErrorField(err))
	}

	c.mu.Lock()
	if c.generation != gen {
		// 等待网络期间上下文已切换，丢弃结果
		c.mu.Unlock()
		el.Unload()
		return nil
	}

	if lastErr == nil {
		lastErr = el.Play()
	}
	if lastErr != nil {
		c.state = Idle
		emit = c.emitLocked()
		errFn := c.errorLocked(lastErr)
		c.mu.Unlock()
		emit()
		errFn()
		logger.Error("[Player] 播放失败",
			logger.String("fileName", track.FileName),
			logger.ErrorField(lastErr))
		return lastErr
	}

	c.active = el
	c.state = Playing
	emit = c.emitLocked()
	c.mu.Unlock()
	emit()

	logger.Info("[Player] 开始播放",
		logger.String("fileName", track.FileName),
		logger.Int("index", index))
	return nil
}

// Toggle 播放/暂停切换。无已绑定元素时为空操作。
func (c *Controller) Toggle() {
	c.mu.Lock()
	var emit func()
	switch {
	case c.state == Playing && c.active != nil:
		c.active.Pause()
		c.state = Paused
		emit = c.emitLocked()
	case c.state == Paused && c.active != nil:
		if err := c.active.Play(); err != nil {
			errFn := c.errorLocked(err)
			c.mu.Unlock()
			errFn()
			return
		}
		c.state = Playing
		emit = c.emitLocked()
	default:
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	emit()
}

// Pause 暂停播放
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.state != Playing || c.active == nil {
		c.mu.Unlock()
		return
	}
	c.active.Pause()
	c.state = Paused
	emit := c.emitLocked()
	c.mu.Unlock()
	emit()
}

// Next 切到下一首。已在末位时为空操作。
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	if c.active == nil || c.index >= len(c.tracks)-1 {
		c.mu.Unlock()
		return nil
	}
	next := c.index + 1
	el := c.active
	c.mu.Unlock()
	return c.PlayAt(ctx, next, el)
}

// Previous 切到上一首。已在首位时为空操作。
func (c *Controller) Previous(ctx context.Context) error {
	c.mu.Lock()
	if c.active == nil || c.index <= 0 {
		c.mu.Unlock()
		return nil
	}
	prev := c.index - 1
	el := c.active
	c.mu.Unlock()
	return c.PlayAt(ctx, prev, el)
}

// Ended handles natural end of the current track: chain to the next index
// when one exists, otherwise return to Idle at index 0 without replaying.
func (c *Controller) Ended(ctx context.Context) error {
	c.mu.Lock()
	if c.active == nil || len(c.tracks) == 0 {
		c.mu.Unlock()
		return nil
	}

	if c.index < len(c.tracks)-1 {
		next := c.index + 1
		el := c.active
		c.state = Ended
		c.mu.Unlock()
		return c.PlayAt(ctx, next, el)
	}

	// 末位结束：回到首位并停在Idle，不自动重播
	c.active.Unload()
	c.state = Idle
	c.index = 0
	c.generation++
	emit := c.emitLocked()
	c.mu.Unlock()
	emit()
	return nil
}

// RemoveAt mirrors a list removal into the playback session. The current
// index shifts so it keeps referencing the same logical "next" track;
// removing the current entry stops its playback and leaves Idle.
func (c *Controller) RemoveAt(index int) {
	c.mu.Lock()
	if index < 0 || index >= len(c.tracks) {
		c.mu.Unlock()
		return
	}

	c.tracks = append(c.tracks[:index], c.tracks[index+1:]...)

	switch {
	case len(c.tracks) == 0:
		c.stopLocked()
		c.index = 0
	case index < c.index:
		c.index--
	case index == c.index:
		// 被移除的正是当前条目：停止它的播放，下一首滑入当前位置
		if c.active != nil {
			c.active.Pause()
			c.active.Unload()
		}
		c.state = Idle
		c.generation++
		if c.index >= len(c.tracks) {
			c.index = len(c.tracks) - 1
		}
	}

	emit := c.emitLocked()
	c.mu.Unlock()
	emit()
}

// RemoveFile drops every entry with the given file name, typically because
// the media file vanished from the catalog.
func (c *Controller) RemoveFile(fileName string) {
	for {
		c.mu.Lock()
		found := -1
		for i, t := range c.tracks {
			if t.FileName == fileName {
				found = i
				break
			}
		}
		c.mu.Unlock()
		if found < 0 {
			return
		}
		c.RemoveAt(found)
	}
}

// Swap mirrors an adjacent reorder into the playback session so the
// currently-playing item is never silently swapped out from under the
// listener.
func (c *Controller) Swap(from, to int) {
	c.mu.Lock()
	n := len(c.tracks)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		c.mu.Unlock()
		return
	}

	c.tracks[from], c.tracks[to] = c.tracks[to], c.tracks[from]
	if c.index == from {
		c.index = to
	} else if c.index == to {
		c.index = from
	}

	emit := c.emitLocked()
	c.mu.Unlock()
	emit()
}

// Stop 停止播放并拆除播放会话（视图关闭时调用）
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.tracks = nil
	c.index = 0
	c.generation++
	emit := c.emitLocked()
	c.mu.Unlock()
	emit()
}

// stopLocked 暂停并卸载当前元素，必须持锁调用
func (c *Controller) stopLocked() {
	if c.active != nil {
		if c.state == Playing {
			c.active.Pause()
		}
		c.active.Unload()
		c.active = nil
	}
	c.state = Idle
}

// snapshotLocked 构建状态快照，必须持锁调用
func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     c.state,
		StateName: c.state.String(),
		Index:     c.index,
		ListLen:   len(c.tracks),
	}
	if c.index >= 0 && c.index < len(c.tracks) {
		track := c.tracks[c.index]
		snap.Track = &track
	}
	return snap
}

// emitLocked 捕获快照并返回解锁后执行的通知闭包
func (c *Controller) emitLocked() func() {
	if c.onChange == nil {
		return func() {}
	}
	fn := c.onChange
	snap := c.snapshotLocked()
	return func() { fn(snap) }
}

// errorLocked 捕获故障回调，解锁后执行
func (c *Controller) errorLocked(err error) func() {
	if c.onError == nil {
		return func() {}
	}
	fn := c.onError
	return func() { fn(err) }
}
