package view

import (
	"context"

	"PosFM/player"
	"PosFM/playlist"
)

// QueueView 弹出式播放队列的适配器。打开时把当前持久化列表挂到控制器，
// 队列内的删除与移动会同步调整控制器的索引记账，关闭时停止一切播放。
type QueueView struct {
	ctrl *player.Controller
	list *playlist.Store
	open bool
}

// NewQueueView 创建队列视图适配器
func NewQueueView(ctrl *player.Controller, list *playlist.Store) *QueueView {
	return &QueueView{ctrl: ctrl, list: list}
}

// Open 打开队列：从列表仓库取当前条目并挂到控制器
func (v *QueueView) Open() {
	v.open = true
	v.ctrl.Attach(v.list.List())
}

// IsOpen 队列当前是否打开
func (v *QueueView) IsOpen() bool {
	return v.open
}

// Play 播放队列第index首
func (v *QueueView) Play(ctx context.Context, index int, el player.Element) error {
	return v.ctrl.Dispatch(ctx, player.Event{Kind: player.EventPlay, Index: index, Element: el})
}

// Toggle 播放/暂停切换
func (v *QueueView) Toggle() {
	v.ctrl.Dispatch(context.Background(), player.Event{Kind: player.EventToggle})
}

// Next 跳到下一首（边界上无操作）
func (v *QueueView) Next(ctx context.Context) error {
	return v.ctrl.Dispatch(ctx, player.Event{Kind: player.EventNext})
}

// Previous 跳到上一首（边界上无操作）
func (v *QueueView) Previous(ctx context.Context) error {
	return v.ctrl.Dispatch(ctx, player.Event{Kind: player.EventPrev})
}

// Remove 从队列删除第index首，并通知控制器修正索引。
// 删除正在播放的条目会停住播放但保留队列位置语义。
func (v *QueueView) Remove(ctx context.Context, index int) error {
	if !v.list.RemoveAt(index) {
		return nil
	}
	if err := v.ctrl.Dispatch(ctx, player.Event{Kind: player.EventRemove, Index: index}); err != nil {
		return err
	}
	return v.list.Persist(ctx)
}

// MoveUp 上移一位。仓库先换位成功后，控制器再换位并修正当前索引。
func (v *QueueView) MoveUp(ctx context.Context, index int) error {
	if !v.list.MoveUp(index) {
		return nil
	}
	if err := v.ctrl.Dispatch(ctx, player.Event{Kind: player.EventSwap, From: index, To: index - 1}); err != nil {
		return err
	}
	return v.list.Persist(ctx)
}

// MoveDown 下移一位
func (v *QueueView) MoveDown(ctx context.Context, index int) error {
	if !v.list.MoveDown(index) {
		return nil
	}
	if err := v.ctrl.Dispatch(ctx, player.Event{Kind: player.EventSwap, From: index, To: index + 1}); err != nil {
		return err
	}
	return v.list.Persist(ctx)
}

// Close 关闭队列并停止播放。队列内容仍然持久化，下次打开可恢复。
func (v *QueueView) Close(ctx context.Context) error {
	v.open = false
	return v.ctrl.Dispatch(ctx, player.Event{Kind: player.EventStop})
}
