// Package view contains the two list renderings' call contracts into the
// playback controller: the full catalog grid and the compact modal queue.
// Neither adapter owns transport logic; both delegate to the one controller,
// which is what keeps the single-audible-element invariant intact across
// visually independent lists.
package view

import (
	"context"
	"errors"

	"PosFM/model"
	"PosFM/player"
	"PosFM/playlist"
)

// GridView 目录网格视图的适配器。每张卡片持有自己的播放元素，
// 但所有传输动作都交给共享的控制器。
type GridView struct {
	ctrl     *player.Controller
	list     *playlist.Store
	tracks   []model.Track
	onNotice func(msg string) // 用户可见提示（加入成功/重复等）
}

// NewGridView 创建网格视图适配器
func NewGridView(ctrl *player.Controller, list *playlist.Store) *GridView {
	return &GridView{ctrl: ctrl, list: list}
}

// SetOnNotice 注册用户提示回调
func (v *GridView) SetOnNotice(fn func(msg string)) {
	v.onNotice = fn
}

// SetTracks 目录加载完成后刷新网格，并把列表挂到控制器上
func (v *GridView) SetTracks(tracks []model.Track) {
	v.tracks = tracks
	v.ctrl.Attach(tracks)
}

// Play 播放网格中第index首曲目。音频源在此刻才会绑定到元素。
func (v *GridView) Play(ctx context.Context, index int, el player.Element) error {
	return v.ctrl.Dispatch(ctx, player.Event{Kind: player.EventPlay, Index: index, Element: el})
}

// Toggle 播放/暂停切换
func (v *GridView) Toggle() {
	v.ctrl.Dispatch(context.Background(), player.Event{Kind: player.EventToggle})
}

// AddToPlaylist 把曲目加入用户播放列表。重复加入只产生提示，不是错误。
func (v *GridView) AddToPlaylist(ctx context.Context, track model.Track) error {
	err := v.list.Add(track)
	switch {
	case errors.Is(err, playlist.ErrDuplicateEntry):
		v.notice("这首歌已经在你的列表里了")
		return nil
	case err != nil:
		return err
	}

	v.notice("已加入播放列表")
	return v.list.Persist(ctx)
}

func (v *GridView) notice(msg string) {
	if v.onNotice != nil {
		v.onNotice(msg)
	}
}
