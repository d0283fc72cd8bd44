package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PosFM/model"
	"PosFM/player"
	"PosFM/playlist"
)

type nullElement struct{ paused bool }

func (e *nullElement) Load(src string) error { return nil }
func (e *nullElement) Play() error           { e.paused = false; return nil }
func (e *nullElement) Pause()                { e.paused = true }
func (e *nullElement) Unload()               {}

func queueFixture(t *testing.T, names ...string) (*QueueView, *player.Controller, *playlist.Store) {
	t.Helper()

	list := playlist.NewStore("u1", playlist.NewMemoryBlob())
	for _, n := range names {
		require.NoError(t, list.Add(model.Track{FileName: n, Title: n}))
	}

	ctrl := player.NewController(&player.StaticResolver{BaseURL: "http://localhost:8080"})
	qv := NewQueueView(ctrl, list)
	qv.Open()
	return qv, ctrl, list
}

func TestOpenAttachesPlaylistToController(t *testing.T) {
	qv, ctrl, _ := queueFixture(t, "a.mp3", "b.mp3")

	assert.True(t, qv.IsOpen())
	assert.Equal(t, 2, ctrl.Snapshot().ListLen)
}

func TestRemoveKeepsCurrentTrackStable(t *testing.T) {
	qv, ctrl, list := queueFixture(t, "a.mp3", "b.mp3", "c.mp3")
	ctx := context.Background()

	require.NoError(t, qv.Play(ctx, 1, &nullElement{}))
	require.NoError(t, qv.Remove(ctx, 0))

	snap := ctrl.Snapshot()
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, "b.mp3", snap.Track.FileName)
	assert.Equal(t, 2, list.Len())
}

func TestRemoveOutOfRangeIsNoop(t *testing.T) {
	qv, ctrl, list := queueFixture(t, "a.mp3")

	require.NoError(t, qv.Remove(context.Background(), 9))
	assert.Equal(t, 1, list.Len())
	assert.Equal(t, 1, ctrl.Snapshot().ListLen)
}

func TestMoveUpSwapsStoreAndController(t *testing.T) {
	qv, ctrl, list := queueFixture(t, "a.mp3", "b.mp3", "c.mp3")
	ctx := context.Background()

	require.NoError(t, qv.Play(ctx, 2, &nullElement{}))
	require.NoError(t, qv.MoveUp(ctx, 2))

	items := list.List()
	assert.Equal(t, "c.mp3", items[1].FileName)
	assert.Equal(t, "b.mp3", items[2].FileName)

	// Controller index follows the playing track
	snap := ctrl.Snapshot()
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, "c.mp3", snap.Track.FileName)
}

func TestMoveUpAtHeadIsNoop(t *testing.T) {
	qv, _, list := queueFixture(t, "a.mp3", "b.mp3")

	require.NoError(t, qv.MoveUp(context.Background(), 0))
	assert.Equal(t, "a.mp3", list.List()[0].FileName)
}

func TestMoveDownAtTailIsNoop(t *testing.T) {
	qv, _, list := queueFixture(t, "a.mp3", "b.mp3")

	require.NoError(t, qv.MoveDown(context.Background(), 1))
	assert.Equal(t, "b.mp3", list.List()[1].FileName)
}

func TestCloseStopsPlayback(t *testing.T) {
	qv, ctrl, _ := queueFixture(t, "a.mp3")
	ctx := context.Background()

	el := &nullElement{}
	require.NoError(t, qv.Play(ctx, 0, el))
	require.NoError(t, qv.Close(ctx))

	assert.False(t, qv.IsOpen())
	assert.Equal(t, player.Idle, ctrl.Snapshot().State)
	assert.True(t, el.paused)
}

func TestGridAddReportsDuplicateAsNotice(t *testing.T) {
	list := playlist.NewStore("u1", playlist.NewMemoryBlob())
	ctrl := player.NewController(&player.StaticResolver{BaseURL: "http://localhost:8080"})
	gv := NewGridView(ctrl, list)

	var notices []string
	gv.SetOnNotice(func(msg string) { notices = append(notices, msg) })

	track := model.Track{FileName: "a.mp3", Title: "a"}
	require.NoError(t, gv.AddToPlaylist(context.Background(), track))
	require.NoError(t, gv.AddToPlaylist(context.Background(), track))

	assert.Equal(t, 1, list.Len())
	require.Len(t, notices, 2)
	assert.NotEqual(t, notices[0], notices[1])
}
