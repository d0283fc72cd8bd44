package player

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PosFM/model"
)

// fakeElement records transport calls so tests can assert on binding order.
type fakeElement struct {
	mu        sync.Mutex
	loads     []string
	playCalls int
	paused    bool
	unloaded  bool
	loadErr   error
	playErr   error
}

func (e *fakeElement) Load(src string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loadErr != nil {
		return e.loadErr
	}
	e.loads = append(e.loads, src)
	return nil
}

func (e *fakeElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playErr != nil {
		return e.playErr
	}
	e.playCalls++
	e.paused = false
	return nil
}

func (e *fakeElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

func (e *fakeElement) Unload() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloaded = true
}

func (e *fakeElement) loadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.loads)
}

// countingResolver fails a fixed number of times before succeeding.
type countingResolver struct {
	mu       sync.Mutex
	calls    int
	failures int
	err      error
}

func (r *countingResolver) Resolve(ctx context.Context, fileName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.calls <= r.failures {
		return "", r.err
	}
	return "http://localhost:8080/stream?file=" + fileName, nil
}

func testTracks(names ...string) []model.Track {
	tracks := make([]model.Track, 0, len(names))
	for _, n := range names {
		tracks = append(tracks, model.Track{FileName: n, Title: n})
	}
	return tracks
}

func newTestController(names ...string) *Controller {
	c := NewController(&StaticResolver{BaseURL: "http://localhost:8080"})
	c.Attach(testTracks(names...))
	return c
}

func TestPlayAtBindsSourceLazily(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3")
	el := &fakeElement{}

	// Attach alone must not touch any element
	require.Equal(t, 0, el.loadCount())
	require.Equal(t, Idle, c.Snapshot().State)

	err := c.PlayAt(context.Background(), 1, el)
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.Equal(t, Playing, snap.State)
	assert.Equal(t, 1, snap.Index)
	require.NotNil(t, snap.Track)
	assert.Equal(t, "b.mp3", snap.Track.FileName)
	require.Equal(t, 1, el.loadCount())
	assert.Contains(t, el.loads[0], "b.mp3")
}

func TestPlayExclusivityAcrossElements(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3")
	elA := &fakeElement{}
	elB := &fakeElement{}

	require.NoError(t, c.PlayAt(context.Background(), 0, elA))
	require.NoError(t, c.PlayAt(context.Background(), 1, elB))

	// Starting B must have paused A first
	assert.True(t, elA.paused)
	assert.False(t, elB.paused)
	assert.Equal(t, Playing, c.Snapshot().State)
	assert.Equal(t, 1, c.Snapshot().Index)
}

func TestToggleFlipsPlayingAndPaused(t *testing.T) {
	c := newTestController("a.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 0, el))

	c.Toggle()
	assert.Equal(t, Paused, c.Snapshot().State)
	assert.True(t, el.paused)

	c.Toggle()
	assert.Equal(t, Playing, c.Snapshot().State)
	assert.Equal(t, 2, el.playCalls)
}

func TestToggleWithoutElementIsNoop(t *testing.T) {
	c := newTestController("a.mp3")
	c.Toggle()
	assert.Equal(t, Idle, c.Snapshot().State)
}

func TestNextAndPreviousBoundaries(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 0, el))

	// At the head, Previous is a no-op
	require.NoError(t, c.Previous(context.Background()))
	assert.Equal(t, 0, c.Snapshot().Index)

	require.NoError(t, c.Next(context.Background()))
	assert.Equal(t, 1, c.Snapshot().Index)

	// At the tail, Next is a no-op
	require.NoError(t, c.Next(context.Background()))
	assert.Equal(t, 1, c.Snapshot().Index)
	assert.Equal(t, Playing, c.Snapshot().State)
}

func TestEndedChainsToNextTrack(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 0, el))

	require.NoError(t, c.Ended(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, Playing, snap.State)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, "b.mp3", snap.Track.FileName)
}

func TestEndedAtTailResetsToIdle(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 1, el))

	require.NoError(t, c.Ended(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, 0, snap.Index)
	assert.True(t, el.unloaded)
	// No auto-replay: the element got exactly one play
	assert.Equal(t, 1, el.playCalls)
}

func TestRemoveBeforeCurrentShiftsIndexDown(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3", "c.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 1, el))

	c.RemoveAt(0)

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, "b.mp3", snap.Track.FileName)
	assert.Equal(t, Playing, snap.State)
	assert.False(t, el.paused)
}

func TestRemoveCurrentStopsPlayback(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3", "c.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 1, el))

	c.RemoveAt(1)

	snap := c.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, "c.mp3", snap.Track.FileName)
	assert.True(t, el.paused)
	assert.True(t, el.unloaded)
}

func TestRemoveLastEntryClampsIndex(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 1, el))

	c.RemoveAt(1)

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, 1, snap.ListLen)
}

func TestRemoveFinalEntryLeavesEmptySession(t *testing.T) {
	c := newTestController("a.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 0, el))

	c.RemoveAt(0)

	snap := c.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, 0, snap.ListLen)
	assert.Nil(t, snap.Track)
}

func TestRemoveFileDropsAllMatchingEntries(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3", "c.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 2, el))

	c.RemoveFile("a.mp3")

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.ListLen)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, "c.mp3", snap.Track.FileName)
	assert.Equal(t, Playing, snap.State)

	c.RemoveFile("missing.mp3")
	assert.Equal(t, 2, c.Snapshot().ListLen)
}

func TestSwapFollowsCurrentTrack(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3", "c.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 1, el))

	c.Swap(1, 0)

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, "b.mp3", snap.Track.FileName)
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	resolver := &countingResolver{failures: 2, err: ErrTransport}
	c := NewController(resolver)
	c.Attach(testTracks("a.mp3"))
	el := &fakeElement{}

	err := c.PlayAt(context.Background(), 0, el)
	require.NoError(t, err)
	assert.Equal(t, Playing, c.Snapshot().State)
	assert.Equal(t, 3, resolver.calls)
}

func TestRetryGivesUpAfterLimit(t *testing.T) {
	resolver := &countingResolver{failures: 10, err: ErrTransport}
	c := NewController(resolver)
	c.Attach(testTracks("a.mp3"))
	el := &fakeElement{}

	var reported error
	c.SetOnError(func(err error) { reported = err })

	err := c.PlayAt(context.Background(), 0, el)
	require.Error(t, err)
	assert.ErrorIs(t, reported, ErrTransport)
	assert.Equal(t, Idle, c.Snapshot().State)
	// Initial attempt plus retryLimit retries, no more
	assert.Equal(t, retryLimit+1, resolver.calls)
}

func TestUnauthorizedIsNotRetried(t *testing.T) {
	resolver := &countingResolver{failures: 10, err: ErrUnauthorized}
	c := NewController(resolver)
	c.Attach(testTracks("a.mp3"))
	el := &fakeElement{}

	err := c.PlayAt(context.Background(), 0, el)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, Idle, c.Snapshot().State)
}

func TestAttachDropsTracksWithoutFileName(t *testing.T) {
	c := NewController(&StaticResolver{BaseURL: "http://localhost:8080"})
	c.Attach([]model.Track{
		{FileName: "a.mp3"},
		{Title: "no file"},
		{FileName: "b.mp3"},
	})
	assert.Equal(t, 2, c.Snapshot().ListLen)
}

func TestStopTearsDownSession(t *testing.T) {
	c := newTestController("a.mp3")
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 0, el))

	c.Stop()

	snap := c.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, 0, snap.ListLen)
	assert.True(t, el.paused)
	assert.True(t, el.unloaded)
}

func TestOnChangeDeliversSnapshots(t *testing.T) {
	c := NewController(&StaticResolver{BaseURL: "http://localhost:8080"})

	var mu sync.Mutex
	var states []TransportState
	c.SetOnChange(func(snap Snapshot) {
		mu.Lock()
		states = append(states, snap.State)
		mu.Unlock()
	})

	c.Attach(testTracks("a.mp3"))
	el := &fakeElement{}
	require.NoError(t, c.PlayAt(context.Background(), 0, el))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, states)
	// Loading precedes Playing
	assert.Contains(t, states, Loading)
	assert.Equal(t, Playing, states[len(states)-1])
}

func TestPlayAtRejectsOutOfRangeIndex(t *testing.T) {
	c := newTestController("a.mp3")
	el := &fakeElement{}
	assert.Error(t, c.PlayAt(context.Background(), 5, el))
	assert.Error(t, c.PlayAt(context.Background(), -1, el))
}

func TestDispatchRoutesEvents(t *testing.T) {
	c := newTestController("a.mp3", "b.mp3")
	el := &fakeElement{}

	require.NoError(t, c.Dispatch(context.Background(), Event{Kind: EventPlay, Index: 0, Element: el}))
	assert.Equal(t, Playing, c.Snapshot().State)

	require.NoError(t, c.Dispatch(context.Background(), Event{Kind: EventToggle}))
	assert.Equal(t, Paused, c.Snapshot().State)

	require.NoError(t, c.Dispatch(context.Background(), Event{Kind: EventStop}))
	assert.Equal(t, Idle, c.Snapshot().State)

	assert.Error(t, c.Dispatch(context.Background(), Event{Kind: "bogus"}))
}
