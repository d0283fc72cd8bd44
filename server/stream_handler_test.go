package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PosFM/config"
	"PosFM/session"
	"PosFM/storage"
)

func newStreamTestHandler(t *testing.T) (*APIHandler, *session.MemoryStore) {
	t.Helper()

	mediaDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "song.mp3"), []byte("mp3-bytes-here"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "notes.txt"), []byte("not audio"), 0644))

	sessions := session.NewMemoryStore(time.Minute)
	cfg := &config.Config{
		SessionCookieName: "posfm_session",
		SessionTTL:        time.Minute,
		StreamTempTokens:  []string{"tok-one", "tok-two"},
	}

	h := NewAPIHandler(nil, nil, nil, sessions, storage.NewLocalStore(mediaDir), nil, cfg)
	return h, sessions
}

func streamRequest(target string) (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil)
}

func TestStreamRejectsRequestWithoutCredentials(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	rec, req := streamRequest("/stream?file=song.mp3")
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStreamRejectsUnknownToken(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	rec, req := streamRequest("/stream?file=song.mp3&token=wrong")
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStreamServesFileWithAllowListedToken(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	rec, req := streamRequest("/stream?file=song.mp3&token=tok-two")
	h.StreamHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="song.mp3"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, fmt.Sprint(len("mp3-bytes-here")), rec.Header().Get("Content-Length"))
	assert.Equal(t, "mp3-bytes-here", rec.Body.String())
}

func TestStreamServesFileWithSessionCookie(t *testing.T) {
	h, sessions := newStreamTestHandler(t)
	require.NoError(t, sessions.Create(context.Background(), "sid-1", "user-1"))

	rec, req := streamRequest("/stream?file=song.mp3")
	req.AddCookie(&http.Cookie{Name: "posfm_session", Value: "sid-1"})
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStreamRejectsAfterSessionDestroyed(t *testing.T) {
	h, sessions := newStreamTestHandler(t)
	ctx := context.Background()
	require.NoError(t, sessions.Create(ctx, "sid-1", "user-1"))
	require.NoError(t, sessions.Destroy(ctx, "sid-1"))

	rec, req := streamRequest("/stream?file=song.mp3")
	req.AddCookie(&http.Cookie{Name: "posfm_session", Value: "sid-1"})
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStreamRequiresFileParameter(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	rec, req := streamRequest("/stream?token=tok-one")
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamNormalizesTraversalToBaseName(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	// ../../etc/song.mp3 collapses to song.mp3, which exists in the root
	rec, req := streamRequest("/stream?file=" + "..%2F..%2Fetc%2Fsong.mp3" + "&token=tok-one")
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mp3-bytes-here", rec.Body.String())
}

func TestStreamRejectsNonMP3Extension(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	rec, req := streamRequest("/stream?file=notes.txt&token=tok-one")
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamMissingFileIs404(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	rec, req := streamRequest("/stream?file=ghost.mp3&token=tok-one")
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamServesRangeRequests(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	rec, req := streamRequest("/stream?file=song.mp3&token=tok-one")
	req.Header.Set("Range", "bytes=0-3")
	h.StreamHandler(rec, req)

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "mp3-", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Range"), "bytes 0-3/")
}

func TestStreamAcceptsPOST(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/stream?file=song.mp3&token=tok-one", nil)
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStreamRejectsDelete(t *testing.T) {
	h, _ := newStreamTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/stream?file=song.mp3&token=tok-one", nil)
	h.StreamHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
