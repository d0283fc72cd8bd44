package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"PosFM/logger"
	"PosFM/playlist"
)

// PlaylistHandler 处理播放列表相关的请求
func (h *APIHandler) PlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	principalID := strconv.FormatInt(userID, 10)

	store, err := h.loadPlaylist(ctx, principalID)
	if err != nil {
		logger.Error("[Playlist] 恢复播放列表失败",
			logger.String("uid", principalID),
			logger.ErrorField(err),
		)
		http.Error(w, "Failed to load playlist", http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.pruneMissing(ctx, store)
		writeJSON(w, http.StatusOK, store.List())
	case http.MethodPost:
		h.addToPlaylist(ctx, store, w, r)
	case http.MethodDelete:
		if r.URL.Query().Get("clear") == "true" {
			h.clearPlaylist(ctx, store, w)
		} else {
			h.removeFromPlaylist(ctx, store, w, r)
		}
	case http.MethodPut:
		h.movePlaylistEntry(ctx, store, w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// loadPlaylist 从缓存恢复主体的播放列表仓库
func (h *APIHandler) loadPlaylist(ctx context.Context, principalID string) (*playlist.Store, error) {
	store := playlist.NewStore(principalID, h.playlistCache)
	if err := store.Restore(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// pruneMissing 剔除目录中已不存在的曲目。目录查询失败时保持列表原样，
// 宁可多显示一条失效曲目也不误删。
func (h *APIHandler) pruneMissing(ctx context.Context, store *playlist.Store) {
	if h.catalog == nil {
		return
	}

	tracks, err := h.catalog.ListTracks(ctx)
	if err != nil {
		logger.Warn("[Playlist] 目录查询失败，跳过失效曲目清理", logger.ErrorField(err))
		return
	}

	existing := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		existing[t.FileName] = true
	}

	if removed := store.RemoveMissing(existing); len(removed) > 0 {
		if err := store.Persist(ctx); err != nil {
			logger.Error("[Playlist] 持久化播放列表失败", logger.ErrorField(err))
		}
	}
}

// addToPlaylist 把目录中的曲目加入播放列表。重复加入不是错误，
// 响应里用added=false告知客户端。
func (h *APIHandler) addToPlaylist(ctx context.Context, store *playlist.Store, w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileName == "" {
		http.Error(w, "fileName is required", http.StatusBadRequest)
		return
	}

	track, err := h.trackRepo.GetTrackByFileName(req.FileName)
	if err != nil {
		logger.Error("[Playlist] 查询曲目失败", logger.String("file", req.FileName), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if track == nil {
		http.Error(w, "Track not found", http.StatusNotFound)
		return
	}

	if err := store.Add(*track); err != nil {
		if errors.Is(err, playlist.ErrDuplicateEntry) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"added":  false,
				"reason": "duplicate",
				"count":  store.Len(),
			})
			return
		}
		http.Error(w, "Failed to add track", http.StatusInternalServerError)
		return
	}

	if err := store.Persist(ctx); err != nil {
		logger.Error("[Playlist] 持久化播放列表失败", logger.ErrorField(err))
		http.Error(w, "Failed to persist playlist", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"added": true,
		"count": store.Len(),
	})
}

// removeFromPlaylist 按索引移除条目
func (h *APIHandler) removeFromPlaylist(ctx context.Context, store *playlist.Store, w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	if !store.RemoveAt(index) {
		http.Error(w, "Index out of range", http.StatusBadRequest)
		return
	}

	if err := store.Persist(ctx); err != nil {
		logger.Error("[Playlist] 持久化播放列表失败", logger.ErrorField(err))
		http.Error(w, "Failed to persist playlist", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"count": store.Len()})
}

// clearPlaylist 清空播放列表
func (h *APIHandler) clearPlaylist(ctx context.Context, store *playlist.Store, w http.ResponseWriter) {
	if err := store.Clear(ctx); err != nil {
		logger.Error("[Playlist] 清空播放列表失败", logger.ErrorField(err))
		http.Error(w, "Failed to clear playlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"count": 0})
}

// movePlaylistEntry 上移或下移一个条目。边界上的移动是无操作，
// moved=false告知客户端不必重绘。
func (h *APIHandler) movePlaylistEntry(ctx context.Context, store *playlist.Store, w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index     int    `json:"index"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var moved bool
	switch req.Direction {
	case "up":
		moved = store.MoveUp(req.Index)
	case "down":
		moved = store.MoveDown(req.Index)
	default:
		http.Error(w, "direction must be 'up' or 'down'", http.StatusBadRequest)
		return
	}

	if moved {
		if err := store.Persist(ctx); err != nil {
			logger.Error("[Playlist] 持久化播放列表失败", logger.ErrorField(err))
			http.Error(w, "Failed to persist playlist", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"moved": moved,
		"items": store.List(),
	})
}
