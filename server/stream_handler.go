package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"PosFM/logger"
	"PosFM/session"
	"PosFM/storage"
)

// StreamHandler 按访问凭证提供媒体文件。凭证二选一：
//   - 有效的服务端会话Cookie（校验的同时会刷新滑动窗口）
//   - 临时令牌白名单中的token参数
//
// 没有任何凭证直接401，绝不回落到匿名访问。
func (h *APIHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost:
		// POST is tolerated for clients that cannot issue ranged GETs
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.authorizeStream(r) {
		logger.Warn("[Stream] 未授权的流媒体访问",
			logger.String("remote", r.RemoteAddr),
			logger.String("file", r.URL.Query().Get("file")),
		)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rawName := r.URL.Query().Get("file")
	if rawName == "" {
		http.Error(w, "Missing 'file' parameter", http.StatusBadRequest)
		return
	}

	// 只取文件名部分，任何路径前缀（含 ../）都被剥掉
	fileName := filepath.Base(rawName)
	if fileName == "." || fileName == string(filepath.Separator) {
		http.Error(w, "Missing 'file' parameter", http.StatusBadRequest)
		return
	}

	// 网关只认.mp3，其他扩展名视同不存在
	if strings.ToLower(filepath.Ext(fileName)) != ".mp3" {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	info, err := h.media.Stat(r.Context(), fileName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		logger.Error("[Stream] 查询媒体文件失败",
			logger.String("file", fileName),
			logger.ErrorField(err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	obj, err := h.media.Open(r.Context(), fileName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		logger.Error("[Stream] 打开媒体文件失败",
			logger.String("file", fileName),
			logger.ErrorField(err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName))
	w.Header().Set("Cache-Control", "no-store")

	logger.Debug("[Stream] 开始传输媒体文件",
		logger.String("file", fileName),
		logger.Int64("size", info.Size),
		logger.String("range", r.Header.Get("Range")),
	)

	// ServeContent负责Range请求、Content-Length和Accept-Ranges
	http.ServeContent(w, r, fileName, info.ModTime, obj)
}

// authorizeStream 检查请求是否携带有效的访问凭证
func (h *APIHandler) authorizeStream(r *http.Request) bool {
	// 凭证一：服务端会话Cookie。校验本身就是一次活动，窗口随之滑动。
	if cookie, err := r.Cookie(h.cfg.SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.sessions.Verify(r.Context(), cookie.Value); err == nil {
			return true
		} else if !errors.Is(err, session.ErrNoSession) {
			logger.Error("[Stream] 会话校验异常", logger.ErrorField(err))
		}
	}

	// 凭证二：临时令牌白名单
	token := r.URL.Query().Get("token")
	if token != "" {
		for _, allowed := range h.cfg.StreamTempTokens {
			if allowed != "" && token == allowed {
				return true
			}
		}
	}

	return false
}
