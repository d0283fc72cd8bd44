package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"PosFM/logger"
)

// sessionCreateRequest 建立会话的请求体，uid也可以走表单字段
type sessionCreateRequest struct {
	UID string `json:"uid"`
}

// CreateSessionHandler 为已认证的主体建立流媒体访问会话。
// 成功后客户端拿到HttpOnly的会话Cookie，15分钟无活动自动过期。
func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	uid := h.extractUID(r)
	if uid == "" {
		logger.Warn("[Session] 建立会话缺少uid", logger.String("remote", r.RemoteAddr))
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "uid is required"})
		return
	}

	sid := uuid.New().String()
	if err := h.sessions.Create(r.Context(), sid, uid); err != nil {
		logger.Error("[Session] 建立会话失败", logger.String("uid", uid), logger.ErrorField(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "failed to create session"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
	})

	logger.Info("[Session] 会话已建立", logger.String("uid", uid))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// DestroySessionHandler 销毁当前会话。销毁是幂等的：
// 无论Cookie是否存在、会话是否早已过期，响应都是成功。
func (h *APIHandler) DestroySessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(h.cfg.SessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessions.Verify(r.Context(), cookie.Value); err == nil {
			// 会话结束，同时清掉该主体的播放列表缓存
			if h.playlistCache != nil {
				if err := h.playlistCache.Delete(r.Context(), sess.PrincipalID); err != nil {
					logger.Error("[Session] 清理播放列表缓存失败",
						logger.String("uid", sess.PrincipalID),
						logger.ErrorField(err),
					)
				}
			}
			logger.Info("[Session] 会话已销毁", logger.String("uid", sess.PrincipalID))
		}
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			logger.Error("[Session] 销毁会话失败", logger.ErrorField(err))
		}
	}

	// 让客户端丢弃Cookie
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// extractUID 先读JSON体，再回落到表单字段
func (h *APIHandler) extractUID(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var req sessionCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			return strings.TrimSpace(req.UID)
		}
		return ""
	}

	if err := r.ParseForm(); err != nil {
		return ""
	}
	return strings.TrimSpace(r.FormValue("uid"))
}
