package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"PosFM/logger"
)

// AdminVerifyHandler 校验管理面板的访问密钥。
// 服务端未配置密钥时面板整体不可用，而不是放行。
func (h *APIHandler) AdminVerifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.cfg.AdminKey == "" {
		logger.Warn("[Admin] 未配置管理密钥，拒绝访问")
		http.Error(w, "Admin access is not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "key is required"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(h.cfg.AdminKey)) != 1 {
		logger.Warn("[Admin] 管理密钥校验失败", logger.String("remote", r.RemoteAddr))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"status": "error", "message": "invalid key"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
