package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"PosFM/cache"
	"PosFM/catalog"
	"PosFM/config"
	"PosFM/core/auth"
	"PosFM/logger"
	"PosFM/repository"
	"PosFM/session"
	"PosFM/storage"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	trackRepo     repository.TrackRepository
	userRepo      repository.UserRepository
	catalog       catalog.Catalog
	sessions      session.Store
	media         storage.MediaStore
	playlistCache *cache.PlaylistCache
	cfg           *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	trackRepo repository.TrackRepository,
	userRepo repository.UserRepository,
	cat catalog.Catalog,
	sessions session.Store,
	media storage.MediaStore,
	playlistCache *cache.PlaylistCache,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		trackRepo:     trackRepo,
		userRepo:      userRepo,
		catalog:       cat,
		sessions:      sessions,
		media:         media,
		playlistCache: playlistCache,
		cfg:           cfg,
	}
}

// AuthMiddleware is a middleware function that checks for a valid JWT token
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get the Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		// Check if the header has the correct format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		// Parse and validate the token
		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		// Add user info to the request context
		ctx := context.WithValue(r.Context(), "userID", claims.UserID)
		ctx = context.WithValue(ctx, "username", claims.Username)

		// Call the next handler with the updated context
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value("userID").(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// GetUsernameFromContext extracts the username from the request context
func GetUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value("username").(string)
	if !ok {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}

// GetTracksHandler 返回完整曲目目录，按发行日期倒序。
// 目录是公开的，访问控制只落在媒体流上。
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET method is allowed", http.StatusMethodNotAllowed)
		return
	}

	tracks, err := h.catalog.ListTracks(r.Context())
	if err != nil {
		logger.Error("[Tracks] 查询曲目目录失败", logger.ErrorField(err))
		http.Error(w, "Failed to retrieve tracks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tracks)
}

// writeJSON 统一的JSON响应输出
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
