package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"PosFM/cache"
	"PosFM/catalog"
	"PosFM/config"
	"PosFM/core/auth"
	"PosFM/db"
	"PosFM/logger"
	"PosFM/player"
	"PosFM/repository"
	"PosFM/session"
	"PosFM/storage"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutputPath,
	})
	auth.SetJWTSecret(cfg.JWTSecret)

	// 设置服务器超时
	server := &http.Server{
		Addr:         ":8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Connect to Redis
	if err := cache.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.CloseRedis()
	log.Println("Successfully connected to Redis")

	// 会话后端：redis是默认，memory给单机部署和测试用
	var sessions session.Store
	switch cfg.SessionBackend {
	case "memory":
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	default:
		sessions = session.NewRedisStore(cache.RedisClient, cfg.SessionTTL)
	}

	// 媒体后端：本地目录或MinIO对象存储
	var media storage.MediaStore
	if cfg.MediaBackend == "minio" {
		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to initialize MinIO: %v", err)
		}
		media = storage.NewMinioStore(storage.GetMinioClient(), cfg.MinioBucket)
	} else {
		ensureDirExists(cfg.MediaDir)
		media = storage.NewLocalStore(cfg.MediaDir)
	}

	trackRepo := repository.NewMySQLTrackRepository()
	userRepo := repository.NewMySQLUserRepository(db.DB)
	cat := catalog.NewCatalog(trackRepo)
	playlistCache := cache.NewPlaylistCache(cache.RedisClient)

	// 播放控制器和状态推送
	resolver := &player.GatewayResolver{BaseURL: "http://127.0.0.1:8080"}
	ctrl := player.NewController(resolver)
	hub := NewPlayerHub()
	ctrl.SetOnChange(hub.Broadcast)
	ctrl.SetOnError(func(err error) {
		logger.Error("[Player] 播放失败", logger.ErrorField(err))
	})

	// 初始化处理器
	apiHandler := NewAPIHandler(trackRepo, userRepo, cat, sessions, media, playlistCache, cfg)

	// 本地媒体目录变更时清理目录条目并通知播放器
	if cfg.MediaBackend != "minio" {
		watcher, err := catalog.NewWatcher(cfg.MediaDir, trackRepo, ctrl.RemoveFile)
		if err != nil {
			log.Fatalf("Failed to start media watcher: %v", err)
		}
		defer watcher.Close()
	}

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()

	// 添加 CORS 中间件
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// 媒体流网关
	router.HandleFunc("/stream", apiHandler.StreamHandler).Methods(http.MethodGet, http.MethodHead, http.MethodPost)

	// 会话端点
	router.HandleFunc("/session/create", apiHandler.CreateSessionHandler).Methods(http.MethodPost)
	router.HandleFunc("/session/destroy", apiHandler.DestroySessionHandler).Methods(http.MethodPost)

	// API Endpoints
	router.HandleFunc("/api/tracks", apiHandler.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlist", apiHandler.AuthMiddleware(apiHandler.PlaylistHandler)).Methods(http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodPut)

	// 用户认证相关的API端点
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)

	// 管理面板
	router.HandleFunc("/api/admin/verify", apiHandler.AdminVerifyHandler).Methods(http.MethodPost)

	// 播放状态推送
	router.HandleFunc("/ws/player", apiHandler.PlayerSocketHandler(hub, ctrl))

	server.Handler = router

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 在goroutine中启动服务器
	go func() {
		log.Println("Server starting on :8080...")
		log.Println("List tracks via GET from http://localhost:8080/api/tracks")
		log.Println("Stream tracks via GET from http://localhost:8080/stream?file={name}.mp3")
		log.Println("Create a session via POST to http://localhost:8080/session/create")
		log.Println("Manage playlist via /api/playlist endpoints")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待中断信号
	<-stop
	log.Println("Shutting down server...")

	// 创建一个5秒超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Creating directory: %s", path)
		if err := os.MkdirAll(path, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", path, err)
		}
	} else if err != nil {
		log.Fatalf("Failed to check directory %s: %v", path, err)
	}
}
