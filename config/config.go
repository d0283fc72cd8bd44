package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	// 媒体文件配置
	MediaDir     string // 本地媒体根目录（仅存放 .mp3 文件）
	MediaBackend string // "local" 或 "minio"

	// 流媒体访问配置
	StreamTempTokens []string // 无 Cookie 环境下的临时访问令牌白名单

	// 会话配置
	SessionBackend    string // "memory" 或 "redis"
	SessionCookieName string
	SessionTTL        time.Duration // 滑动不活动窗口，默认15分钟

	// 认证配置
	JWTSecret string
	AdminKey  string // 管理面板访问密钥

	// 数据库配置
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis配置
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MinIO配置
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	// 日志配置
	LogLevel      string
	LogOutputPath string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// Attempt to load .env file. godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	// 临时令牌白名单，逗号分隔。默认值与原部署保持一致。
	tokens := strings.Split(getEnv("STREAM_TEMP_TOKENS", "temp_2025_secure_token_1,temp_2025_secure_token_2"), ",")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	return &Config{
		MediaDir:     getEnv("MEDIA_DIR", "musicas"),
		MediaBackend: getEnv("MEDIA_BACKEND", "local"),

		StreamTempTokens: tokens,

		SessionBackend:    getEnv("SESSION_BACKEND", "redis"),
		SessionCookieName: getEnv("SESSION_COOKIE", "posfm_session"),
		SessionTTL:        time.Duration(getEnvInt("SESSION_TTL_MINUTES", 15)) * time.Minute,

		JWTSecret: getEnv("JWT_SECRET", "posfm-dev-secret"),
		AdminKey:  os.Getenv("ADMIN_KEY"), // 管理密钥无默认值

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // For password, better not to have a hardcoded default
		DBName:     getEnv("DB_NAME", "posfm"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "posfm"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		LogLevel:      getEnv("LOG_LEVEL", "debug"),
		LogOutputPath: getEnv("LOG_OUTPUT", ""),
	}
}
