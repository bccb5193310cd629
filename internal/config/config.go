package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string
	Port            string
	GinMode         string
	LogLevel        string
	DatabasePath    string
	APIKey          string
	APIKeyHash      string
	IPSalt          string
	GeoIPDBPath     string
	IngestWorkers   int
	IngestQueueSize int
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 会先尝试加载工作目录下的 .env 文件，不存在时静默跳过。
func Load() AppConfig {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "pixelpulse.db"
	}

	// 盐值决定访客令牌：未配置时生成临时盐，仅保证进程内一致。
	// 生产环境必须固定配置，否则重启后独立访客统计会断裂。
	ipSalt := strings.TrimSpace(os.Getenv("IP_SALT"))
	if ipSalt == "" {
		ipSalt = uuid.NewString()
	}

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		GinMode:         ginMode,
		LogLevel:        logLevel,
		DatabasePath:    databasePath,
		APIKey:          strings.TrimSpace(os.Getenv("API_KEY")),
		APIKeyHash:      strings.TrimSpace(os.Getenv("API_KEY_HASH")),
		IPSalt:          ipSalt,
		GeoIPDBPath:     strings.TrimSpace(os.Getenv("GEOIP_DB_PATH")),
		IngestWorkers:   envInt("INGEST_WORKERS", 0),
		IngestQueueSize: envInt("INGEST_QUEUE_SIZE", 0),
	}
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
