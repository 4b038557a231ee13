package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	DatabaseURL string
	JWTExpiry   time.Duration
	Port        string
	SiteName    string
	SiteUrl     string

	LogLevel  string
	LogFormat string

	CORSOrigins []string

	// 推荐结果缓存
	RecommendationCacheSize int
	RecommendationCacheTTL  time.Duration

	// 登录/注册接口每个 IP 每分钟允许的请求数
	AuthRateLimit int

	// 定时清理间隔
	CleanupInterval time.Duration
}

// Load 加载配置
func Load() *Config {
	expiryHours := getEnvInt("JWT_EXPIRY_HOURS", 72)

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "reelcircle")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := getEnv("DATABASE_URL", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL))

	env := getEnv("APP_ENV", "development")
	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret))

	logFormat := "console"
	if env == "production" {
		logFormat = "json"
	}

	return &Config{
		Env:                     env,
		AppSecret:               appSecret,
		DatabaseURL:             dbURL,
		JWTExpiry:               time.Duration(expiryHours) * time.Hour,
		Port:                    getEnv("PORT", "5005"),
		SiteName:                getEnv("SITE_NAME", "ReelCircle"),
		SiteUrl:                 getEnv("SITE_URL", "http://localhost:5005"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", logFormat),
		CORSOrigins:             splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RecommendationCacheSize: getEnvInt("RECOMMEND_CACHE_SIZE", 1000),
		RecommendationCacheTTL:  time.Duration(getEnvInt("RECOMMEND_CACHE_TTL_MINUTES", 10)) * time.Minute,
		AuthRateLimit:           getEnvInt("AUTH_RATE_LIMIT", 20),
		CleanupInterval:         time.Duration(getEnvInt("CLEANUP_INTERVAL_HOURS", 24)) * time.Hour,
	}
}

// UsesDefaultSecret 生产环境是否仍在使用默认密钥
func (c *Config) UsesDefaultSecret() bool {
	return c.Env == "production" && c.AppSecret == defaultSecret
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	res := []string{}
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			res = append(res, v)
		}
	}
	return res
}
