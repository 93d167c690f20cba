// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitStore は問い合わせ送信数制限の保存先。
type RateLimitStore string

const (
	RateLimitStoreMemory RateLimitStore = "memory"
	RateLimitStoreRedis  RateLimitStore = "redis"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Token
	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// Contact Rate Limit
	RateLimitMessagesMax    int
	RateLimitMessagesWindow time.Duration
	RateLimitStore          RateLimitStore
	RedisURL                string

	// Public Rate Limit (requests/min per client IP)
	RateLimitPublic int

	// Retention (0で既読問い合わせの自動削除を無効化)
	ContactRetentionDays int

	// Server
	Port       string
	TrustProxy bool
	LogLevel   slog.Level

	// CORS / Redirect
	FrontendURLs []string

	// Cookie
	CookieSecure bool
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定、または値が不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	expiresIn, err := ParseExpiry(getEnvString("JWT_EXPIRES_IN", "7d"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	cfg.JWTExpiresIn = expiresIn

	store := RateLimitStore(strings.ToLower(getEnvString("RATE_LIMIT_STORE", string(RateLimitStoreMemory))))
	switch store {
	case RateLimitStoreMemory:
	case RateLimitStoreRedis:
		cfg.RedisURL = os.Getenv("REDIS_URL")
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when RATE_LIMIT_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("invalid RATE_LIMIT_STORE: %q", store)
	}
	cfg.RateLimitStore = store

	// Optional fields with defaults
	cfg.BcryptCost = getEnvInt("BCRYPT_COST", 12)
	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.GoogleCallbackURL = os.Getenv("GOOGLE_CALLBACK_URL")
	cfg.RateLimitMessagesMax = getEnvInt("RATE_LIMIT_MESSAGES_MAX", 3)
	cfg.RateLimitMessagesWindow = getEnvDuration("RATE_LIMIT_MESSAGES_WINDOW", time.Hour)
	cfg.RateLimitPublic = getEnvInt("RATE_LIMIT_PUBLIC", 60)
	cfg.ContactRetentionDays = getEnvInt("CONTACT_RETENTION_DAYS", 180)
	cfg.Port = getEnvString("PORT", "4000")
	cfg.TrustProxy = getEnvBool("TRUST_PROXY", false)
	cfg.LogLevel = getEnvLevel("LOG_LEVEL", slog.LevelInfo)
	cfg.FrontendURLs = splitList(getEnvString("FRONTEND_URL", "http://localhost:3000"))
	cfg.CookieSecure = strings.HasPrefix(cfg.GoogleCallbackURL, "https://")

	return cfg, nil
}

// GoogleEnabled はGoogleログインに必要な設定がすべて揃っているかを返す。
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleCallbackURL != ""
}

// FrontendURL はOAuth完了後のリダイレクト先となる先頭のフロントエンドURLを返す。
func (c *Config) FrontendURL() string {
	if len(c.FrontendURLs) == 0 {
		return ""
	}
	return c.FrontendURLs[0]
}

// ParseExpiry はトークン有効期間を解析する。
// Goのduration形式に加え、"7d" のような日数指定を受け付ける。
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", s)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := ParseExpiry(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return defaultVal
	}
	return level
}
