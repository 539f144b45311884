package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// Auth
	JWTSecret           string
	JWTAccessTTLMinutes int // 0 disables expiry

	// Upstream image model
	GeminiAPIKey         string
	GeminiModel          string
	GeminiEndpoint       string
	GeminiTimeoutSeconds int

	// HTTP surface
	AllowedOrigins []string
	MaxBodyBytes   int64

	// Optional shared rate-limit backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Tracing
	OTLPEndpoint string
}

func Load() Config {
	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 0),

		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiEndpoint:       getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com"),
		GeminiTimeoutSeconds: getEnvInt("GEMINI_TIMEOUT_SECONDS", 60),

		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:5173")},

		// image payloads travel as base64 data-URIs, so request bodies get large
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_MB", 50)) << 20,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// Validate rejects configurations the server must not start with.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	if c.JWTAccessTTLMinutes < 0 {
		return errors.New("JWT_ACCESS_TTL_MINUTES must be >= 0")
	}

	if c.GeminiTimeoutSeconds <= 0 {
		return errors.New("GEMINI_TIMEOUT_SECONDS must be > 0")
	}

	return nil
}

// AccessTTL returns the configured token lifetime. Zero means tokens
// never expire.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func (c Config) GeminiTimeout() time.Duration {
	return time.Duration(c.GeminiTimeoutSeconds) * time.Second
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "designhub")
	pass := getEnv("DB_PASSWORD", "designhub")
	name := getEnv("DB_NAME", "designhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
