package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	UploadPath   string // Base path for profile picture uploads

	// JWTSecret signs session tokens. Loaded once at startup, required.
	JWTSecret string
	TokenTTL  time.Duration

	// Payment gateway credentials.
	GatewayKeyID     string
	GatewayKeySecret string
	GatewayBaseURL   string

	// Optional Redis address for the token denylist. Empty means in-process.
	RedisAddr string

	// Cron expression for the cart total reconciler.
	CartReconcileCron string

	AllowedOrigin string
	LogLevel      string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ttlStr := getEnv("TOKEN_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:        port,
		DatabasePath:      getEnv("DATABASE_PATH", "./cursus.db"),
		UploadPath:        getEnv("UPLOAD_PATH", "./uploads"),
		JWTSecret:         secret,
		TokenTTL:          ttl,
		GatewayKeyID:      getEnv("GATEWAY_KEY_ID", ""),
		GatewayKeySecret:  getEnv("GATEWAY_KEY_SECRET", ""),
		GatewayBaseURL:    getEnv("GATEWAY_BASE_URL", "https://api.razorpay.com/v1"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		CartReconcileCron: getEnv("CART_RECONCILE_CRON", "*/5 * * * *"),
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
