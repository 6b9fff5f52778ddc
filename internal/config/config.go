package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"gwi.com/globallaunch-advisor/internal/logger"
)

type Config struct {
	GeminiAPIKey       string
	ExpertModel        string
	PersonaModel       string
	PersonaTemperature float32
	DatabaseURL        string
	DatabaseDriver     string // "sqlite3" (cgo) or "sqlite" (pure Go)
	SessionsKey        string
	HTTPPort           string
	LogLevel           string
	ProductName        string
	MaxUploadMB        int
}

var AppConfig Config

// LoadConfig populates AppConfig for the server and exits on invalid settings.
func LoadConfig() {
	if err := godotenv.Load(); err != nil { // Load .env file if it exists
		logger.Info("No .env file found, relying on environment variables")
	}

	cfg, err := Load()
	if err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}
	if cfg.GeminiAPIKey == "" {
		logger.Fatal("GEMINI_API_KEY environment variable is required")
	}
	AppConfig = cfg
}

// Load reads the configuration from the environment without touching AppConfig.
func Load() (Config, error) {
	cfg := Config{
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		ExpertModel:        getEnv("EXPERT_MODEL", "gemini-1.5-pro-latest"),
		PersonaModel:       getEnv("PERSONA_MODEL", "gemini-1.5-flash-latest"),
		PersonaTemperature: getEnvAsFloat32("PERSONA_TEMPERATURE", 1.2),
		DatabaseURL:        getEnv("DATABASE_URL", "globallaunch.db"),
		DatabaseDriver:     getEnv("DATABASE_DRIVER", "sqlite3"),
		SessionsKey:        getEnv("SESSIONS_KEY", "gl_sessions"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		ProductName:        getEnv("PRODUCT_NAME", "GlobalLaunch"),
		MaxUploadMB:        getEnvAsInt("MAX_UPLOAD_MB", 10),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite3 or sqlite, got %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL cannot be empty")
	}
	if c.SessionsKey == "" {
		return fmt.Errorf("SESSIONS_KEY cannot be empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be > 0")
	}
	return nil
}

// MaxUploadBytes is the per-file ceiling applied before encoding.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}
