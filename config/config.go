package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 从环境变量读取
type Config struct {
	Port string

	DBDriver   string // postgres | sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	SQLitePath string

	RedisAddr string // empty disables redis
	RedisPwd  string

	WebOrigins []string

	SweepEnabled  bool
	SweepInterval time.Duration

	LogLevel  slog.Level
	LogFormat string // text | json

	SeedFile string
}

// LoadEnv pulls a .env file into the process environment if one exists.
func LoadEnv() {
	_ = godotenv.Load()
}

func Load() Config {
	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}

	interval := 60 * time.Second
	if d, err := time.ParseDuration(get("OVERDUE_SWEEP_INTERVAL", "60s")); err == nil && d > 0 {
		interval = d
	}
	sweep := true
	if b, err := strconv.ParseBool(get("OVERDUE_SWEEP_ENABLED", "true")); err == nil {
		sweep = b
	}

	var origins []string
	for _, o := range strings.Split(get("WEB_ORIGINS", "http://localhost:5173"), ",") {
		if s := strings.TrimSpace(o); s != "" {
			origins = append(origins, s)
		}
	}

	return Config{
		Port:          get("PORT", "3001"),
		DBDriver:      strings.ToLower(get("DB_DRIVER", "postgres")),
		DBHost:        get("DB_HOST", "127.0.0.1"),
		DBUser:        get("DB_USER", "postgres"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        get("DB_NAME", "it_inventory"),
		DBPort:        get("DB_PORT", "5432"),
		DBSSLMode:     get("DB_SSLMODE", "disable"),
		SQLitePath:    get("SQLITE_PATH", "it_inventory.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPwd:      os.Getenv("REDIS_PASSWORD"),
		WebOrigins:    origins,
		SweepEnabled:  sweep,
		SweepInterval: interval,
		LogLevel:      parseLevel(get("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(get("LOG_FORMAT", "text")),
		SeedFile:      os.Getenv("SEED_FILE"),
	}
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from LOG_LEVEL / LOG_FORMAT.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
