package app

import (
	"context"
	"fmt"
	"lab_inventory/config"
	"lab_inventory/db"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client // nil when REDIS_ADDR is unset
	Config config.Config
	Logger *slog.Logger
}

// New opens the store (and Redis when configured) and builds the router
// with the shared middleware. Routes are registered by the caller.
func New(cfg config.Config, lg *slog.Logger) (*App, error) {
	if lg == nil {
		lg = slog.Default()
	}

	// --- DB ---
	dbConn, err := db.Open(cfg.DBDriver, cfg.DSN(), logger.Default.LogMode(logger.Warn))
	if err != nil {
		return nil, err
	}

	// --- Redis (optional) ---
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	return &App{
		Router: NewRouter(cfg, lg),
		DB:     dbConn,
		RDB:    rdb,
		Config: cfg,
		Logger: lg,
	}, nil
}

// NewRouter is a bare engine with recovery, request logging and CORS.
func NewRouter(cfg config.Config, lg *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(lg))
	useCORS(r, cfg.WebOrigins)
	return r
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
