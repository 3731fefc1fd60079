package app

import (
	"context"

	"go-employee/internal/config"
	"go-employee/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the relational service's infrastructure and returns its
// router plus a cleanup closing every connection. Redis is optional; without
// REDIS_ADDR the list cache and idempotent create are off.
func BuildApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	dsn := connection.PostgresDSN(
		cfg.Postgres.Host,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Name,
		cfg.Postgres.Port,
		cfg.Postgres.SSLMode,
	)
	gormDB, err := connection.ConnectGORMWithRetry(dsn, cfg.ConnectRetries)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database connection established")

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.DB, cfg.ConnectRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		logger.Info("redis connection established")
	} else {
		logger.Warn("REDIS_ADDR not set, list cache and idempotency disabled")
	}

	router := NewRouter(cfg, logger, RouterOptions{
		Store: "postgres",
		Ping:  sqlDB.PingContext,
		Register: func(api *gin.RouterGroup) {
			registerEmployeeModule(api, sqlDB, gormDB, rdb, logger)
		},
	})

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = sqlDB.Close()
	}
	return router, cleanup, nil
}

// BuildDocApp connects the document service to redis, which it needs.
func BuildDocApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.DB, cfg.ConnectRetries)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("redis connection established")

	router := NewRouter(cfg, logger, RouterOptions{
		Store: "redis",
		Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
		Register: func(api *gin.RouterGroup) {
			registerEmployeeDocModule(api, rdb, logger)
		},
	})

	return router, func() { _ = rdb.Close() }, nil
}
