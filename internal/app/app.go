package app

import (
	"context"
	"go-timeclock/internal/bootstrap"
	"go-timeclock/internal/config"
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func postgresConfig(cfg config.Config) connection.PostgresConfig {
	return connection.PostgresConfig{
		Host:     cfg.DB.Host,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Name:     cfg.DB.Name,
		Port:     cfg.DB.Port,
		SSLMode:  cfg.DB.SSLMode,
	}
}

// BuildApp connects the stores, migrates the schema and mounts every module
// on router. The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (func(), error) {
	gormDB, err := connection.ConnectGORMWithRetry(postgresConfig(cfg), cfg.DB.Retries, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DB.Retries, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	cleanup := func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}

	if err := bootstrap.Migrate(context.Background(), gormDB, logger); err != nil {
		cleanup()
		return nil, err
	}

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		middleware.RequestTimeout(cfg.StoreTimeout),
	)

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb, logger); err != nil {
		cleanup()
		return nil, err
	}
	return cleanup, nil
}
