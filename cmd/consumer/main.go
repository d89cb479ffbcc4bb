package main

import (
	"go-timeclock/internal/app"
	"go-timeclock/internal/config"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.MustNew(cfg.IsProduction())
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunConsumer(cfg, logger); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
