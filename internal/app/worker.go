package app

import (
	"context"
	"fmt"
	"go-timeclock/internal/config"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/messaging/kafka/producer"
	"go-timeclock/internal/shared/connection"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to Kafka until interrupted.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(postgresConfig(cfg), cfg.DB.Retries, logger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := kafka.EnsureOutboxTable(ctx, sqlDB); err != nil {
		return err
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DB.Retries, logger)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, log, cfg.OutboxPollInterval)

	log.Info("worker shutting down")
	return nil
}
