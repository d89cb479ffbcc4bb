package app

import (
	"context"
	"fmt"
	"go-timeclock/internal/config"
	"go-timeclock/internal/events"
	"go-timeclock/internal/messaging/kafka/consumer"
	"go-timeclock/internal/notification"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer sends welcome mails for roster additions until interrupted.
func RunConsumer(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	mailer := notification.NewMailer(notification.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		User:     cfg.Mail.User,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.EmployeeLifecycleTopic,
		GroupID:        cfg.KafkaGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer.ConsumeEmployeeLifecycle(ctx, reader, mailer, log)

	log.Info("consumer shutting down")
	return nil
}
