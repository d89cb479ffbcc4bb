package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-timeclock/internal/events"
	"go-timeclock/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeEmployeeLifecycle sends a welcome mail for every employee added
// with a contact email. A message is committed once handled or found
// unusable; a failed send leaves it uncommitted.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	mailer notification.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		if err := HandleEmployeeLifecycle(ctx, msg, mailer, log); err != nil {
			log.Error("handle employee lifecycle message failed",
				zap.String("request_id", header(msg, "request_id")),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
		}
	}
}

// HandleEmployeeLifecycle returns an error only when the message should be
// retried.
func HandleEmployeeLifecycle(ctx context.Context, msg kafkago.Message, mailer notification.Mailer, log *zap.Logger) error {
	var event events.EmployeeAddedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee lifecycle event failed", zap.Error(err))
		return nil
	}

	switch event.EventType {
	case events.EmployeeAdded, events.EmployeeRegistered:
	default:
		log.Debug("ignoring employee lifecycle event", zap.String("event_type", event.EventType))
		return nil
	}

	if event.Email == nil || *event.Email == "" {
		log.Debug("employee has no email, welcome mail skipped",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
		)
		return nil
	}

	err := mailer.SendWelcome(ctx, notification.WelcomeMail{
		To:          *event.Email,
		Name:        event.Name,
		CompanyName: event.CompanyName,
	})
	if errors.Is(err, notification.ErrNoRecipient) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("welcome mail for employee %s: %w", event.EmployeeID, err)
	}

	log.Info("welcome mail sent from employee lifecycle event",
		zap.String("request_id", event.RequestID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("company_id", event.CompanyID),
		zap.String("source", event.Source),
	)
	return nil
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
