package bootstrap

import (
	"context"
	"fmt"
	"go-timeclock/internal/attendance"
	"go-timeclock/internal/audit"
	"go-timeclock/internal/company"
	"go-timeclock/internal/employee"
	"go-timeclock/internal/messaging/kafka"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns. Order matters:
// sessions reference employees.
func Migrate(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&company.Company{},
		&employee.Employee{},
		&attendance.Session{},
		&audit.Event{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := kafka.EnsureOutboxTable(ctx, sqlDB); err != nil {
		return fmt.Errorf("ensure outbox table: %w", err)
	}

	logger.Named("bootstrap.migrate").Info("schema up to date")
	return nil
}
