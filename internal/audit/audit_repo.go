package audit

import (
	"context"
	"go-timeclock/internal/tenant"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, e *Event) error
	QueryByDateRange(ctx context.Context, companyID string, start, end time.Time, actions []Action) ([]Event, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// QueryByDateRange is inclusive on both ends, newest first.
func (r *repository) QueryByDateRange(ctx context.Context, companyID string, start, end time.Time, actions []Action) ([]Event, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("created_at >= ? AND created_at <= ?", start, end)
	if len(actions) > 0 {
		q = q.Where("action IN ?", actions)
	}

	var rows []Event
	err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}
