package attendance

import (
	"context"
	"database/sql"
	"go-timeclock/internal/shared/dbtx"
	"go-timeclock/internal/tenant"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindEmployee(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error)
	Create(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, companyID, id string) (*Session, error)
	FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*Session, error)
	Close(ctx context.Context, companyID, id string, clockOut time.Time, elapsedMinutes int64) (int64, error)
	FindAllByRange(ctx context.Context, companyID string, start, end time.Time) ([]Session, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) FindEmployee(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error) {
	var e EmployeeRef
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", employeeID).Error
	return &e, err
}

func (r *repository) Create(ctx context.Context, s *Session) error {
	return r.conn(ctx).Omit("Employee").Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*Session, error) {
	var s Session
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindOpenByEmployee(ctx context.Context, companyID, employeeID string) (*Session, error) {
	var s Session
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		Where("employee_id = ?", employeeID).
		Where("clock_out IS NULL").
		Order("clock_in DESC").
		First(&s).Error
	return &s, err
}

// Close sets the end of an open session. Zero rows affected means the
// session was already closed (or is gone).
func (r *repository) Close(ctx context.Context, companyID, id string, clockOut time.Time, elapsedMinutes int64) (int64, error) {
	res := r.conn(ctx).
		Model(&Session{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Where("clock_out IS NULL").
		Updates(map[string]any{
			"clock_out":       clockOut,
			"elapsed_minutes": elapsedMinutes,
			"updated_at":      clockOut,
		})
	return res.RowsAffected, res.Error
}

// FindAllByRange lists sessions that started inside [start, end], newest first.
func (r *repository) FindAllByRange(ctx context.Context, companyID string, start, end time.Time) ([]Session, error) {
	var rows []Session
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		Where("clock_in >= ? AND clock_in <= ?", start, end).
		Order("clock_in DESC").
		Find(&rows).Error
	return rows, err
}
