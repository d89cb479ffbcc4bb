package employee

import (
	"context"
	"database/sql"
	"go-timeclock/internal/shared/dbtx"
	"go-timeclock/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	CreateBatch(ctx context.Context, rows []Employee) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	FindByName(ctx context.Context, companyID, name string) (*Employee, error)
	ExistingNameKeys(ctx context.Context, companyID string, keys []string) ([]string, error)
	CompanyName(ctx context.Context, companyID string) (string, error)
	DeleteSessions(ctx context.Context, companyID, employeeID string) (int64, error)
	Delete(ctx context.Context, companyID, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

// CreateBatch inserts every row in a single statement.
func (r *repository) CreateBatch(ctx context.Context, rows []Employee) error {
	if len(rows) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&rows).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var emps []Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&emps).Error
	return emps, err
}

func (r *repository) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var emps []Employee
	err := r.conn(ctx).
		Select("id", "name").
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&emps).Error
	return emps, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var emp Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	return &emp, err
}

func (r *repository) FindByName(ctx context.Context, companyID, name string) (*Employee, error) {
	var emp Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "name_key = ?", NameKey(name)).Error
	return &emp, err
}

func (r *repository) ExistingNameKeys(ctx context.Context, companyID string, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var found []string
	err := r.conn(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("name_key IN ?", keys).
		Pluck("name_key", &found).Error
	return found, err
}

func (r *repository) CompanyName(ctx context.Context, companyID string) (string, error) {
	var name string
	err := r.conn(ctx).
		Table("companies").
		Select("name").
		Where("id = ?", companyID).
		Scan(&name).Error
	return name, err
}

func (r *repository) DeleteSessions(ctx context.Context, companyID, employeeID string) (int64, error) {
	res := r.conn(ctx).Exec(
		"DELETE FROM attendances WHERE company_id = ? AND employee_id = ?",
		companyID, employeeID,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) (int64, error) {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Employee{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
