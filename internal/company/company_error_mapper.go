package company

import (
	"errors"
	companyerrors "go-timeclock/internal/company/errors"
	"go-timeclock/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return companyerrors.ErrCompanyNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_company_name" {
		return companyerrors.ErrCompanyAlreadyExists
	}
	return apperror.Persistence(err)
}
