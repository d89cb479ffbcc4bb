package employee

import (
	"errors"
	"strings"

	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueNameConstraint = "uq_employee_name"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniqueNameConstraint {
			return employeeerrors.ErrDuplicateName
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueNameConstraint) {
		return employeeerrors.ErrDuplicateName
	}

	return apperror.Persistence(err)
}
