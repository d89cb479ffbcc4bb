package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-timeclock/internal/attendance/errors"
	"go-timeclock/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const openSessionConstraint = "uq_attendance_open_session"

// mapRepositoryError turns store failures into domain errors. Anything
// unrecognised is reported as a retryable persistence failure.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrSessionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == openSessionConstraint {
				return attendanceerrors.ErrAlreadyOpen
			}
		case "23503":
			return attendanceerrors.ErrEmployeeNotFound
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, openSessionConstraint) {
		return attendanceerrors.ErrAlreadyOpen
	}

	return apperror.Persistence(err)
}
