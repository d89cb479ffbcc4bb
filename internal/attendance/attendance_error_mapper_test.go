package attendance

import (
	"errors"
	"fmt"
	"testing"

	attendanceerrors "go-timeclock/internal/attendance/errors"
	"go-timeclock/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapRepositoryError(t *testing.T) {
	assert.Nil(t, mapRepositoryError(nil))
	assert.ErrorIs(t, mapRepositoryError(gorm.ErrRecordNotFound), attendanceerrors.ErrSessionNotFound)

	openConflict := &pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_open_session"}
	assert.ErrorIs(t, mapRepositoryError(fmt.Errorf("insert: %w", openConflict)), attendanceerrors.ErrAlreadyOpen)

	assert.ErrorIs(t, mapRepositoryError(&pgconn.PgError{Code: "23503"}), attendanceerrors.ErrEmployeeNotFound)

	msgOnly := errors.New(`ERROR: duplicate key value violates unique constraint "uq_attendance_open_session"`)
	assert.ErrorIs(t, mapRepositoryError(msgOnly), attendanceerrors.ErrAlreadyOpen)

	otherUnique := &pgconn.PgError{Code: "23505", ConstraintName: "attendances_pkey"}
	assert.ErrorIs(t, mapRepositoryError(otherUnique), apperror.ErrPersistence)

	assert.ErrorIs(t, mapRepositoryError(errors.New("connection reset")), apperror.ErrPersistence)
}
