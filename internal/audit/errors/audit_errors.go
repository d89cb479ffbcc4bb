package auditerrors

import (
	"go-timeclock/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"Start date must not be after end date",
		http.StatusBadRequest,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"Action must be one of: clock_in, clock_out, employee_registered, employee_added, employee_login, admin_login",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
)
