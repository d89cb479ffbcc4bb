package reporterrors

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
	ErrInvalidFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Format must be csv or xlsx",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
)
