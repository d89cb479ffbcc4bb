package companyerrors

import (
	"go-timeclock/internal/shared/apperror"
	"net/http"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrCompanyAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Company with the same name already exists",
		http.StatusConflict,
	)

	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)

	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Missing required fields",
		http.StatusBadRequest,
	)
)
