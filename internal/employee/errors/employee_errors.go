package employeeerrors

import (
	"go-timeclock/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeConflict,
		"Employee name already exists. Please use a unique name.",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"Email must look like name@domain.tld",
		http.StatusBadRequest,
	)
	ErrNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Name is required",
		http.StatusBadRequest,
	)
	ErrEmptyImport = apperror.New(
		apperror.CodeInvalidInput,
		"Import file is empty",
		http.StatusBadRequest,
	)
	ErrImportSchema = apperror.New(
		apperror.CodeInvalidInput,
		"Import file must have an 'Agent Name' column",
		http.StatusBadRequest,
	)
	ErrImportFileMissing = apperror.New(
		apperror.CodeInvalidInput,
		"Import file is missing",
		http.StatusBadRequest,
	)
)
