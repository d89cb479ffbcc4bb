package attendanceerrors

import (
	"go-timeclock/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidLocation = apperror.New(
		apperror.CodeInvalidInput,
		"Location must be one of: office, remote, hybrid",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidSessionID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid session ID",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance session not found",
		http.StatusNotFound,
	)
	ErrNoOpenSession = apperror.New(
		apperror.CodeNotFound,
		"No open attendance session",
		http.StatusNotFound,
	)
	ErrAlreadyOpen = apperror.New(
		apperror.CodeConflict,
		"Employee is already clocked in",
		http.StatusConflict,
	)
	ErrAlreadyClosed = apperror.New(
		apperror.CodeInvalidState,
		"Attendance session is already closed",
		http.StatusConflict,
	)
)
