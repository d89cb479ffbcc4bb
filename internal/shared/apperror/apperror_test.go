package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		err := New(CodeConflict, "duplicate", http.StatusConflict)
		got := ToHTTP(fmt.Errorf("outer: %w", err))

		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, CodeConflict, got.Code)
		assert.Equal(t, "duplicate", got.Message)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		got := ToHTTP(errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, CodeInternalError, got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})

	t.Run("details are forwarded", func(t *testing.T) {
		err := WithDetails(ErrInvalidInput, map[string]string{"field": "location"})
		got := ToHTTP(err)

		assert.Equal(t, map[string]string{"field": "location"}, got.Details)
	})
}

func TestAppError_IsMatchesWrappedSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := Persistence(cause)

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMapValidationError(t *testing.T) {
	type payload struct {
		EmployeeName string `json:"employee_name" validate:"required"`
		Location     string `json:"location" validate:"oneof=office remote hybrid"`
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(payload{Location: "office"})
	mapped := MapValidationError(err)
	assert.Equal(t, "Employee Name is required", mapped.Error())

	err = v.Struct(payload{EmployeeName: "A", Location: "moon"})
	mapped = MapValidationError(err)
	assert.Equal(t, "Location must be one of: office, remote, hybrid", mapped.Error())

	mapped = MapValidationError(errors.New("not a validation error"))
	assert.Equal(t, "Invalid input", mapped.Error())
}

func TestFormatFieldName(t *testing.T) {
	assert.Equal(t, "Employee Name", formatFieldName("employee_name"))
}
