package company_test

import (
	"bytes"
	"encoding/json"
	"go-timeclock/internal/company"
	companyerrors "go-timeclock/internal/company/errors"
	companyMock "go-timeclock/internal/company/mock"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_GetMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := companyMock.NewMockService(ctrl)
	handler := company.NewHandler(mockService)

	t.Run("Success", func(t *testing.T) {
		compID := "comp-123"
		mockService.EXPECT().GetByID(gomock.Any(), compID).Return(&company.CompanyResponse{ID: compID, Name: "Test Company"}, nil)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.Use(func(c *gin.Context) {
			c.Set("company_id", compID)
			c.Next()
		})

		r.GET("/me", handler.GetMe)
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var res map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, true, res["ok"])
	})

	t.Run("No Company In Context", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.GET("/me", handler.GetMe)
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := companyMock.NewMockService(ctrl)
	handler := company.NewHandler(mockService)

	t.Run("Created", func(t *testing.T) {
		mockService.EXPECT().
			Create(gomock.Any(), company.CreateCompanyRequest{Name: "Acme", AdminPassword: "password1"}).
			Return(&company.CompanyResponse{ID: "c-1", Name: "Acme"}, nil)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/companies", handler.Create)

		body, _ := json.Marshal(map[string]string{"name": "Acme", "admin_password": "password1"})
		req, _ := http.NewRequest(http.MethodPost, "/companies", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Short Password", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/companies", handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/companies", bytes.NewBufferString(`{"name":"Acme","admin_password":"short"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, companyerrors.ErrCompanyAlreadyExists)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/companies", handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/companies", bytes.NewBufferString(`{"name":"Acme","admin_password":"password1"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
