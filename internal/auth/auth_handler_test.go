package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-timeclock/internal/auth"
	autherrors "go-timeclock/internal/auth/errors"
	authMock "go-timeclock/internal/auth/mock"
	"go-timeclock/internal/domain"
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newAuthContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func newAuthHandler(t *testing.T) (*auth.Handler, *authMock.MockService) {
	ctrl := gomock.NewController(t)
	svc := authMock.NewMockService(ctrl)
	h := auth.NewHandler(svc, nil, time.Second, auth.CookieConfig{MaxAge: time.Hour}, zap.NewNop())
	return h, svc
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.AccessTokenCookie {
			return ck
		}
	}
	return nil
}

func TestHandler_Login(t *testing.T) {
	t.Run("Success Sets Cookie", func(t *testing.T) {
		h, svc := newAuthHandler(t)
		svc.EXPECT().
			EmployeeLogin(gomock.Any(), auth.EmployeeLoginRequest{Company: "Acme", Name: "Jane"}, gomock.Nil()).
			Return(auth.LoginResult{AccessToken: "tok", User: auth.AuthResponse{Name: "Jane", Role: domain.RoleEmployee}}, nil)

		c, w := newAuthContext(http.MethodPost, "/auth/login", `{"company":"Acme","name":"Jane"}`)
		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		ck := sessionCookie(w)
		if assert.NotNil(t, ck) {
			assert.Equal(t, "tok", ck.Value)
			assert.True(t, ck.HttpOnly)
			assert.Equal(t, 3600, ck.MaxAge)
		}
	})

	t.Run("Missing Name", func(t *testing.T) {
		h, _ := newAuthHandler(t)
		c, w := newAuthContext(http.MethodPost, "/auth/login", `{"company":"Acme"}`)
		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("Invalid Credentials", func(t *testing.T) {
		h, svc := newAuthHandler(t)
		svc.EXPECT().EmployeeLogin(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auth.LoginResult{}, autherrors.ErrInvalidCredentials)

		c, w := newAuthContext(http.MethodPost, "/auth/login", `{"company":"Acme","name":"Ghost"}`)
		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, sessionCookie(w))
	})
}

func TestHandler_AdminLogin(t *testing.T) {
	h, svc := newAuthHandler(t)
	svc.EXPECT().
		AdminLogin(gomock.Any(), auth.AdminLoginRequest{Company: "Acme", Password: "s3cretpass"}, gomock.Nil()).
		Return(auth.LoginResult{AccessToken: "admin-tok", User: auth.AuthResponse{Role: domain.RoleAdmin}}, nil)

	c, w := newAuthContext(http.MethodPost, "/auth/admin/login", `{"company":"Acme","password":"s3cretpass"}`)
	h.AdminLogin(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
}

func TestHandler_Register(t *testing.T) {
	h, svc := newAuthHandler(t)
	svc.EXPECT().
		Register(gomock.Any(), auth.RegisterRequest{Company: "Acme", Name: "Sam"}, gomock.Nil()).
		Return(auth.LoginResult{AccessToken: "tok"}, nil)

	c, w := newAuthContext(http.MethodPost, "/auth/register", `{"company":"Acme","name":"Sam"}`)
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandler_Me(t *testing.T) {
	h, svc := newAuthHandler(t)
	svc.EXPECT().
		Me(gomock.Any(), auth.Identity{Subject: "admin:c-1", CompanyID: "c-1", Role: domain.RoleAdmin, Name: "Acme admin"}).
		Return(auth.AuthResponse{CompanyID: "c-1", Role: domain.RoleAdmin}, nil)

	c, w := newAuthContext(http.MethodGet, "/auth/me", "")
	c.Set("user_id", "admin:c-1")
	c.Set("company_id", "c-1")
	c.Set("role", domain.RoleAdmin)
	c.Set("name", "Acme admin")
	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Logout(t *testing.T) {
	h, _ := newAuthHandler(t)
	c, w := newAuthContext(http.MethodPost, "/auth/logout", "")
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(w)
	if assert.NotNil(t, ck) {
		assert.Equal(t, "", ck.Value)
		assert.Equal(t, -1, ck.MaxAge)
	}
}
