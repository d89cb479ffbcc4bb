package auth

import (
	"go-timeclock/internal/geo"
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shared/response"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

type Handler struct {
	service    Service
	resolver   geo.Resolver
	geoTimeout time.Duration
	cookie     CookieConfig
	logger     *zap.Logger
}

func NewHandler(service Service, resolver geo.Resolver, geoTimeout time.Duration, cookie CookieConfig, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: service, resolver: resolver, geoTimeout: geoTimeout, cookie: cookie, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) origin(c *gin.Context) *geo.Origin {
	ctx := c.Request.Context()
	return geo.Lookup(ctx, h.resolver, c.ClientIP(), h.geoTimeout, contextutil.GetLogger(ctx, h.logger))
}

func (h *Handler) setSession(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req EmployeeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.EmployeeLogin(c.Request.Context(), req, h.origin(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.setSession(c, result.AccessToken)
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.AdminLogin(c.Request.Context(), req, h.origin(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.setSession(c, result.AccessToken)
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.Register(c.Request.Context(), req, h.origin(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.setSession(c, result.AccessToken)
	response.Success(c, http.StatusCreated, result, nil)
}

func (h *Handler) Me(c *gin.Context) {
	resp, err := h.service.Me(c.Request.Context(), Identity{
		Subject:    c.GetString("user_id"),
		CompanyID:  c.GetString("company_id"),
		EmployeeID: c.GetString("employee_id"),
		Role:       c.GetString("role"),
		Name:       c.GetString("name"),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	response.Success(c, http.StatusOK, "Logout success.", nil)
}
