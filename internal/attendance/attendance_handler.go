package attendance

import (
	"errors"
	"go-timeclock/internal/geo"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shared/response"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service    Service
	resolver   geo.Resolver
	geoTimeout time.Duration
	logger     *zap.Logger
}

func NewHandler(service Service, resolver geo.Resolver, geoTimeout time.Duration, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, resolver: resolver, geoTimeout: geoTimeout, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) origin(c *gin.Context) *geo.Origin {
	ctx := c.Request.Context()
	return geo.Lookup(ctx, h.resolver, c.ClientIP(), h.geoTimeout, contextutil.GetLogger(ctx, h.logger))
}

// GetOpen returns the caller's open session, or null data when none.
func (h *Handler) GetOpen(c *gin.Context) {
	resp, err := h.service.GetOpenSession(c.Request.Context(), c.GetString("company_id"), c.GetString("employee_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ClockIn(c *gin.Context) {
	var req ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ClockIn(
		c.Request.Context(),
		c.GetString("company_id"),
		c.GetString("employee_id"),
		req,
		h.origin(c),
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// ClockOut closes the given session, or the caller's open one when the body
// names none.
func (h *Handler) ClockOut(c *gin.Context) {
	var req ClockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ClockOut(
		c.Request.Context(),
		c.GetString("company_id"),
		c.GetString("employee_id"),
		req,
		h.origin(c),
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
