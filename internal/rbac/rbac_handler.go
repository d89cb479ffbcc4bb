package rbac

import (
	"go-timeclock/internal/domain"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/response"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Permissions lists what the caller's role may do.
func (h *Handler) Permissions(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Permissions(c.GetString("role")), nil)
}

// Enforce answers whether the caller's role may perform resource:action.
func (h *Handler) Enforce(c *gin.Context) {
	var req domain.EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	req.Subject = c.GetString("user_id")
	req.CompanyID = c.GetString("company_id")
	req.Role = c.GetString("role")
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.Enforce(req)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{Allowed: allowed}, nil)
}
