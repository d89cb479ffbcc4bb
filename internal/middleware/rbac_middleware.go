package middleware

import (
	autherrors "go-timeclock/internal/auth/errors"
	"go-timeclock/internal/domain"
	"go-timeclock/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by anything that can answer an enforce request.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		companyID := c.GetString("company_id")
		if role == "" || companyID == "" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Subject:   c.GetString("user_id"),
			CompanyID: companyID,
			Role:      role,
			Resource:  resource,
			Action:    action,
		})
		if err != nil {
			zap.L().Named("middleware.rbac").Error("enforce failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			abortWith(c, apperror.ErrInternal)
			return
		}
		if !allowed {
			abortWith(c, apperror.WithDetails(autherrors.ErrForbidden, gin.H{"required": resource + ":" + action}))
			return
		}
		c.Next()
	}
}
