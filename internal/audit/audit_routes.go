package audit

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, jwtSecret string) {
	logs := r.Group("/audit-logs")
	logs.Use(middleware.AuthMiddleware(jwtSecret))
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "audit", "read"), h.List)
	}
}
