package report

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, jwtSecret string) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware(jwtSecret))
	{
		reports.GET("/attendance", middleware.RBACAuthorize(rbacService, "report", "read"), h.AttendanceDay)
		reports.GET("/attendance/export",
			middleware.RBACAuthorize(rbacService, "report", "read"),
			middleware.RateLimitByUser(0.5, 5),
			h.ExportAttendance,
		)
	}

	r.GET("/audit-logs/export",
		middleware.AuthMiddleware(jwtSecret),
		middleware.RBACAuthorize(rbacService, "audit", "read"),
		middleware.RateLimitByUser(0.5, 5),
		h.ExportAudit,
	)
}
