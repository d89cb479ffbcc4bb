package attendance

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, rdb *redis.Client, jwtSecret string) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware(jwtSecret))
	{
		attendances.GET("/open", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetOpen)
		attendances.POST("/clock-in",
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			middleware.Idempotency(rdb),
			h.ClockIn,
		)
		attendances.POST("/clock-out",
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			middleware.Idempotency(rdb),
			h.ClockOut,
		)
	}
}
