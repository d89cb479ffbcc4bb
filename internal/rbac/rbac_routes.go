package rbac

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.GET("/permissions", handler.Permissions)
		group.POST("/enforce", handler.Enforce)
	}
}
