package auth

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.5, 10), handler.Login)
		auth.POST("/admin/login", middleware.RateLimitByIP(0.08, 5), handler.AdminLogin)
		auth.POST("/register", middleware.RateLimitByIP(0.1, 3), handler.Register)
		auth.POST("/logout", handler.Logout)

		auth.GET("/me",
			middleware.AuthMiddleware(jwtSecret),
			middleware.RateLimitByUser(2, 5),
			handler.Me,
		)
	}
}
