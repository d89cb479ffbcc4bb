package company

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	company := r.Group("/companies")

	// Rate: 1 req per 10s per IP, Burst: 3
	company.POST("",
		middleware.RateLimitByIP(0.1, 3),
		handler.Create,
	)

	me := company.Group("")
	me.Use(middleware.AuthMiddleware(jwtSecret))
	me.GET("/me",
		middleware.RateLimitByUser(2, 10),
		handler.GetMe,
	)
}
