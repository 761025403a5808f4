package api

import (
	"github.com/gin-gonic/gin"

	"github.com/customeros/sleeper/api/middleware"
	"github.com/customeros/sleeper/api/rest/handlers"
)

// RegisterRoutes sets up the read-only status endpoints
func RegisterRoutes(r *gin.Engine, source handlers.StatusSource) {
	if source == nil {
		panic("status source cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(middleware.TracingMiddleware())

	r.GET("/health", handlers.HealthCheck)
	r.GET("/status", handlers.Status(source))
}
