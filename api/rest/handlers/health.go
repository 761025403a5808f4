package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/customeros/sleeper/services/task"
)

// StatusSource is anything that can report a task snapshot.
type StatusSource interface {
	Status() task.Status
}

// HealthCheck provides a simple health check endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Status returns the current state of the polling task
func Status(source StatusSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, source.Status())
	}
}
