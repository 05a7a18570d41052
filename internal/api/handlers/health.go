package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness and the number of live challenges and sessions.
func HealthCheck(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		pending, active := d.Service.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":             "ok",
			"time":               time.Now().UTC().Format(time.RFC3339),
			"pending_challenges": pending,
			"active_sessions":    active,
		})
	}
}
