package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealwise/internal/service"
)

// Version is reported by the health endpoint; overridden at build time.
var Version = "dev"

// HealthCheck returns the health status of the API
func HealthCheck(analyzer service.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ai := "configured"
		if analyzer == nil || !analyzer.Configured() {
			ai = "not_configured"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"ai":      ai,
			"version": Version,
		})
	}
}
