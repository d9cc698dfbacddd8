package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CK3thou/youtube-transcripts/internal/metrics"
)

// RegisterHealthRoutes registers liveness and metrics endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, metrics.Format())
	})
}
