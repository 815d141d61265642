// Package handlers contains the gin HTTP handlers for the schedule and
// mirror read APIs.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth guards the API group. Missing key is 401, wrong key is 403.
func APIKeyAuth(apiKey string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}
		if key != apiKey {
			log.Warn("Rejected request with invalid API key",
				logger.String("path", c.Request.URL.Path),
				logger.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}
