// Package api assembles the gin engine and routes.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/config"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/handlers"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
)

const corsMaxAge = 12 * time.Hour

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Schedule *handlers.ScheduleHandler
	Records  *handlers.RecordsHandler
	Config   *config.Config
	Logger   logger.Logger
}

func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()

	// CORS middleware - must be first
	router.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.Server.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"Authorization", "Cache-Control", "X-Requested-With", "X-API-Key",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))

	router.Use(ginLogger(deps.Logger))
	router.Use(gin.Recovery())

	// Health check, outside the auth group
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1, API-key protected
	v1 := router.Group("/api/v1")
	v1.Use(handlers.APIKeyAuth(deps.Config.Auth.APIKey, deps.Logger))

	// Schedule endpoints
	v1.POST("/schedule-task", deps.Schedule.Create)
	v1.GET("/scheduled-tasks", deps.Schedule.List)
	v1.DELETE("/scheduled-tasks/:name", deps.Schedule.Delete)

	// Mirror read endpoints
	v1.GET("/contacts", deps.Records.ListContacts)
	v1.GET("/contacts/:id", deps.Records.GetContact)
	v1.GET("/invoices", deps.Records.ListInvoices)
	v1.GET("/invoices/:id", deps.Records.GetInvoice)

	return router
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}
