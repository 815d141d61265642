package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/api"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/config"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/database"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/handlers"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/repository"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/schedule"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server with lifecycle management.
type Server struct {
	server *http.Server
	logger logger.Logger
}

// SetupHTTPServer wires the repositories and schedule store into the
// router and returns the managed server.
func SetupHTTPServer(cfg *config.Config, db *database.DB, store *schedule.Store, log logger.Logger) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	contactRepo := repository.NewContactRepository(db.DB(), log)
	invoiceRepo := repository.NewInvoiceRepository(db.DB(), log)

	router := api.NewRouter(api.Deps{
		Schedule: handlers.NewScheduleHandler(store, log),
		Records:  handlers.NewRecordsHandler(contactRepo, invoiceRepo, log),
		Config:   cfg,
		Logger:   log,
	})

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		logger: log,
	}
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", logger.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}
