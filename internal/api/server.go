package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avsingh/catalogarr/internal/api/handlers"
	"github.com/avsingh/catalogarr/internal/api/middleware"
	"github.com/avsingh/catalogarr/internal/config"
	"github.com/avsingh/catalogarr/internal/ingest"
	"github.com/avsingh/catalogarr/internal/models"
	"github.com/avsingh/catalogarr/internal/services/auth"
	"github.com/avsingh/catalogarr/internal/services/catalog"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	db *models.Database,
	authSvc *auth.Service,
	catalogSvc *catalog.Service,
	runner *ingest.Runner,
	tokens *auth.TokenManager,
	logger *logrus.Logger,
) *Server {
	s := &Server{logger: logger}

	mux := http.NewServeMux()
	s.setupRoutes(mux, cfg, db, authSvc, catalogSvc, runner, tokens)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(
	mux *http.ServeMux,
	cfg *config.Config,
	db *models.Database,
	authSvc *auth.Service,
	catalogSvc *catalog.Service,
	runner *ingest.Runner,
	tokens *auth.TokenManager,
) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	authHandler := handlers.NewAuthHandler(authSvc, s.logger)
	mux.HandleFunc("/auth/signup", authHandler.Signup)
	mux.HandleFunc("/auth/login", authHandler.Login)

	movieHandler := handlers.NewMovieHandler(catalogSvc, s.logger)
	mux.HandleFunc("/movies/", middleware.Auth(tokens, s.logger, movieHandler.Handle))

	uploadHandler := handlers.NewUploadHandler(db, runner, cfg.UploadDir, s.logger)
	mux.HandleFunc("/upload/upload_csv", middleware.Auth(tokens, s.logger, uploadHandler.Upload))
	mux.HandleFunc("/upload/upload_progress/", middleware.Auth(tokens, s.logger, uploadHandler.Progress))
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
