// Package web serves the collection over HTTP: a JSON API and a server-side
// rendered page, both driven by the same per-session state as the bot.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/onboarding"
	"github.com/aliskhannn/prophets-duas-bot/internal/service"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

const shutdownTimeout = 5 * time.Second

// CatalogService exposes the loaded catalog and its lifecycle.
type CatalogService interface {
	Catalog() *catalog.Catalog
	State() service.LoadState
	Err() error
	Load(ctx context.Context) error
}

// Config holds server settings.
type Config struct {
	Addr           string
	PublicURL      string   // base of share links
	AllowedOrigins []string      // empty allows any origin
	Production     bool
	TourDelay      time.Duration // pause before the first-run tour opens
}

// Server is the HTTP surface.
type Server struct {
	cfg      Config
	catalogs CatalogService
	sessions *session.Manager
	logger   *zap.Logger
	engine   *gin.Engine
}

// NewServer builds the gin engine and registers every route.
func NewServer(cfg Config, catalogs CatalogService, sessions *session.Manager, logger *zap.Logger) (*Server, error) {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.TourDelay <= 0 {
		cfg.TourDelay = onboarding.DefaultAutoOpenDelay
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		catalogs: catalogs,
		sessions: sessions,
		logger:   logger,
		engine:   gin.New(),
	}

	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(gin.Recovery(), requestLogger(logger))
	s.engine.Use(cors.New(s.corsConfig()))
	s.registerRoutes()

	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = s.cfg.AllowedOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.healthz)

	withSession := s.engine.Group("/", s.sessionMiddleware())
	withSession.GET("/", s.page)

	api := withSession.Group("/api")
	api.GET("/duas", resolveSessionEndpoint(s.listDuas))
	api.GET("/duas/:id", resolveSessionEndpoint(s.getDua))
	api.GET("/prophets", resolveEndpoint(s.listProphets))
	api.GET("/topics", resolveEndpoint(s.listTopics))
	api.GET("/sources", resolveEndpoint(s.listSources))
	api.GET("/route", resolveEndpoint(s.parseRoute))
	api.GET("/preferences", resolveSessionEndpoint(s.getPreferences))
	api.PATCH("/preferences", resolveSessionEndpoint(s.patchPreferences))
	api.POST("/favorites/:id", resolveSessionEndpoint(s.toggleFavorite))
	api.GET("/onboarding", resolveSessionEndpoint(s.getOnboarding))
	api.POST("/onboarding/seen", resolveSessionEndpoint(s.markOnboardingSeen))
	api.GET("/tour", resolveSessionEndpoint(s.getTour))
	api.POST("/tour/:control", resolveSessionEndpoint(s.controlTour))
	api.POST("/reload", resolveEndpoint(s.reload))
}
