// Package ui serves the production dashboard.
package ui

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agroprod/app"
	"agroprod/domain/production"
	"agroprod/internal/format"
	"agroprod/ui/middleware"
	"agroprod/ui/templates/fragments"
)

const defaultMaxUploadBytes = 50 << 20

// Server represents the dashboard HTTP server
type Server struct {
	router         *gin.Engine
	analysis       *app.AnalysisService
	templates      *template.Template
	embeddedFiles  fs.FS
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewServer creates a dashboard server. embeddedFiles is rooted at the module
// root and holds ui/templates and ui/static.
func NewServer(analysis *app.AnalysisService, embeddedFiles fs.FS, maxUploadBytes int64, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	s := &Server{
		router:         gin.New(),
		analysis:       analysis,
		embeddedFiles:  embeddedFiles,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("ui"),
	}
	if err := s.initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) initialize() error {
	funcMap := template.FuncMap{
		"num":    format.Number,
		"metric": format.Metric,
		"int":    format.Integer,
		"query":  url.QueryEscape,
		"add":    func(a, b int) int { return a + b },
		"formatTime": func(t time.Time) string {
			return t.Format("02/01/2006 15:04:05")
		},
		"formatDuration": func(d time.Duration) string {
			return d.Round(time.Millisecond).String()
		},
		"sortLabel": sortLabel,
	}

	templatesFS, err := fs.Sub(s.embeddedFiles, "ui/templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	s.templates = template.New("").Funcs(funcMap)
	for _, file := range fragments.GetAllTemplatePaths() {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := s.templates.New(file).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}
	s.logger.Debug("templates parsed", zap.Int("count", len(fragments.GetAllTemplatePaths())))

	if err := s.setupMiddleware(); err != nil {
		return err
	}
	s.setupRoutes()
	return nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.EnsureSession(s.logger))
	s.router.Use(middleware.RequestLogger(s.logger))

	staticFS, err := fs.Sub(s.embeddedFiles, "ui/static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/reset", s.handleReset)

	// HTMX fragment for the municipality picker
	s.router.GET("/municipality", s.handleMunicipality)

	s.router.GET("/charts/:kind", s.handleChart)
	s.router.GET("/export.xlsx", s.handleExport)
	s.router.GET("/report", s.handleReport)
	s.router.GET("/report.md", s.handleReportMarkdown)

	s.router.GET("/health", s.handleHealth)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("dashboard shutting down")
	return srv.Shutdown(shutdownCtx)
}

func sortLabel(by production.MunicipalitySort) string {
	switch by {
	case production.ByMeanArea:
		return "Área Média"
	case production.ByMeanYield:
		return "Rendimento Médio"
	case production.ByTotalValue:
		return "Valor Total"
	default:
		return "Produção Total"
	}
}
