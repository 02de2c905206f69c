// Package api exposes the analysis as a stateless JSON API: every request
// carries its own dataset and nothing is kept between requests.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"agroprod/adapters/charts"
	"agroprod/app"
	"agroprod/domain/core"
	"agroprod/internal/errors"
)

const uploadField = "dataset"

// Options configures the API server
type Options struct {
	MaxUploadBytes int64
	CORSOrigins    []string
}

// Server is the JSON API
type Server struct {
	router         *chi.Mux
	analysis       *app.AnalysisService
	maxUploadBytes int64
	corsOrigins    []string
	logger         *zap.Logger
}

// NewServer creates the API server. analysis should not hold a session
// repository; the API never reads one.
func NewServer(analysis *app.AnalysisService, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 << 20
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	s := &Server{
		router:         chi.NewRouter(),
		analysis:       analysis,
		maxUploadBytes: opts.MaxUploadBytes,
		corsOrigins:    opts.CORSOrigins,
		logger:         logger.Named("api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/analyze", s.handleAnalyze)
	})
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Code:    errors.CodeNotFound,
			Message: "Rota não encontrada.",
		}})
	})
}

// Handler exposes the router
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
		s.logger.Info("api listening", zap.String("addr", addr))
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
	return srv.Shutdown(shutdownCtx)
}

// AnalyzeResponse is the body of a successful analysis
type AnalyzeResponse struct {
	*app.Dataset
	Charts []charts.Series `json:"graficos"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Columns []string `json:"columns,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) || r.ContentLength > s.maxUploadBytes {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: errorDetail{
				Code:    errors.CodeInvalidInput,
				Message: fmt.Sprintf("O arquivo excede o limite de %d MB.", s.maxUploadBytes>>20),
			}})
			return
		}
		writeError(w, errors.InvalidInput(fmt.Sprintf("Envie o arquivo no campo multipart %q.", uploadField)))
		return
	}
	defer file.Close()

	ds, err := s.analysis.Analyze(r.Context(), header.Filename, file)
	if err != nil {
		s.logger.Warn("analysis rejected",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("file", header.Filename),
			zap.String("code", errors.GetCode(err)),
			zap.Error(err))
		writeError(w, err)
		return
	}

	resp := AnalyzeResponse{Dataset: ds}
	for _, kind := range charts.Kinds() {
		series, err := charts.BuildSeries(ds.Summaries, kind)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Charts = append(resp.Charts, series)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorBody{Error: errorDetail{
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
		Columns: core.MissingColumns(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
