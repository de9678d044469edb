package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"serviceboard/app"
	"serviceboard/domain/core"
	"serviceboard/domain/report"
	"serviceboard/internal/dataset"
	"serviceboard/ui/middleware"
)

const shutdownTimeout = 10 * time.Second

// ReportAPI is what the HTTP surface needs from the report service.
type ReportAPI interface {
	Ingest(ctx context.Context, data []byte, filename string) (*app.IngestResult, error)
	Latest(ctx context.Context) (*report.Document, error)
	Summary(ctx context.Context) ([]dataset.ColumnSummary, error)
	ListReports(ctx context.Context, limit int) ([]*report.ArchivedReport, error)
	GetReport(ctx context.Context, id core.ReportID) (*report.ArchivedReport, error)
}

// Options configures the server.
type Options struct {
	// StaticDir holds the built dashboard; it is served only when it exists.
	StaticDir      string
	UploadMaxBytes int64
}

// Server represents the JSON API and dashboard host
type Server struct {
	router  *gin.Engine
	reports ReportAPI
	opts    Options
	logger  *zap.Logger
}

// NewServer creates a new web server instance with routes installed
func NewServer(reports ReportAPI, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:  gin.New(),
		reports: reports,
		opts:    opts,
		logger:  logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(middleware.CORS())
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/data", s.handleData)
	api.GET("/meta", s.handleMeta)
	api.GET("/summary", s.handleSummary)
	api.POST("/upload", s.handleUpload)
	api.GET("/reports", s.handleListReports)
	api.GET("/reports/:id", s.handleGetReport)

	s.setupStatic()
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
