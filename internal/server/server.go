// Package server exposes the processing pipeline over HTTP: session
// scoped uploads, a processing endpoint mirroring the CLI run command,
// result downloads, and session cleanup. Sessions isolate their files
// under per-session upload and output folders; nothing is shared
// between sessions and nothing outlives cleanup.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/strandsoft/wcomp/internal/export"
)

const sessionCookie = "wcomp_session"

// Config holds server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// BaseDir holds the uploads/ and output/ trees.
	BaseDir string

	// TemplatePath points at the summary workbook template; empty
	// selects the standalone workbook fallback.
	TemplatePath string

	// MaxUploadBytes caps the multipart request body.
	MaxUploadBytes int64
}

// DefaultConfig returns sensible server defaults.
func DefaultConfig(baseDir string) Config {
	return Config{
		Addr:           ":8080",
		BaseDir:        baseDir,
		MaxUploadBytes: 50 << 20,
	}
}

// Server hosts the upload-and-process HTTP surface.
type Server struct {
	logger *slog.Logger
	engine *gin.Engine
	config Config
}

// New creates a server with its routes registered.
func New(config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 50 << 20
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = config.MaxUploadBytes

	s := &Server{config: config, logger: logger, engine: engine}
	s.routes()
	return s
}

// Router returns the underlying gin engine, exposed for tests.
func (s *Server) Router() *gin.Engine {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	api.POST("/upload", s.handleUpload)
	api.POST("/process", s.handleProcess)
	api.GET("/download/:filename", s.handleDownload)
	api.GET("/runs", s.handleRuns)
	api.POST("/cleanup", s.handleCleanup)
}

// Run serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", "addr", s.config.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// session returns the request's session ID, minting one when the
// cookie is absent or is not a UUID this server issued. Session IDs
// become path components under BaseDir, so anything else is rejected.
func (s *Server) session(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return id
}

func (s *Server) sessionDir(kind, id string) (string, error) {
	dir := filepath.Join(s.config.BaseDir, kind, id)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	return dir, nil
}

func (s *Server) templateConfig() export.Config {
	cfg := export.DefaultConfig()
	if s.config.TemplatePath != "" {
		if _, err := os.Stat(s.config.TemplatePath); err == nil {
			cfg.TemplatePath = s.config.TemplatePath
		} else {
			s.logger.Warn("configured template not found, using standalone workbook",
				"template", s.config.TemplatePath)
		}
	}
	return cfg
}
