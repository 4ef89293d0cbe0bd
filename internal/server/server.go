// Package server exposes detection and analysis over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"route-recon/internal/analyzer"
	"route-recon/internal/artifact"
	"route-recon/internal/config"
	"route-recon/internal/exporter"
	"route-recon/internal/logger"
	"route-recon/internal/model"
)

// AnalysisArtifact is the name under which each run's analysis is stored
const AnalysisArtifact = "analysis.json"

// Server wires the analyzer registry behind a gin engine
type Server struct {
	cfg    *config.Config
	store  artifact.Store
	engine *gin.Engine
}

type detectRequest struct {
	Path string `json:"path"`
}

type detectResponse struct {
	Path       string `json:"path"`
	Convention string `json:"convention"`
}

type analyzeRequest struct {
	Path      string `json:"path"`
	Framework string `json:"framework"`
}

type analyzeResponse struct {
	RunID       string               `json:"run_id"`
	Convention  string               `json:"convention"`
	Count       int                  `json:"count"`
	Endpoints   []model.EndpointInfo `json:"endpoints"`
	Diagnostics []model.Diagnostic   `json:"diagnostics"`
}

// New builds the engine. store may be nil, in which case runs are not persisted.
func New(cfg *config.Config, store artifact.Store) *Server {
	gin.DefaultWriter = logger.Writer(logger.LevelDebug)
	gin.DefaultErrorWriter = logger.Writer(logger.LevelError)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog())

	s := &Server{cfg: cfg, store: store, engine: engine}

	engine.GET("/healthz", s.health)
	v1 := engine.Group("/v1")
	v1.POST("/detect", s.detect)
	v1.POST("/analyze", s.analyze)
	v1.GET("/runs/:run_id/artifacts", s.listArtifacts)
	v1.GET("/runs/:run_id/artifacts/*name", s.getArtifact)

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) detect(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	root, status, err := s.resolveRoot(req.Path)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	conv := analyzer.Detect(root, s.analyzerConfig(root))
	c.JSON(http.StatusOK, detectResponse{Path: root, Convention: string(conv)})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	conv, err := analyzer.ParseConvention(req.Framework)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	root, status, err := s.resolveRoot(req.Path)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ext, err := analyzer.ForProject(conv, s.analyzerConfig(root))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inv, err := ext.Analyze(c.Request.Context())
	if err != nil {
		logger.Error("Analysis of %s failed: %v", root, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	runID := artifact.NewRunID()
	if s.store != nil {
		data, err := exporter.MarshalAnalysis(inv.Endpoints)
		if err == nil {
			err = s.store.Put(c.Request.Context(), runID, AnalysisArtifact, data)
		}
		if err != nil {
			// The response still carries the endpoints
			logger.Warn("Failed to store analysis for run %s: %v", runID, err)
		}
	}

	c.JSON(http.StatusOK, analyzeResponse{
		RunID:       runID,
		Convention:  inv.Convention,
		Count:       len(inv.Endpoints),
		Endpoints:   inv.Endpoints,
		Diagnostics: inv.Diagnostics,
	})
}

func (s *Server) listArtifacts(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact storage is disabled"})
		return
	}
	names, err := s.store.List(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": c.Param("run_id"), "artifacts": names})
}

func (s *Server) getArtifact(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact storage is disabled"})
		return
	}
	name := strings.TrimPrefix(c.Param("name"), "/")
	data, err := s.store.Get(c.Request.Context(), c.Param("run_id"), name)
	switch {
	case errors.Is(err, artifact.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.Data(http.StatusOK, contentType(name), data)
	}
}

// resolveRoot validates a project path and returns it absolute, plus the status to use on error
func (s *Server) resolveRoot(path string) (string, int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", http.StatusBadRequest, errors.New("path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", http.StatusBadRequest, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", http.StatusNotFound, errors.New("path does not exist: " + abs)
	}
	if !info.IsDir() {
		return "", http.StatusBadRequest, errors.New("path is not a directory: " + abs)
	}
	return abs, 0, nil
}

func (s *Server) analyzerConfig(root string) *analyzer.AnalyzerConfig {
	ac := s.cfg.AnalyzerConfig()
	ac.RootDir = root
	return ac
}

func contentType(name string) string {
	if strings.HasSuffix(name, ".json") {
		return "application/json"
	}
	return "application/octet-stream"
}
