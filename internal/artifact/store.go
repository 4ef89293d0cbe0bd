// Package artifact persists the outputs of analysis runs, keyed by run ID and relative path.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"route-recon/internal/config"
)

// Store defines operations for persisting run artifacts.
type Store interface {
	Put(ctx context.Context, runID, path string, content []byte) error
	Get(ctx context.Context, runID, path string) ([]byte, error)
	List(ctx context.Context, runID string) ([]string, error)
}

var ErrNotFound = errors.New("artifact not found")

// NewRunID returns a fresh identifier for one analysis run
func NewRunID() string {
	return uuid.NewString()
}

// New selects the object store when artifact storage is enabled, the local
// output directory otherwise.
func New(cfg *config.Config) (Store, error) {
	if cfg.Artifact.Enabled {
		return NewS3Store(S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
	}
	return NewFileStore(filepath.Join(cfg.Output.Dir, "runs"))
}

// normalize trims and validates a (runID, path) pair
func normalize(runID, path string) (string, string, error) {
	runID = strings.TrimSpace(runID)
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if runID == "" {
		return "", "", fmt.Errorf("run_id is required")
	}
	if path == "" {
		return "", "", fmt.Errorf("path is required")
	}
	if strings.Contains(runID, "/") || strings.Contains(runID, "..") {
		return "", "", fmt.Errorf("invalid run_id %q", runID)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return "", "", fmt.Errorf("invalid path %q", path)
		}
	}
	return runID, path, nil
}

func objectKey(runID, path string) string {
	return runID + "/" + path
}
