package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps artifacts under <root>/<run_id>/<path> on the local disk
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("artifact root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact root: %w", err)
	}
	return &FileStore{root: abs}, nil
}

func (s *FileStore) Put(_ context.Context, runID, path string, content []byte) error {
	runID, path, err := normalize(runID, path)
	if err != nil {
		return err
	}
	target := filepath.Join(s.root, filepath.FromSlash(objectKey(runID, path)))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	return os.WriteFile(target, content, 0644)
}

func (s *FileStore) Get(_ context.Context, runID, path string) ([]byte, error) {
	runID, path, err := normalize(runID, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(objectKey(runID, path))))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStore) List(_ context.Context, runID string) ([]string, error) {
	runID, _, err := normalize(runID, "-")
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, runID)
	paths := make([]string, 0, 8)
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
