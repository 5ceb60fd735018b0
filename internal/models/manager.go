// Package models loads groups of mesh files.
package models

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/philipparndt/gomesh/internal/loader"
	"golang.org/x/sync/errgroup"
)

// Model is a loaded mesh file
type Model = loader.Model

// Manager loads files concurrently with a bounded number of workers
type Manager struct {
	options loader.Options
	workers int
}

// NewManager returns a manager loading with opts and at most workers files
// at a time. workers <= 0 means no limit.
func NewManager(opts loader.Options, workers int) *Manager {
	return &Manager{options: opts, workers: workers}
}

// LoadFiles loads every path and returns the models in the order of paths.
// The first error cancels the remaining loads.
func (m *Manager) LoadFiles(ctx context.Context, paths []string) ([]*Model, error) {
	models := make([]*Model, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if m.workers > 0 {
		g.SetLimit(m.workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			model, err := loader.Load(path, m.options)
			if err != nil {
				return err
			}
			models[i] = model
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}

// LoadDirectory loads every supported file directly inside dir, sorted by name.
// Unsupported files are skipped.
func (m *Manager) LoadDirectory(ctx context.Context, dir string) ([]*Model, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !loader.IsSupported(entry.Name()) {
			slog.Info("skipping unsupported file", "file", entry.Name())
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	slog.Debug("loading directory", "dir", dir, "files", len(paths))
	return m.LoadFiles(ctx, paths)
}

// Load loads a single file, or every supported file when path is a directory
func (m *Manager) Load(ctx context.Context, path string) ([]*Model, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return m.LoadDirectory(ctx, path)
	}
	return m.LoadFiles(ctx, []string{path})
}
