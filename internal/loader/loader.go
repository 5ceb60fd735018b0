// Package loader reads mesh files, choosing the decoder by file extension.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/octree"
	"github.com/philipparndt/gomesh/pkg/openscad"
	"github.com/philipparndt/gomesh/pkg/ply"
	"github.com/philipparndt/gomesh/pkg/stl"
)

// ErrUnsupportedFile is returned for file types no decoder handles
var ErrUnsupportedFile = errors.New("unsupported file type")

// Model is a mesh loaded from a file
type Model struct {
	Path string
	// Name is the solid name stored in an STL file, or the file name
	Name string
	Mesh *mesh.Mesh
	// DuplicatesRemoved counts vertices welded after loading
	DuplicatesRemoved int
}

// Options controls how a file is turned into a mesh
type Options struct {
	RemoveDuplicates bool
	Octree           octree.Options
	// STLHeader overrides the header used when the mesh is exported
	STLHeader string
}

// IsSupported reports whether path has an extension Load understands
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl", ".ply", ".scad":
		return true
	}
	return false
}

// Load reads the mesh file at path
func Load(path string, opts Options) (*Model, error) {
	start := time.Now()
	m := mesh.New()
	m.SetOctreeOptions(opts.Octree)
	if opts.STLHeader != "" {
		m.SetSTLHeader(opts.STLHeader)
	}

	model := &Model{Path: path, Mesh: m}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".stl":
		name, err := stl.ReadFile(path, m)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STL file %s: %w", path, err)
		}
		model.Name = name
	case ".ply":
		if err := ply.ReadFile(path, m); err != nil {
			return nil, fmt.Errorf("failed to parse PLY file %s: %w", path, err)
		}
	case ".scad":
		if err := renderSCAD(path, m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q (expected .stl, .ply or .scad)", ErrUnsupportedFile, ext)
	}

	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if opts.RemoveDuplicates {
		model.DuplicatesRemoved = m.RemoveDuplicateVertices()
	}

	slog.Info("loaded model",
		"path", path,
		"vertices", m.NumberOfVertices(),
		"faces", m.NumberOfFaces(),
		"duplicatesRemoved", model.DuplicatesRemoved,
		"elapsed", time.Since(start))

	return model, nil
}

// renderSCAD renders an OpenSCAD file to a temporary STL and reads it into m
func renderSCAD(path string, m *mesh.Mesh) error {
	tmp, err := os.MkdirTemp("", "gomesh-scad-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	out := filepath.Join(tmp, "model.stl")
	renderer := openscad.NewRenderer(filepath.Dir(path))
	if err := renderer.RenderToSTL(context.Background(), path, out); err != nil {
		return err
	}
	if _, err := stl.ReadFile(out, m); err != nil {
		return fmt.Errorf("failed to parse STL rendered from %s: %w", path, err)
	}
	return nil
}

// Sources returns the files whose changes alter the mesh loaded from path:
// path itself, plus every use and include dependency of an OpenSCAD file.
func Sources(path string) ([]string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".scad" {
		return []string{path}, nil
	}
	return openscad.NewRenderer(filepath.Dir(path)).ResolveDependencies(path)
}
