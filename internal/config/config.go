// Package config holds the gomesh settings read from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/philipparndt/gomesh/internal/logging"
	"github.com/philipparndt/gomesh/pkg/octree"
	"github.com/philipparndt/gomesh/pkg/stl"
)

// Config is the complete gomesh configuration
type Config struct {
	Octree OctreeConfig `toml:"octree"`
	STL    STLConfig    `toml:"stl"`
	Load   LoadConfig   `toml:"load"`
	Log    LogConfig    `toml:"log"`
}

// OctreeConfig controls the spatial index used for vertex welding
type OctreeConfig struct {
	MaxVerticesPerOctant int `toml:"max_vertices_per_octant"`
	MaxDepth             int `toml:"max_depth"`
}

// Options converts the section to octree construction options
func (c OctreeConfig) Options() octree.Options {
	return octree.Options{
		MaxVerticesPerOctant: c.MaxVerticesPerOctant,
		MaxDepth:             c.MaxDepth,
	}
}

// STLConfig controls STL export
type STLConfig struct {
	Header string `toml:"header"`
}

// LoadConfig controls how models are loaded
type LoadConfig struct {
	RemoveDuplicates bool `toml:"remove_duplicates"`
	// Workers limits concurrent loads; 0 means one per CPU
	Workers int `toml:"workers"`
}

// WorkerCount returns the effective number of load workers
func (c LoadConfig) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// LogConfig controls logging
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Octree: OctreeConfig{
			MaxVerticesPerOctant: octree.DefaultMaxVerticesPerOctant,
			MaxDepth:             octree.DefaultMaxDepth,
		},
		STL: STLConfig{
			Header: stl.DefaultHeader,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads the configuration file at path on top of the defaults.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r on top of the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown configuration keys:\n%s", strict.String())
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes the configuration as TOML
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks the value ranges of every section
func (c *Config) Validate() error {
	var errs []error
	if c.Octree.MaxVerticesPerOctant <= 0 {
		errs = append(errs, fmt.Errorf("octree.max_vertices_per_octant must be positive, got %d", c.Octree.MaxVerticesPerOctant))
	}
	if c.Octree.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("octree.max_depth must be positive, got %d", c.Octree.MaxDepth))
	}
	if len(c.STL.Header) > stl.HeaderSize {
		errs = append(errs, fmt.Errorf("stl.header is %d bytes, at most %d allowed", len(c.STL.Header), stl.HeaderSize))
	}
	if strings.HasPrefix(strings.TrimSpace(c.STL.Header), "solid") {
		errs = append(errs, errors.New(`stl.header must not start with "solid"`))
	}
	if c.Load.Workers < 0 {
		errs = append(errs, fmt.Errorf("load.workers must not be negative, got %d", c.Load.Workers))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}
