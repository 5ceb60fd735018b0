// Package openscad renders OpenSCAD sources to STL with the openscad binary.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Binary is the executable looked up in PATH
const Binary = "openscad"

// ErrNotInstalled is returned when the openscad binary cannot be found
var ErrNotInstalled = errors.New("openscad not found in PATH")

var dependencyPattern = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// Renderer resolves relative sources against a working directory
type Renderer struct {
	workDir string
}

// NewRenderer creates a renderer rooted at workDir
func NewRenderer(workDir string) *Renderer {
	return &Renderer{workDir: workDir}
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// RenderToSTL runs openscad to write scadFile as STL to outputFile.
// The process is killed when ctx is done.
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	if _, err := exec.LookPath(Binary); err != nil {
		return ErrNotInstalled
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, Binary, "-o", outputFile, r.abs(scadFile))
	cmd.Dir = r.workDir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(output.String())
		if msg == "" {
			return fmt.Errorf("failed to render %s: %w", scadFile, err)
		}
		return fmt.Errorf("failed to render %s: %w\n%s", scadFile, err, msg)
	}

	slog.Debug("rendered openscad file", "path", scadFile, "output", outputFile, "elapsed", time.Since(start))
	return nil
}

// ResolveDependencies returns scadFile followed by every file it pulls in
// through use or include statements, transitively, as absolute paths.
// Each file appears once even when the includes form a cycle.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	visited := make(map[string]bool)
	var deps []string
	if err := r.resolve(filepath.Clean(r.abs(scadFile)), visited, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) resolve(scadFile string, visited map[string]bool, deps *[]string) error {
	if visited[scadFile] {
		return nil
	}
	visited[scadFile] = true
	*deps = append(*deps, scadFile)

	direct, err := r.parseDependencies(scadFile)
	if err != nil {
		return err
	}
	for _, dep := range direct {
		if err := r.resolve(dep, visited, deps); err != nil {
			return err
		}
	}
	return nil
}

// parseDependencies lists the files named by use and include statements
func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	dir := filepath.Dir(scadFile)
	var deps []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyPattern.FindStringSubmatch(line); m != nil {
			deps = append(deps, r.resolvePath(m[1], dir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return deps, nil
}

// resolvePath looks a dependency up next to the including file first,
// then in the working directory. Explicitly relative paths only use the former.
func (r *Renderer) resolvePath(dep, currentDir string) string {
	local := filepath.Clean(filepath.Join(currentDir, dep))
	if strings.HasPrefix(dep, "./") || strings.HasPrefix(dep, "../") {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Clean(r.abs(dep))
}
