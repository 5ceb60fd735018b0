package mesh

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/stl"
)

// Triangles returns one STL record per face with its computed normal.
// Every face must be a triangle.
func (m *Mesh) Triangles() ([]stl.Triangle, error) {
	if uint64(len(m.faces)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyFaces, len(m.faces))
	}
	for i := range m.faces {
		if size := m.faces[i].Size(); size != 3 {
			return nil, fmt.Errorf("%w: face %d has %d vertices", ErrNotTriangulated, i, size)
		}
	}

	normals := m.Normals(FaceLocation)
	tris := make([]stl.Triangle, len(m.faces))
	for i := range m.faces {
		ids := m.faces[i].ids
		tris[i] = stl.Triangle{
			Normal: geometry.NewVector3(normals[3*i], normals[3*i+1], normals[3*i+2]),
			Vertices: [3]geometry.Vector3{
				m.vertices[ids[0]].position,
				m.vertices[ids[1]].position,
				m.vertices[ids[2]].position,
			},
		}
	}
	return tris, nil
}

// EncodeSTL writes the mesh to w as binary STL
func (m *Mesh) EncodeSTL(w io.Writer) error {
	tris, err := m.Triangles()
	if err != nil {
		return err
	}
	return stl.Write(w, m.header, tris)
}

// WriteToSTL writes the mesh to a binary STL file at path
func (m *Mesh) WriteToSTL(path string) error {
	tris, err := m.Triangles()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := stl.Write(file, m.header, tris); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteToFile writes the mesh, optionally transformed, to path.
// The format follows the extension; only ".stl" is supported.
func (m *Mesh) WriteToFile(path string, transform *mgl32.Mat4) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".stl" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	out := m
	if transform != nil {
		out = m.Transform(*transform)
	}
	return out.WriteToSTL(path)
}
