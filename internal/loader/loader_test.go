package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/openscad"
	"github.com/philipparndt/gomesh/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSquareSTL writes a unit square made of two triangles
func writeSquareSTL(t *testing.T, path string) {
	t.Helper()
	v := geometry.NewVector3
	tris := []stl.Triangle{
		{Vertices: [3]geometry.Vector3{v(0, 0, 0), v(1, 0, 0), v(1, 1, 0)}},
		{Vertices: [3]geometry.Vector3{v(0, 0, 0), v(1, 1, 0), v(0, 1, 0)}},
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, stl.Write(f, "square", tris))
}

const squarePLY = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 2
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
3 0 1 2
3 0 2 3
`

func TestIsSupported(t *testing.T) {
	tests := map[string]bool{
		"part.stl":     true,
		"PART.STL":     true,
		"scan.Ply":     true,
		"part.scad":    true,
		"model.obj":    false,
		"noextension":  false,
		"archive.stl.": false,
	}
	for path, want := range tests {
		assert.Equal(t, want, IsSupported(path), path)
	}
}

func TestLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.STL")
	writeSquareSTL(t, path)

	model, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "square", model.Name)
	assert.Equal(t, path, model.Path)
	assert.Equal(t, 6, model.Mesh.NumberOfVertices())
	assert.Equal(t, 2, model.Mesh.NumberOfFaces())
	assert.Zero(t, model.DuplicatesRemoved)
}

func TestLoadRemoveDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.stl")
	writeSquareSTL(t, path)

	model, err := Load(path, Options{RemoveDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 2, model.DuplicatesRemoved)
	assert.Equal(t, 4, model.Mesh.NumberOfVertices())
}

func TestLoadPLY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.ply")
	require.NoError(t, os.WriteFile(path, []byte(squarePLY), 0o644))

	model, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "square", model.Name)
	assert.Equal(t, 4, model.Mesh.NumberOfVertices())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, model.Mesh.ConnectivityData())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "model.obj"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = Load(filepath.Join(dir, "missing.stl"), Options{})
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.ply")
	require.NoError(t, os.WriteFile(broken, []byte("not a ply file\n"), 0o644))
	_, err = Load(broken, Options{})
	assert.ErrorContains(t, err, "broken.ply")
}

func TestLoadSCADWithoutOpenSCAD(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	path := filepath.Join(t.TempDir(), "part.scad")
	require.NoError(t, os.WriteFile(path, []byte("cube(1);\n"), 0o644))

	_, err := Load(path, Options{})
	assert.ErrorIs(t, err, openscad.ErrNotInstalled)
}

func TestSources(t *testing.T) {
	dir := t.TempDir()
	scad := filepath.Join(dir, "part.scad")
	require.NoError(t, os.WriteFile(scad, []byte("include <dims.scad>\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dims.scad"), []byte("w = 2;\n"), 0o644))

	sources, err := Sources(scad)
	require.NoError(t, err)
	assert.Equal(t, []string{scad, filepath.Join(dir, "dims.scad")}, sources)

	sources, err = Sources("mesh.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"mesh.stl"}, sources)
}
