package main

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/stl"
	"github.com/philipparndt/gomesh/pkg/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath, verbose, veryVerbose, quiet = "", false, false, false
	infoClean = false
	normalsLocation, normalsCount, normalsClean = locationFlag(mesh.FaceLocation), 10, false
	convertClean, convertTranslate, convertScale = false, nil, 1
	convertRotateX, convertRotateY, convertRotateZ = 0, 0, 0
	facesCount, facesLargest, facesSmallest = 10, false, false
	edgesCount, edgesLongest, edgesShortest = 10, false, false
	renderWidth, renderHeight, renderSmooth, renderWireframe = 800, 600, false, false
	radiusVertices, radiusClean = nil, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// writeCube writes a unit cube as a 12 triangle soup
func writeCube(t *testing.T, dir string) string {
	t.Helper()
	v := geometry.NewVector3
	c := []geometry.Vector3{
		v(0, 0, 0), v(1, 0, 0), v(1, 1, 0), v(0, 1, 0),
		v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1),
	}
	var tris []stl.Triangle
	for _, f := range [][3]int{
		{0, 2, 1}, {0, 3, 2}, {4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4}, {2, 3, 7}, {2, 7, 6},
		{1, 2, 6}, {1, 6, 5}, {0, 4, 7}, {0, 7, 3},
	} {
		tris = append(tris, stl.Triangle{Vertices: [3]geometry.Vector3{c[f[0]], c[f[1]], c[f[2]]}})
	}

	path := filepath.Join(dir, "cube.stl")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, stl.Write(f, "cube", tris))
	return path
}

func readMesh(t *testing.T, path string) *mesh.Mesh {
	t.Helper()
	m := mesh.New()
	_, err := stl.ReadFile(path, m)
	require.NoError(t, err)
	return m
}

func TestInfo(t *testing.T) {
	path := writeCube(t, t.TempDir())

	out, err := execute(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Name: cube")
	assert.Contains(t, out, "Vertices: 36")
	assert.Contains(t, out, "Faces: 12")
	assert.Contains(t, out, "Closed: false")

	out, err = execute(t, "info", "--clean", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Vertices: 8")
	assert.Contains(t, out, "Duplicate vertices removed: 28")
	assert.Contains(t, out, "Closed: true")
	assert.Contains(t, out, "Volume: 1.000000 cubic units")
}

func TestInfoDirectory(t *testing.T) {
	dir := t.TempDir()
	writeCube(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	out, err := execute(t, "info", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "cube.stl")
	assert.NotContains(t, out, "readme.txt")
}

func TestInfoMissingFile(t *testing.T) {
	_, err := execute(t, "info", filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	dir := t.TempDir()
	in := writeCube(t, dir)
	out := filepath.Join(dir, "welded.stl")

	printed, err := execute(t, "dedupe", in, out)
	require.NoError(t, err)
	assert.Contains(t, printed, "Removed 28 duplicate vertices, 8 vertices and 12 faces")

	m := readMesh(t, out)
	assert.Equal(t, 12, m.NumberOfFaces())

	_, err = execute(t, "dedupe", in, filepath.Join(dir, "welded.ply"))
	assert.ErrorIs(t, err, mesh.ErrUnsupportedFormat)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeCube(t, dir)
	out := filepath.Join(dir, "moved.stl")

	_, err := execute(t, "convert", "--scale", "2", "--translate", "1,2,3", in, out)
	require.NoError(t, err)

	b := readMesh(t, out).Bounds()
	assert.True(t, b.Min.ApproxEqual(geometry.NewVector3(1, 2, 3)), "min %v", b.Min)
	assert.True(t, b.Max.ApproxEqual(geometry.NewVector3(3, 4, 5)), "max %v", b.Max)

	_, err = execute(t, "convert", "--translate", "1,2", in, out)
	assert.ErrorContains(t, err, "x,y,z")
}

func TestNormals(t *testing.T) {
	path := writeCube(t, t.TempDir())

	out, err := execute(t, "normals", "-n", "2", path)
	require.NoError(t, err)
	assert.Contains(t, out, "face normals: 12 (144 bytes)")
	assert.Contains(t, out, "-1.000000)")

	out, err = execute(t, "normals", "--location", "vertex", "--clean", path)
	require.NoError(t, err)
	assert.Contains(t, out, "vertex normals: 8 (96 bytes)")

	_, err = execute(t, "normals", "--location", "edge", path)
	assert.Error(t, err)
}

func TestEdges(t *testing.T) {
	path := writeCube(t, t.TempDir())

	out, err := execute(t, "edges", "--longest", "-n", "2", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Top 2 Longest Edges")
	assert.Contains(t, out, "1.414214")
}

func TestFaces(t *testing.T) {
	path := writeCube(t, t.TempDir())

	out, err := execute(t, "faces", "--largest", "-n", "3", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Top 3 Largest Faces")
	assert.Contains(t, out, "Total faces: 12")
	assert.Contains(t, out, "Total surface area: 6.000000 square units")
	assert.Equal(t, 3, strings.Count(out, "Face #"))

	out, err = execute(t, "triangles", path)
	require.NoError(t, err)
	assert.Contains(t, out, "First 10 Faces")
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	path := writeCube(t, dir)
	out := filepath.Join(dir, "cube.png")

	printed, err := execute(t, "render", "--width", "32", "--height", "24", "--smooth", path, out)
	require.NoError(t, err)
	assert.Contains(t, printed, "Rendered 32x24 image")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	_, err = execute(t, "render", "--width", "0", path, out)
	assert.ErrorIs(t, err, viewer.ErrInvalidSize)
}

func TestRadius(t *testing.T) {
	path := writeCube(t, t.TempDir())

	out, err := execute(t, "radius", "--vertices", "0,1,2", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Radius: 0.707107 units")
	assert.Contains(t, out, "Center: (0.500000, 0.500000, 0.000000)")

	_, err = execute(t, "radius", "--vertices", "0,1,99", path)
	assert.ErrorContains(t, err, "out of range")

	_, err = execute(t, "radius", "--vertices", "0,1", path)
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomesh.toml")
	require.NoError(t, os.WriteFile(path, []byte("[octree]\nmax_vertices_per_octant = 7\n"), 0o644))

	out, err := execute(t, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "max_vertices_per_octant = 7")

	require.NoError(t, os.WriteFile(path, []byte("[stl]\nheader = \"solid part\"\n"), 0o644))
	_, err = execute(t, "--config", path, "config")
	assert.ErrorContains(t, err, "solid")
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "gomesh")

	_, err = execute(t, "completion", "powershell")
	assert.Error(t, err)
}
