package viewer

import (
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCube(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := mesh.New()
	for _, c := range [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	} {
		m.AddVertex(c[0], c[1], c[2])
	}
	for _, f := range [][3]uint32{
		{0, 2, 1}, {0, 3, 2}, {4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4}, {2, 3, 7}, {2, 7, 6},
		{1, 2, 6}, {1, 6, 5}, {0, 4, 7}, {0, 7, 3},
	} {
		require.NoError(t, m.AddFace(f[:]...))
	}
	return m
}

func TestCameraFramesBounds(t *testing.T) {
	bounds := geometry.NewBoundsFromPoints(geometry.NewVector3(-1, -2, -3), geometry.NewVector3(1, 2, 3))
	c := NewCamera(bounds)

	assert.Equal(t, geometry.Vector3{}, c.Target)
	assert.InDelta(t, 12, c.Distance, 1e-6)
	assert.True(t, c.Position().ApproxEqual(geometry.NewVector3(0, 0, 12)), "position %v", c.Position())

	x, y, depth, ok := Project(c.ViewProjection(2), c.Target, 200, 100)
	require.True(t, ok)
	assert.InDelta(t, 100, x, 1e-3)
	assert.InDelta(t, 50, y, 1e-3)
	assert.Less(t, depth, float32(1))

	_, _, _, ok = Project(c.ViewProjection(2), geometry.NewVector3(0, 0, 20), 200, 100)
	assert.False(t, ok, "point behind the camera")
}

func TestCameraRotateAndZoom(t *testing.T) {
	c := NewCamera(geometry.NewBoundsFromPoints(geometry.Vector3{}, geometry.NewVector3(1, 1, 1)))

	c.Rotate(10, math32.Pi/2)
	assert.InDelta(t, maxPitch, c.Pitch, 1e-6)
	c.Rotate(-20, 0)
	assert.InDelta(t, -maxPitch, c.Pitch, 1e-6)

	c.Zoom(-0.5)
	assert.InDelta(t, 1, c.Distance, 1e-6)
	c.Zoom(-1)
	assert.InDelta(t, 0.01, c.Distance, 1e-6)
}

func TestRenderCube(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 64, 48
	opts.Yaw, opts.Pitch = 0, 0

	img, err := Render(newCube(t), opts)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	assert.Equal(t, opts.Background, img.RGBAAt(0, 0), "corner shows background")
	assert.Equal(t, opts.Color, img.RGBAAt(32, 24), "front face is lit head on")
}

func TestRenderSmoothAndWireframe(t *testing.T) {
	m := newCube(t)
	m.RemoveDuplicateVertices()

	opts := DefaultOptions()
	opts.Width, opts.Height = 64, 48
	opts.Smooth = true
	opts.Wireframe = true
	opts.Edges = color.RGBA{R: 255, A: 255}

	img, err := Render(m, opts)
	require.NoError(t, err)

	edgePixels := 0
	for y := range 48 {
		for x := range 64 {
			if img.RGBAAt(x, y) == opts.Edges {
				edgePixels++
			}
		}
	}
	assert.Positive(t, edgePixels)
}

func TestRenderEmptyMesh(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 4, 4

	img, err := Render(mesh.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Background, img.RGBAAt(2, 2))
}

func TestRenderInvalidSize(t *testing.T) {
	opts := DefaultOptions()
	opts.Width = 0

	_, err := Render(newCube(t), opts)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestFillTriangleDepth(t *testing.T) {
	f := newFrame(10, 10, color.RGBA{A: 255})
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	far := [3]screenVertex{{0, 0, 0.5, 1}, {10, 0, 0.5, 1}, {0, 10, 0.5, 1}}
	near := [3]screenVertex{{0, 0, -0.5, 1}, {0, 10, -0.5, 1}, {10, 0, -0.5, 1}}

	f.fillTriangle(far[0], far[1], far[2], red)
	assert.Equal(t, red, f.img.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{A: 255}, f.img.RGBAAt(9, 9))

	f.fillTriangle(near[0], near[1], near[2], blue)
	assert.Equal(t, blue, f.img.RGBAAt(1, 1), "nearer triangle wins regardless of winding")

	f.fillTriangle(far[0], far[1], far[2], red)
	assert.Equal(t, blue, f.img.RGBAAt(1, 1), "farther triangle is hidden")
}
