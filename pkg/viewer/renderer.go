// Package viewer renders meshes to images without a display.
//
// Rendering reads the flattened buffers of a mesh (positions, connectivity
// and normals) the same way a GPU upload would, then rasterizes them with a
// depth buffer on the CPU.
package viewer

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/chewxy/math32"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

// ErrInvalidSize is returned for an image without pixels
var ErrInvalidSize = errors.New("image size must be positive")

const ambient = 0.25

// Options controls how a mesh is drawn
type Options struct {
	Width, Height int
	// Yaw and Pitch orbit the default camera, in radians
	Yaw, Pitch float32
	Background color.RGBA
	Color      color.RGBA
	// Smooth interpolates lighting between vertex normals instead of
	// shading each face flat.
	Smooth bool
	// Wireframe draws the face outlines on top of the shaded surface
	Wireframe bool
	Edges     color.RGBA
}

// DefaultOptions returns a 800x600 render of light grey faces on black
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Yaw:        math32.Pi / 6,
		Pitch:      math32.Pi / 8,
		Background: color.RGBA{A: 255},
		Color:      color.RGBA{R: 200, G: 200, B: 210, A: 255},
		Edges:      color.RGBA{R: 40, G: 40, B: 40, A: 255},
	}
}

// Render draws m as seen from a camera orbiting its bounding box.
// Polygons are fanned into triangles; faces with fewer than three
// vertices only show up in wireframe mode.
func Render(m *mesh.Mesh, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrInvalidSize
	}
	start := time.Now()

	camera := NewCamera(m.Bounds())
	camera.Rotate(opts.Pitch, opts.Yaw)
	vp := camera.ViewProjection(float32(opts.Width) / float32(opts.Height))
	light := camera.Position().Sub(camera.Target).Normalize()

	positions := m.VertexData()
	connectivity := m.ConnectivityData()
	faceNormals := m.Normals(mesh.FaceLocation)
	var vertexNormals []float32
	if opts.Smooth {
		vertexNormals = m.Normals(mesh.VertexLocation)
	}

	f := newFrame(opts.Width, opts.Height, opts.Background)

	project := func(id uint32) (screenVertex, bool) {
		p := at(positions, id)
		x, y, depth, ok := Project(vp, p, opts.Width, opts.Height)
		return screenVertex{x: x, y: y, depth: depth}, ok
	}

	// two sided Lambert so that inverted faces stay visible
	intensity := func(n geometry.Vector3) float32 {
		return ambient + (1-ambient)*math32.Abs(n.Dot(light))
	}

	offset := 0
	drawn := 0
	for i := range m.NumberOfFaces() {
		size := m.Face(i).Size()
		ids := connectivity[offset : offset+size]
		offset += size

		verts := make([]screenVertex, size)
		visible := true
		for k, id := range ids {
			v, ok := project(id)
			if !ok {
				visible = false
				break
			}
			if opts.Smooth {
				v.intensity = intensity(at(vertexNormals, id))
			} else {
				v.intensity = intensity(at(faceNormals, uint32(i)))
			}
			verts[k] = v
		}
		if !visible {
			continue
		}

		for k := 1; k+1 < size; k++ {
			f.fillTriangle(verts[0], verts[k], verts[k+1], opts.Color)
		}
		if opts.Wireframe && size > 1 {
			for k := range size {
				a, b := verts[k], verts[(k+1)%size]
				f.drawLine(int(a.x), int(a.y), int(b.x), int(b.y), opts.Edges)
			}
		}
		drawn++
	}

	slog.Debug("rendered mesh",
		"faces", drawn,
		"width", opts.Width,
		"height", opts.Height,
		"elapsed", time.Since(start))

	return f.img, nil
}

// at reads the i-th x, y, z triple of a flattened buffer
func at(buffer []float32, i uint32) geometry.Vector3 {
	return geometry.NewVector3(buffer[3*i], buffer[3*i+1], buffer[3*i+2])
}
