package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/philipparndt/gomesh/pkg/geometry"
)

// Transform returns a copy of the mesh with every vertex multiplied by mat.
// Faces and winding are unchanged. Projective matrices are honored by
// dividing through w.
func (m *Mesh) Transform(mat mgl32.Mat4) *Mesh {
	c := m.Clone()
	for i := range c.vertices {
		p := c.vertices[i].position
		v := mat.Mul4x1(mgl32.Vec4{p.X, p.Y, p.Z, 1})
		if w := v.W(); w != 0 && w != 1 {
			v = v.Mul(1 / w)
		}
		c.vertices[i].position = geometry.NewVector3(v.X(), v.Y(), v.Z())
	}
	return c
}
