package mesh

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/philipparndt/gomesh/pkg/geometry"
)

// Face is an ordered list of vertex indices. Faces are triangles in practice
// but any size is stored.
type Face struct {
	ids []uint32
}

// Size returns the number of vertices of the face
func (f Face) Size() int {
	return len(f.ids)
}

// At returns the i-th vertex index of the face. It panics if i is out of range.
func (f Face) At(i int) uint32 {
	if i < 0 || i >= len(f.ids) {
		panic(fmt.Sprintf("mesh: face corner %d out of range [0, %d)", i, len(f.ids)))
	}
	return f.ids[i]
}

// VertexIDs returns a copy of the vertex indices in winding order
func (f Face) VertexIDs() []uint32 {
	return slices.Clone(f.ids)
}

// Normal returns the unit normal of the plane through the first three
// vertices, (v1-v0) x (v2-v1). Faces with fewer than three vertices have no
// normal; they yield the zero vector and a warning is logged.
func (f Face) Normal(m *Mesh) geometry.Vector3 {
	if len(f.ids) < 3 {
		slog.Warn("face has fewer than 3 vertices, using zero normal", "vertices", len(f.ids))
		return geometry.Vector3{}
	}
	return f.triangle(m).Normal()
}

// Centroid returns the average position of the face vertices
func (f Face) Centroid(m *Mesh) geometry.Vector3 {
	if len(f.ids) == 0 {
		return geometry.Vector3{}
	}
	var sum geometry.Vector3
	for _, id := range f.ids {
		sum = sum.Add(m.vertices[id].position)
	}
	return sum.Div(float32(len(f.ids)))
}

func (f Face) triangle(m *Mesh) geometry.Triangle {
	return geometry.NewTriangle(
		m.vertices[f.ids[0]].position,
		m.vertices[f.ids[1]].position,
		m.vertices[f.ids[2]].position,
	)
}
