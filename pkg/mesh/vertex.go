package mesh

import (
	"slices"

	"github.com/philipparndt/gomesh/pkg/geometry"
)

// Vertex is a point of a mesh together with the faces that use it
type Vertex struct {
	position geometry.Vector3
	faces    []uint32
}

// Position returns the coordinates of the vertex
func (v Vertex) Position() geometry.Vector3 {
	return v.position
}

// Faces returns the indices of the faces incident to the vertex, in the order
// the faces were added. Each face is listed once.
func (v Vertex) Faces() []uint32 {
	return slices.Clone(v.faces)
}

// Equal reports whether both vertices sit at the same point within geometry.Tolerance
func (v Vertex) Equal(other Vertex) bool {
	return v.position.ApproxEqual(other.position)
}

// Normal returns the normalized sum of the normals of the incident faces.
// A vertex without incident faces has the zero vector as normal.
func (v Vertex) Normal(m *Mesh) geometry.Vector3 {
	var sum geometry.Vector3
	for _, f := range v.faces {
		sum = sum.Add(m.faces[f].Normal(m))
	}
	return sum.Normalize()
}

func (v *Vertex) addFace(face uint32) {
	// faces are appended in increasing order, so a repeat is always the last entry
	if n := len(v.faces); n > 0 && v.faces[n-1] == face {
		return
	}
	v.faces = append(v.faces, face)
}
