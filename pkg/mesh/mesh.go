// Package mesh holds a polygon mesh and the data derived from it.
//
// A Mesh is filled through Initialize, AddVertex and AddFace. Bounds, normals
// and the flattened render buffers are computed on first request and cached
// until the next mutation. Caches are built under a lock, so concurrent
// readers never build one twice, but a Mesh must not be mutated concurrently
// with any other call.
package mesh

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/octree"
	"github.com/philipparndt/gomesh/pkg/stl"
)

var (
	// ErrInvalidIndex is returned when a face references a vertex that does not exist
	ErrInvalidIndex = errors.New("mesh: invalid vertex index")
	// ErrNotTriangulated is returned when a non-triangle face is exported to STL
	ErrNotTriangulated = errors.New("mesh: face is not a triangle")
	// ErrTooManyFaces is returned when the face count no longer fits a uint32
	ErrTooManyFaces = errors.New("mesh: too many faces")
	// ErrUnsupportedFormat is returned when writing to an unknown file type
	ErrUnsupportedFormat = errors.New("mesh: unsupported output format")
)

// Location selects the element a normal buffer is computed for
type Location int

const (
	// VertexLocation yields one smoothed normal per vertex
	VertexLocation Location = iota
	// FaceLocation yields one flat normal per face
	FaceLocation
)

// String returns the lower case name of the location
func (l Location) String() string {
	switch l {
	case VertexLocation:
		return "vertex"
	case FaceLocation:
		return "face"
	default:
		return fmt.Sprintf("Location(%d)", int(l))
	}
}

// ParseLocation converts "vertex" or "face" (any case) to a Location
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(s) {
	case "vertex", "vertices":
		return VertexLocation, nil
	case "face", "faces":
		return FaceLocation, nil
	}
	return 0, fmt.Errorf("unknown normal location %q, want vertex or face", s)
}

// Mesh is a list of vertices and the faces over them
type Mesh struct {
	vertices []Vertex
	faces    []Face

	header        string
	octreeOptions octree.Options

	// Derived data, nil until first requested. Guarded by mu.
	mu            sync.Mutex
	bounds        *geometry.Bounds
	vertexNormals []float32
	faceNormals   []float32
	vertexData    []float32
	connectivity  []uint32
	tree          *octree.Octree
}

// New returns an empty mesh
func New() *Mesh {
	return &Mesh{
		header:        stl.DefaultHeader,
		octreeOptions: octree.DefaultOptions(),
	}
}

// maxReserve bounds the capacity Initialize allocates up front
const maxReserve = 1 << 22

// Initialize reserves room for numVertices vertices and numFaces faces.
// The counts are hints: adding more than that still works and requests
// above an internal limit only reserve up to it.
func (m *Mesh) Initialize(numVertices, numFaces int) {
	if numVertices > 0 {
		m.vertices = slices.Grow(m.vertices, min(numVertices, maxReserve))
	}
	if numFaces > 0 {
		m.faces = slices.Grow(m.faces, min(numFaces, maxReserve))
	}
}

// AddVertex appends a vertex and returns its index
func (m *Mesh) AddVertex(x, y, z float32) uint32 {
	m.vertices = append(m.vertices, Vertex{position: geometry.NewVector3(x, y, z)})
	m.invalidate()
	return uint32(len(m.vertices) - 1)
}

// AddFace appends a face over existing vertices and records it in the
// adjacency list of every vertex it uses.
func (m *Mesh) AddFace(ids ...uint32) error {
	if uint64(len(m.faces)) >= math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrTooManyFaces, len(m.faces))
	}
	for _, id := range ids {
		if int(id) >= len(m.vertices) {
			return fmt.Errorf("%w: face %d references vertex %d, mesh has %d",
				ErrInvalidIndex, len(m.faces), id, len(m.vertices))
		}
	}

	face := uint32(len(m.faces))
	m.faces = append(m.faces, Face{ids: slices.Clone(ids)})
	for _, id := range ids {
		m.vertices[id].addFace(face)
	}
	m.invalidate()
	return nil
}

// invalidate drops every derived value, the octree included
func (m *Mesh) invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bounds = nil
	m.vertexNormals = nil
	m.faceNormals = nil
	m.vertexData = nil
	m.connectivity = nil
	m.tree = nil
}

// NumberOfVertices returns the number of vertices
func (m *Mesh) NumberOfVertices() int {
	return len(m.vertices)
}

// NumberOfFaces returns the number of faces
func (m *Mesh) NumberOfFaces() int {
	return len(m.faces)
}

// Vertex returns the i-th vertex. It panics if i is out of range.
func (m *Mesh) Vertex(i int) Vertex {
	if i < 0 || i >= len(m.vertices) {
		panic(fmt.Sprintf("mesh: vertex index %d out of range [0, %d)", i, len(m.vertices)))
	}
	return m.vertices[i]
}

// Face returns the i-th face. It panics if i is out of range.
func (m *Mesh) Face(i int) Face {
	if i < 0 || i >= len(m.faces) {
		panic(fmt.Sprintf("mesh: face index %d out of range [0, %d)", i, len(m.faces)))
	}
	return m.faces[i]
}

// Vertices returns the vertex list. The slice must not be modified.
func (m *Mesh) Vertices() []Vertex {
	return m.vertices
}

// Faces returns the face list. The slice must not be modified.
func (m *Mesh) Faces() []Face {
	return m.faces
}

// VertexPosition returns the coordinates of the i-th vertex
func (m *Mesh) VertexPosition(i int) geometry.Vector3 {
	return m.Vertex(i).position
}

// Bounds returns the axis-aligned box around all vertices.
// A mesh without vertices has the empty box, Min +Inf and Max -Inf.
func (m *Mesh) Bounds() geometry.Bounds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boundsLocked()
}

func (m *Mesh) boundsLocked() geometry.Bounds {
	if m.bounds == nil {
		b := geometry.NewBounds()
		for i := range m.vertices {
			b.Extend(m.vertices[i].position)
		}
		m.bounds = &b
	}
	return *m.bounds
}

// Centroid returns the center of the bounding box. This is not the mean of
// the vertex positions: densely sampled regions do not pull it towards them.
// A mesh without vertices has its centroid at the origin.
func (m *Mesh) Centroid() geometry.Vector3 {
	b := m.Bounds()
	if b.IsEmpty() {
		return geometry.Vector3{}
	}
	return b.Center()
}

// VertexData returns the vertex positions as x, y, z triples.
// The slice is cached and must not be modified.
func (m *Mesh) VertexData() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vertexData == nil {
		data := make([]float32, 0, 3*len(m.vertices))
		for i := range m.vertices {
			p := m.vertices[i].position
			data = append(data, p.X, p.Y, p.Z)
		}
		m.vertexData = data
	}
	return m.vertexData
}

// ConnectivityData returns the vertex indices of all faces, concatenated in
// face order without separators; Face(i).Size() gives the length of each run.
// The slice is cached and must not be modified.
func (m *Mesh) ConnectivityData() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connectivity == nil {
		n := 0
		for i := range m.faces {
			n += len(m.faces[i].ids)
		}
		data := make([]uint32, 0, n)
		for i := range m.faces {
			data = append(data, m.faces[i].ids...)
		}
		m.connectivity = data
	}
	return m.connectivity
}

// Normals returns one x, y, z normal per vertex or per face.
// The slice is cached and must not be modified.
func (m *Mesh) Normals(location Location) []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch location {
	case FaceLocation:
		return m.faceNormalsLocked()
	case VertexLocation:
		return m.vertexNormalsLocked()
	default:
		panic(fmt.Sprintf("mesh: unknown normal location %d", int(location)))
	}
}

func (m *Mesh) faceNormalsLocked() []float32 {
	if m.faceNormals == nil {
		normals := make([]float32, 0, 3*len(m.faces))
		for i := range m.faces {
			n := m.faces[i].Normal(m)
			normals = append(normals, n.X, n.Y, n.Z)
		}
		m.faceNormals = normals
	}
	return m.faceNormals
}

func (m *Mesh) vertexNormalsLocked() []float32 {
	if m.vertexNormals == nil {
		faceNormals := m.faceNormalsLocked()
		normals := make([]float32, 0, 3*len(m.vertices))
		for i := range m.vertices {
			var sum geometry.Vector3
			for _, f := range m.vertices[i].faces {
				sum = sum.Add(geometry.NewVector3(faceNormals[3*f], faceNormals[3*f+1], faceNormals[3*f+2]))
			}
			n := sum.Normalize()
			normals = append(normals, n.X, n.Y, n.Z)
		}
		m.vertexNormals = normals
	}
	return m.vertexNormals
}

// ByteLength returns the size in bytes of a buffer returned by VertexData,
// ConnectivityData or Normals.
func ByteLength[T float32 | uint32](buffer []T) int {
	return 4 * len(buffer)
}

// SetOctreeOptions sets the options used the next time the octree is built
// and drops the current one.
func (m *Mesh) SetOctreeOptions(options octree.Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.octreeOptions = options
	m.tree = nil
}

// Octree returns the spatial index over the vertices, building it on first use.
// It is rebuilt from scratch after any mutation.
func (m *Mesh) Octree() *octree.Octree {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tree == nil {
		m.tree = octree.New(lockedPoints{m}, m.octreeOptions)
	}
	return m.tree
}

// lockedPoints exposes the mesh to the octree while m.mu is already held
type lockedPoints struct {
	m *Mesh
}

func (p lockedPoints) NumberOfVertices() int                 { return len(p.m.vertices) }
func (p lockedPoints) VertexPosition(i int) geometry.Vector3 { return p.m.vertices[i].position }
func (p lockedPoints) Bounds() geometry.Bounds               { return p.m.boundsLocked() }

// SetSTLHeader sets the header text written by the STL export
func (m *Mesh) SetSTLHeader(header string) {
	m.header = header
}

// Clone returns a deep copy of the vertices and faces. Derived data is not copied.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		vertices:      make([]Vertex, len(m.vertices)),
		faces:         make([]Face, len(m.faces)),
		header:        m.header,
		octreeOptions: m.octreeOptions,
	}
	for i, v := range m.vertices {
		c.vertices[i] = Vertex{position: v.position, faces: slices.Clone(v.faces)}
	}
	for i, f := range m.faces {
		c.faces[i] = Face{ids: slices.Clone(f.ids)}
	}
	return c
}
