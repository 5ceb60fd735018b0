// Package octree implements a spatial index over a fixed set of 3D points.
//
// The tree is built once and never updated. Leaf octants hold the indices of
// the points inside them and every point lives in exactly one leaf, so a leaf
// is a cheap candidate set for proximity queries such as duplicate detection.
package octree

import (
	"fmt"
	"log/slog"

	"github.com/philipparndt/gomesh/pkg/geometry"
)

// DefaultMaxVerticesPerOctant is the subdivision threshold used when none is given
const DefaultMaxVerticesPerOctant = 100

// DefaultMaxDepth bounds the number of tree levels, root included.
// Below this depth float32 boxes are too small to split any further.
const DefaultMaxDepth = 16

// noChildren marks a leaf octant in the arena
const noChildren = -1

// PointSet is the read-only view of the points an Octree indexes
type PointSet interface {
	NumberOfVertices() int
	VertexPosition(i int) geometry.Vector3
	Bounds() geometry.Bounds
}

// Options controls octree construction
type Options struct {
	// MaxVerticesPerOctant is the largest vertex count a leaf may hold
	// before it is split into eight children.
	MaxVerticesPerOctant int

	// MaxDepth is the largest number of levels in the tree. Octants at
	// this depth stay leaves regardless of their vertex count.
	MaxDepth int
}

// DefaultOptions returns the default construction options
func DefaultOptions() Options {
	return Options{
		MaxVerticesPerOctant: DefaultMaxVerticesPerOctant,
		MaxDepth:             DefaultMaxDepth,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxVerticesPerOctant <= 0 {
		o.MaxVerticesPerOctant = DefaultMaxVerticesPerOctant
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// octant is one node of the tree. Children of an internal octant are stored
// contiguously in the arena starting at firstChild, in Position order.
type octant struct {
	bounds     geometry.Bounds
	level      int
	firstChild int
	vertices   []uint32
}

func (o *octant) isLeaf() bool {
	return o.firstChild == noChildren
}

// Octree is an immutable spatial index over a PointSet.
// All octants live in a single arena and refer to each other by index.
type Octree struct {
	points  PointSet
	options Options
	octants []octant
	depth   int

	// claimed[level][v] records that vertex v was already assigned to an
	// octant at that level. Only used during construction.
	claimed [][]bool
}

// Leaf is a read-only view of a leaf octant
type Leaf struct {
	ID       int
	Level    int
	Bounds   geometry.Bounds
	Vertices []uint32
}

// New builds an octree over points.
// The root octant covers points.Bounds() and starts with every vertex index;
// it is then subdivided recursively until every leaf holds at most
// MaxVerticesPerOctant vertices or MaxDepth is reached.
func New(points PointSet, options Options) *Octree {
	options = options.withDefaults()

	numVertices := points.NumberOfVertices()
	root := octant{
		bounds:     points.Bounds(),
		level:      0,
		firstChild: noChildren,
		vertices:   make([]uint32, numVertices),
	}
	for i := range root.vertices {
		root.vertices[i] = uint32(i)
	}

	t := &Octree{
		points:  points,
		options: options,
		octants: []octant{root},
		depth:   1,
	}
	t.subdivide(0)
	t.claimed = nil

	slog.Debug("octree built",
		"vertices", numVertices,
		"octants", len(t.octants),
		"depth", t.depth,
		"maxVerticesPerOctant", options.MaxVerticesPerOctant)

	return t
}

// subdivide splits the octant at id into eight children when it holds too
// many vertices, hands its vertices down and recurses into the children.
func (t *Octree) subdivide(id int) {
	o := &t.octants[id]
	if len(o.vertices) <= t.options.MaxVerticesPerOctant {
		return
	}
	if o.level+1 >= t.options.MaxDepth {
		slog.Debug("octree depth limit reached", "level", o.level, "vertices", len(o.vertices))
		return
	}

	level := o.level + 1
	if level+1 > t.depth {
		t.depth = level + 1
	}
	parentBounds := o.bounds
	parentVertices := o.vertices

	firstChild := len(t.octants)
	for _, pos := range positions {
		child := octant{
			bounds:     childBounds(parentBounds, pos),
			level:      level,
			firstChild: noChildren,
		}
		child.vertices = t.populate(&child, parentVertices)
		t.octants = append(t.octants, child)
	}

	// Points no child box accepts (non-finite coordinates) stay in the
	// first child so that no vertex is dropped from the index.
	claimed := t.claimedAt(level)
	for _, v := range parentVertices {
		if !claimed[v] {
			claimed[v] = true
			first := &t.octants[firstChild]
			first.vertices = append(first.vertices, v)
			slog.Warn("vertex outside every child octant", "vertex", v, "level", level)
		}
	}

	// Appending may have moved the arena
	o = &t.octants[id]
	o.firstChild = firstChild
	o.vertices = nil

	for i := range positions {
		t.subdivide(firstChild + i)
	}
}

// populate returns the parent vertices that fall inside child and have not
// been claimed by a sibling yet. The first sibling to claim a vertex on a
// shared face keeps it, so each vertex lands in exactly one child.
func (t *Octree) populate(child *octant, parentVertices []uint32) []uint32 {
	claimed := t.claimedAt(child.level)
	vertices := make([]uint32, 0, len(parentVertices))
	for _, v := range parentVertices {
		if claimed[v] {
			continue
		}
		if t.hasVertex(child.bounds, v) {
			claimed[v] = true
			vertices = append(vertices, v)
		}
	}
	return vertices[:len(vertices):len(vertices)]
}

func (t *Octree) claimedAt(level int) []bool {
	for len(t.claimed) <= level {
		t.claimed = append(t.claimed, nil)
	}
	if t.claimed[level] == nil {
		t.claimed[level] = make([]bool, t.points.NumberOfVertices())
	}
	return t.claimed[level]
}

// hasVertex reports whether the vertex lies inside bounds using
// tolerance-aware inclusive comparisons on all three axes.
func (t *Octree) hasVertex(bounds geometry.Bounds, vertexIndex uint32) bool {
	return bounds.Contains(t.points.VertexPosition(int(vertexIndex)))
}

// NeighboringVertices returns a copy of the vertex list of the leaf octant
// that owns vertexIndex, the query vertex included.
//
// Leaves are scanned linearly. A vertex on a face shared by two leaves passes
// the bounds test for both, so ownership is confirmed against the leaf's list.
// Panics if no leaf owns the vertex: the tree is built over every vertex, so
// that can only happen for an index outside the indexed point set.
func (t *Octree) NeighboringVertices(vertexIndex int) []uint32 {
	if vertexIndex < 0 || vertexIndex >= t.points.NumberOfVertices() {
		panic(fmt.Sprintf("octree: vertex index %d out of range [0, %d)", vertexIndex, t.points.NumberOfVertices()))
	}
	v := uint32(vertexIndex)
	for i := range t.octants {
		o := &t.octants[i]
		if !o.isLeaf() || len(o.vertices) == 0 {
			continue
		}
		if !t.hasVertex(o.bounds, v) {
			continue
		}
		for _, candidate := range o.vertices {
			if candidate == v {
				neighbors := make([]uint32, len(o.vertices))
				copy(neighbors, o.vertices)
				return neighbors
			}
		}
	}
	panic(fmt.Sprintf("octree: no leaf octant owns vertex %d", vertexIndex))
}

// NearbyVertices returns the vertices of every leaf whose bounds, grown by
// geometry.Tolerance, contain vertexIndex. This includes the leaf that owns
// the vertex, and also the leaves across a split plane that may hold points
// equal to it within Tolerance.
func (t *Octree) NearbyVertices(vertexIndex int) []uint32 {
	if vertexIndex < 0 || vertexIndex >= t.points.NumberOfVertices() {
		panic(fmt.Sprintf("octree: vertex index %d out of range [0, %d)", vertexIndex, t.points.NumberOfVertices()))
	}
	p := t.points.VertexPosition(vertexIndex)

	var nearby []uint32
	stack := []int{RootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		o := &t.octants[id]
		if !o.bounds.Expand(geometry.Tolerance).Contains(p) {
			continue
		}
		if o.isLeaf() {
			nearby = append(nearby, o.vertices...)
			continue
		}
		for i := range positions {
			stack = append(stack, o.firstChild+i)
		}
	}
	return nearby
}

// Leaves returns every leaf octant that holds at least one vertex
func (t *Octree) Leaves() []Leaf {
	var leaves []Leaf
	for i := range t.octants {
		o := &t.octants[i]
		if o.isLeaf() && len(o.vertices) > 0 {
			leaves = append(leaves, Leaf{
				ID:       i,
				Level:    o.level,
				Bounds:   o.bounds,
				Vertices: o.vertices,
			})
		}
	}
	return leaves
}

// Contains reports whether the vertex lies inside the bounds of the given octant
func (t *Octree) Contains(octantID, vertexIndex int) bool {
	return t.hasVertex(t.octants[octantID].bounds, uint32(vertexIndex))
}

// Children returns the arena ids of the eight children of an octant, or nil for a leaf
func (t *Octree) Children(octantID int) []int {
	o := &t.octants[octantID]
	if o.isLeaf() {
		return nil
	}
	children := make([]int, len(positions))
	for i := range children {
		children[i] = o.firstChild + i
	}
	return children
}

// OctantBounds returns the bounds of an octant
func (t *Octree) OctantBounds(octantID int) geometry.Bounds {
	return t.octants[octantID].bounds
}

// OctantVertices returns the vertex list of an octant; empty for internal octants
func (t *Octree) OctantVertices(octantID int) []uint32 {
	return t.octants[octantID].vertices
}

// RootID is the arena id of the root octant
const RootID = 0

// RootBounds returns the bounds of the root octant
func (t *Octree) RootBounds() geometry.Bounds {
	return t.octants[RootID].bounds
}

// RootVertices returns the vertex list of the root octant.
// It is empty once the root has been subdivided.
func (t *Octree) RootVertices() []uint32 {
	return t.octants[RootID].vertices
}

// Depth returns the number of levels in the tree, root included
func (t *Octree) Depth() int {
	return t.depth
}

// NumberOfOctants returns the number of octants in the arena
func (t *Octree) NumberOfOctants() int {
	return len(t.octants)
}

// Options returns the options the tree was built with
func (t *Octree) Options() Options {
	return t.options
}
