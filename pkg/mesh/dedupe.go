package mesh

import "log/slog"

// RemoveDuplicateVertices welds vertices that sit at the same point within
// geometry.Tolerance and returns how many vertices were removed.
//
// Candidates are taken from the octree leaves around each vertex, including
// neighbouring leaves within the tolerance of a split plane. Every cluster of
// equal vertices collapses onto its lowest index, the surviving vertices keep
// their relative order and faces are rewritten to the new indices. All
// derived data and the octree are dropped afterwards.
func (m *Mesh) RemoveDuplicateVertices() int {
	n := len(m.vertices)
	if n == 0 {
		return 0
	}

	tree := m.Octree()

	sets := newDisjointSet(n)
	duplicate := make([]bool, n)
	for i := 0; i < n; i++ {
		if duplicate[i] {
			continue
		}
		for _, j := range tree.NearbyVertices(i) {
			if int(j) == i || duplicate[j] {
				continue
			}
			if m.vertices[i].Equal(m.vertices[j]) {
				sets.union(uint32(i), j)
				duplicate[j] = true
			}
		}
	}

	remap, kept := sets.compact()
	removed := n - kept
	if removed == 0 {
		slog.Debug("no duplicate vertices found", "vertices", n)
		return 0
	}

	vertices := make([]Vertex, kept)
	for v := 0; v < n; v++ {
		if sets.find(uint32(v)) == uint32(v) {
			vertices[remap[v]].position = m.vertices[v].position
		}
	}
	for f := range m.faces {
		ids := make([]uint32, len(m.faces[f].ids))
		for k, id := range m.faces[f].ids {
			ids[k] = remap[id]
			vertices[ids[k]].addFace(uint32(f))
		}
		m.faces[f].ids = ids
	}
	m.vertices = vertices
	m.invalidate()

	slog.Debug("removed duplicate vertices", "removed", removed, "remaining", kept)
	return removed
}

// disjointSet groups vertex indices into clusters of equal vertices.
// The root of every cluster is its smallest index.
type disjointSet struct {
	parent []uint32
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]uint32, n)
	for i := range parent {
		parent[i] = uint32(i)
	}
	return &disjointSet{parent: parent}
}

func (s *disjointSet) find(v uint32) uint32 {
	root := v
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for s.parent[v] != root {
		next := s.parent[v]
		s.parent[v] = root
		v = next
	}
	return root
}

func (s *disjointSet) union(a, b uint32) {
	ra, rb := s.find(a), s.find(b)
	switch {
	case ra < rb:
		s.parent[rb] = ra
	case rb < ra:
		s.parent[ra] = rb
	}
}

// compact returns the new index of every vertex once all non-root vertices
// are dropped, and the number of roots. Roots are numbered in index order;
// every other vertex takes the new index of its root, which is always lower
// and therefore already numbered.
func (s *disjointSet) compact() ([]uint32, int) {
	remap := make([]uint32, len(s.parent))
	next := uint32(0)
	for v := range s.parent {
		root := s.find(uint32(v))
		if root == uint32(v) {
			remap[v] = next
			next++
		} else {
			remap[v] = remap[root]
		}
	}
	return remap, int(next)
}
