package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

// EdgeInfo contains information about an edge of a face
type EdgeInfo struct {
	Start      geometry.Vector3
	End        geometry.Vector3
	StartIndex uint32
	EndIndex   uint32
	Length     float64
	FaceID     int
}

// MeasurementResult contains various measurements of a mesh
type MeasurementResult struct {
	Bounds        geometry.Bounds
	Dimensions    geometry.Vector3
	Centroid      geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	VertexCount   int
	FaceCount     int
	EdgeCount     int
	UniqueEdges   int
	BoundaryEdges int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo
}

// IsClosed reports whether every edge is shared by at least two faces.
// Only meaningful once duplicate vertices have been removed.
func (r *MeasurementResult) IsClosed() bool {
	return r.FaceCount > 0 && r.BoundaryEdges == 0
}

// AnalyzeMesh performs comprehensive analysis on a mesh.
// Polygons are fanned into triangles for area and volume.
func AnalyzeMesh(m *mesh.Mesh) *MeasurementResult {
	result := &MeasurementResult{
		Bounds:      m.Bounds(),
		Centroid:    m.Centroid(),
		VertexCount: m.NumberOfVertices(),
		FaceCount:   m.NumberOfFaces(),
		AllEdges:    make([]EdgeInfo, 0),
	}
	result.Dimensions = result.Bounds.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	signedVolume := 0.0
	edgeUse := make(map[[2]uint32]int)

	for f, face := range m.Faces() {
		ids := face.VertexIDs()
		n := len(ids)

		for k := 1; k+1 < n; k++ {
			tri := geometry.NewTriangle(
				m.VertexPosition(int(ids[0])),
				m.VertexPosition(int(ids[k])),
				m.VertexPosition(int(ids[k+1])),
			)
			result.SurfaceArea += float64(tri.Area())
			signedVolume += tri.SignedVolume()
		}

		// a two vertex face is a single edge, not a closed loop
		numEdges := n
		if n == 2 {
			numEdges = 1
		}
		for k := 0; k < numEdges; k++ {
			a, b := ids[k], ids[(k+1)%n]
			start, end := m.VertexPosition(int(a)), m.VertexPosition(int(b))
			length := float64(start.Distance(end))

			result.AllEdges = append(result.AllEdges, EdgeInfo{
				Start:      start,
				End:        end,
				StartIndex: a,
				EndIndex:   b,
				Length:     length,
				FaceID:     f,
			})

			totalLength += length
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}

			key := [2]uint32{a, b}
			if b < a {
				key = [2]uint32{b, a}
			}
			edgeUse[key]++
		}
	}

	result.Volume = math.Abs(signedVolume)
	result.EdgeCount = len(result.AllEdges)
	result.UniqueEdges = len(edgeUse)
	for _, uses := range edgeUse {
		if uses == 1 {
			result.BoundaryEdges++
		}
	}
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges in the mesh
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count < 0 {
		count = 0
	}
	if count > len(edges) {
		count = len(edges)
	}
	return edges[:count]
}

// DistanceBetweenPoints calculates the distance between two arbitrary points
func DistanceBetweenPoints(p1, p2 geometry.Vector3) float64 {
	return float64(p1.Distance(p2))
}

// FindNearestVertex returns the index of the vertex nearest to point and its
// distance. The index is -1 for a mesh without vertices.
func FindNearestVertex(m *mesh.Mesh, point geometry.Vector3) (int, float64) {
	nearest := -1
	minDistance := math.MaxFloat64

	for i := 0; i < m.NumberOfVertices(); i++ {
		distance := float64(point.Distance(m.VertexPosition(i)))
		if distance < minDistance {
			minDistance = distance
			nearest = i
		}
	}

	return nearest, minDistance
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
