package analysis

import (
	"sort"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

// FaceInfo describes the geometry of a single face
type FaceInfo struct {
	Index     int
	Area      float64
	Perimeter float64
	Normal    geometry.Vector3
	Centroid  geometry.Vector3
	Vertices  []geometry.Vector3
}

// FaceSummary aggregates face areas over a mesh
type FaceSummary struct {
	Faces     []FaceInfo
	TotalArea float64
	MinArea   float64
	MaxArea   float64
}

// AvgArea returns the mean face area, zero for a mesh without faces
func (s *FaceSummary) AvgArea() float64 {
	if len(s.Faces) == 0 {
		return 0
	}
	return s.TotalArea / float64(len(s.Faces))
}

// AnalyzeFaces measures every face of m in index order.
// Polygon areas are the sum of their fan triangles.
func AnalyzeFaces(m *mesh.Mesh) *FaceSummary {
	summary := &FaceSummary{Faces: make([]FaceInfo, 0, m.NumberOfFaces())}

	for i, face := range m.Faces() {
		ids := face.VertexIDs()
		info := FaceInfo{
			Index:    i,
			Normal:   face.Normal(m),
			Centroid: face.Centroid(m),
			Vertices: make([]geometry.Vector3, len(ids)),
		}
		for k, id := range ids {
			info.Vertices[k] = m.VertexPosition(int(id))
		}
		for k := 1; k+1 < len(ids); k++ {
			info.Area += float64(geometry.NewTriangle(info.Vertices[0], info.Vertices[k], info.Vertices[k+1]).Area())
		}
		if len(ids) > 1 {
			for k := range ids {
				info.Perimeter += DistanceBetweenPoints(info.Vertices[k], info.Vertices[(k+1)%len(ids)])
			}
		}

		if i == 0 || info.Area < summary.MinArea {
			summary.MinArea = info.Area
		}
		if info.Area > summary.MaxArea {
			summary.MaxArea = info.Area
		}
		summary.TotalArea += info.Area
		summary.Faces = append(summary.Faces, info)
	}
	return summary
}

// FindLargestFaces returns up to count faces ordered by decreasing area
func FindLargestFaces(summary *FaceSummary, count int) []FaceInfo {
	return sortedFaces(summary, count, func(a, b FaceInfo) bool { return a.Area > b.Area })
}

// FindSmallestFaces returns up to count faces ordered by increasing area
func FindSmallestFaces(summary *FaceSummary, count int) []FaceInfo {
	return sortedFaces(summary, count, func(a, b FaceInfo) bool { return a.Area < b.Area })
}

func sortedFaces(summary *FaceSummary, count int, less func(a, b FaceInfo) bool) []FaceInfo {
	faces := make([]FaceInfo, len(summary.Faces))
	copy(faces, summary.Faces)

	sort.SliceStable(faces, func(i, j int) bool {
		return less(faces[i], faces[j])
	})

	return faces[:max(0, min(count, len(faces)))]
}
