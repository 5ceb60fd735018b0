package geometry

import (
	"math"
	"testing"
)

func TestTriangleArea(t *testing.T) {
	// Create a right triangle with sides 3, 4, 5
	tri := NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	area := tri.Area()
	expected := 6.0 // (3 * 4) / 2 = 6

	if math.Abs(float64(area)-expected) > 1e-6 {
		t.Errorf("Area failed: expected %v, got %v", expected, area)
	}
}

func TestTriangleEdgeLengths(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	lengths := tri.EdgeLengths()

	// Expected lengths: 3, 5, 4 (Pythagorean triple)
	if math.Abs(float64(lengths[0])-3.0) > 1e-6 {
		t.Errorf("Edge 0 length failed: expected 3.0, got %v", lengths[0])
	}
	if math.Abs(float64(lengths[1])-5.0) > 1e-6 {
		t.Errorf("Edge 1 length failed: expected 5.0, got %v", lengths[1])
	}
	if math.Abs(float64(lengths[2])-4.0) > 1e-6 {
		t.Errorf("Edge 2 length failed: expected 4.0, got %v", lengths[2])
	}
}

func TestTrianglePerimeter(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	perimeter := tri.Perimeter()
	expected := 12.0 // 3 + 4 + 5 = 12

	if math.Abs(float64(perimeter)-expected) > 1e-6 {
		t.Errorf("Perimeter failed: expected %v, got %v", expected, perimeter)
	}
}

func TestTriangleCenter(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 3, 0),
	)

	center := tri.Center()
	expected := NewVector3(1, 1, 0)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestTriangleNormal(t *testing.T) {
	tri := NewTriangle(
		NewVector3(5, 0, 0),
		NewVector3(5, 5, 0),
		NewVector3(-5, 5, 0),
	)

	normal := tri.Normal()
	if !normal.ApproxEqual(NewVector3(0, 0, 1)) {
		t.Errorf("Normal failed: expected (0, 0, 1), got %v", normal)
	}

	collinear := NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(1, 0, 0),
		NewVector3(2, 0, 0),
	)
	if n := collinear.Normal(); !n.IsZero() {
		t.Errorf("Collinear triangle should have a zero normal, got %v", n)
	}
}

func TestTriangleSignedVolume(t *testing.T) {
	// Unit corner tetrahedron, counter-clockwise seen from outside
	tri := NewTriangle(
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
		NewVector3(0, 0, 1),
	)

	volume := tri.SignedVolume()
	expected := 1.0 / 6.0

	if math.Abs(volume-expected) > 1e-6 {
		t.Errorf("SignedVolume failed: expected %v, got %v", expected, volume)
	}
}
