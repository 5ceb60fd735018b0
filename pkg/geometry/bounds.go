package geometry

import "github.com/chewxy/math32"

// Bounds represents an axis-aligned bounding box
type Bounds struct {
	Min Vector3
	Max Vector3
}

// NewBounds creates an empty bounding box.
// Min is +Inf and Max is -Inf on every axis so that the first Extend
// collapses the box onto that point.
func NewBounds() Bounds {
	inf := math32.Inf(1)
	return Bounds{
		Min: Vector3{X: inf, Y: inf, Z: inf},
		Max: Vector3{X: -inf, Y: -inf, Z: -inf},
	}
}

// NewBoundsFromPoints creates the smallest bounding box holding all points
func NewBoundsFromPoints(points ...Vector3) Bounds {
	b := NewBounds()
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// Extend expands the bounding box to include a point
func (b *Bounds) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// IsEmpty reports whether the box holds no point, i.e. min exceeds max on some axis
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns the dimensions of the bounding box
func (b Bounds) Size() Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b Bounds) Center() Vector3 {
	return Vector3{
		X: (b.Min.X + b.Max.X) * 0.5,
		Y: (b.Min.Y + b.Max.Y) * 0.5,
		Z: (b.Min.Z + b.Max.Z) * 0.5,
	}
}

// Diagonal returns the length of the bounding box diagonal
func (b Bounds) Diagonal() float32 {
	size := b.Size()
	return size.Length()
}

// Volume returns the volume of the bounding box
func (b Bounds) Volume() float32 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// Expand returns the box grown by d on every side
func (b Bounds) Expand(d float32) Bounds {
	delta := Vector3{X: d, Y: d, Z: d}
	return Bounds{Min: b.Min.Sub(delta), Max: b.Max.Add(delta)}
}

// Contains reports whether the point lies inside the box.
// Both faces of every slab are inclusive and compared within Tolerance,
// so a point sitting exactly on a face shared by two boxes is inside both.
func (b Bounds) Contains(p Vector3) bool {
	return IsGreaterOrEqual(p.X, b.Min.X) && IsLessOrEqual(p.X, b.Max.X) &&
		IsGreaterOrEqual(p.Y, b.Min.Y) && IsLessOrEqual(p.Y, b.Max.Y) &&
		IsGreaterOrEqual(p.Z, b.Min.Z) && IsLessOrEqual(p.Z, b.Max.Z)
}
