package octree

import "github.com/philipparndt/gomesh/pkg/geometry"

// Position identifies one of the eight children of an octant.
// Bottom/Top splits Y, Left/Right splits X and Back/Front splits Z.
type Position uint8

const (
	BottomLeftBack Position = iota
	BottomRightBack
	TopLeftBack
	TopRightBack
	BottomLeftFront
	BottomRightFront
	TopLeftFront
	TopRightFront
)

// positions lists the children in arena order
var positions = [8]Position{
	BottomLeftBack,
	BottomRightBack,
	TopLeftBack,
	TopRightBack,
	BottomLeftFront,
	BottomRightFront,
	TopLeftFront,
	TopRightFront,
}

func (p Position) right() bool { return p&1 != 0 }
func (p Position) top() bool   { return p&2 != 0 }
func (p Position) front() bool { return p&4 != 0 }

// String returns the position name
func (p Position) String() string {
	names := [...]string{
		"BottomLeftBack", "BottomRightBack", "TopLeftBack", "TopRightBack",
		"BottomLeftFront", "BottomRightFront", "TopLeftFront", "TopRightFront",
	}
	if int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// childBounds returns the box of the child at pos, splitting the parent at
// the midpoint of every axis.
func childBounds(parent geometry.Bounds, pos Position) geometry.Bounds {
	mid := parent.Center()
	child := parent

	if pos.right() {
		child.Min.X = mid.X
	} else {
		child.Max.X = mid.X
	}
	if pos.top() {
		child.Min.Y = mid.Y
	} else {
		child.Max.Y = mid.Y
	}
	if pos.front() {
		child.Min.Z = mid.Z
	} else {
		child.Max.Z = mid.Z
	}
	return child
}
