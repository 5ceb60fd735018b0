package analysis

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/gomesh/pkg/geometry"
)

var (
	// ErrTooFewPoints is returned when fewer than three points are given
	ErrTooFewPoints = errors.New("need at least 3 points to fit a circle")
	// ErrCollinear is returned when the sample points lie on a line
	ErrCollinear = errors.New("points are collinear")
)

// CircleFit is a circle in 3D space
type CircleFit struct {
	Center geometry.Vector3
	Radius float64
	// Normal is the unit normal of the circle's plane
	Normal geometry.Vector3
	// StdDev is the root mean square deviation of all points from the circle
	StdDev float64
}

// FitCircle returns the circle through the first, middle and last of points
// and how well the remaining points follow it. The points are expected to
// be ordered along an arc.
func FitCircle(points []geometry.Vector3) (*CircleFit, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}

	p1 := vec64(points[0])
	p2 := vec64(points[len(points)/2])
	p3 := vec64(points[len(points)-1])

	// circumcenter relative to p3
	a := p1.Sub(p3)
	b := p2.Sub(p3)
	axb := a.Cross(b)
	denom := 2 * axb.Dot(axb)
	if denom < 1e-20 {
		return nil, ErrCollinear
	}
	offset := b.Mul(a.Dot(a)).Sub(a.Mul(b.Dot(b))).Cross(axb).Mul(1 / denom)
	center := p3.Add(offset)
	radius := offset.Len()
	normal := axb.Normalize()

	var sum float64
	for _, p := range points {
		d := vec64(p).Sub(center)
		inPlane := d.Sub(normal.Mul(d.Dot(normal))).Len()
		outOfPlane := d.Dot(normal)
		e := inPlane - radius
		sum += e*e + outOfPlane*outOfPlane
	}

	return &CircleFit{
		Center: vec32(center),
		Radius: radius,
		Normal: vec32(normal),
		StdDev: math.Sqrt(sum / float64(len(points))),
	}, nil
}

func vec64(v geometry.Vector3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}

func vec32(v mgl64.Vec3) geometry.Vector3 {
	return geometry.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}
