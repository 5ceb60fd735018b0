package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitCircleTilted(t *testing.T) {
	// radius 2 around (1, 2, 3) in the plane x = y
	center := geometry.NewVector3(1, 2, 3)
	u := geometry.NewVector3(1, 1, 0).Normalize()
	w := geometry.NewVector3(0, 0, 1)

	var points []geometry.Vector3
	for i := range 7 {
		angle := float64(i) * math.Pi / 8
		p := center.
			Add(u.Mul(float32(2 * math.Cos(angle)))).
			Add(w.Mul(float32(2 * math.Sin(angle))))
		points = append(points, p)
	}

	fit, err := FitCircle(points)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fit.Radius, 1e-5)
	assert.Less(t, fit.Center.Distance(center), float32(1e-5), "center %v", fit.Center)
	assert.InDelta(t, 0, fit.StdDev, 1e-5)

	want := u.Cross(w).Normalize()
	assert.InDelta(t, 1, math.Abs(float64(fit.Normal.Dot(want))), 1e-5)
}

func TestFitCircleDeviation(t *testing.T) {
	points := []geometry.Vector3{
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1.5, 0),
		geometry.NewVector3(0, 1, 0),
		geometry.NewVector3(0.5, 0.5, 0),
		geometry.NewVector3(-1, 0, 0),
	}
	fit, err := FitCircle(points)
	require.NoError(t, err)
	assert.InDelta(t, 1, fit.Radius, 1e-6)
	assert.Positive(t, fit.StdDev)
}

func TestFitCircleErrors(t *testing.T) {
	_, err := FitCircle([]geometry.Vector3{{}, {X: 1}})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = FitCircle([]geometry.Vector3{{}, {X: 1}, {X: 2}})
	assert.ErrorIs(t, err, ErrCollinear)
}
