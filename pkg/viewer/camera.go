package viewer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/philipparndt/gomesh/pkg/geometry"
)

// maxPitch keeps the camera off the poles where the up vector degenerates
const maxPitch = math32.Pi/2 - 0.1

// Camera orbits a target point at a fixed distance
type Camera struct {
	Target   geometry.Vector3
	Distance float32
	// Yaw rotates about the Y axis, Pitch about the camera's X axis, in radians
	Yaw   float32
	Pitch float32
	// FOV is the vertical field of view in radians
	FOV float32
}

// NewCamera returns a camera looking at the center of bounds along -Z,
// far enough away for the whole box to fit the view.
func NewCamera(bounds geometry.Bounds) *Camera {
	size := bounds.Size()
	distance := max(size.X, size.Y, size.Z) * 2
	if distance == 0 {
		distance = 1
	}
	return &Camera{
		Target:   bounds.Center(),
		Distance: distance,
		FOV:      math32.Pi / 4,
	}
}

// Rotate changes pitch and yaw by the given angles, clamping the pitch
func (c *Camera) Rotate(deltaPitch, deltaYaw float32) {
	c.Pitch = max(-maxPitch, min(maxPitch, c.Pitch+deltaPitch))
	c.Yaw += deltaYaw
}

// Zoom scales the distance to the target by 1+delta
func (c *Camera) Zoom(delta float32) {
	c.Distance = max(0.01, c.Distance*(1+delta))
}

// Position returns the eye position on the orbit sphere
func (c *Camera) Position() geometry.Vector3 {
	offset := geometry.NewVector3(
		c.Distance*math32.Cos(c.Pitch)*math32.Sin(c.Yaw),
		c.Distance*math32.Sin(c.Pitch),
		c.Distance*math32.Cos(c.Pitch)*math32.Cos(c.Yaw),
	)
	return c.Target.Add(offset)
}

// ViewProjection returns the combined view and perspective matrix for an
// image with the given aspect ratio.
func (c *Camera) ViewProjection(aspect float32) mgl32.Mat4 {
	eye := c.Position()
	view := mgl32.LookAtV(
		mgl32.Vec3(eye.Array()),
		mgl32.Vec3(c.Target.Array()),
		mgl32.Vec3{0, 1, 0},
	)
	near := c.Distance / 100
	far := c.Distance * 100
	return mgl32.Perspective(c.FOV, aspect, near, far).Mul4(view)
}

// Project maps a world point to pixel coordinates with y pointing down and
// a depth in [-1, 1]. ok is false for points behind the camera.
func Project(viewProjection mgl32.Mat4, p geometry.Vector3, width, height int) (x, y, depth float32, ok bool) {
	clip := viewProjection.Mul4x1(mgl32.Vec4{p.X, p.Y, p.Z, 1})
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = (ndc.X() + 1) / 2 * float32(width)
	y = (1 - ndc.Y()) / 2 * float32(height)
	return x, y, ndc.Z(), true
}
