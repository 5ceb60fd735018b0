package geometry

import "github.com/chewxy/math32"

// Vector3 represents a 3D point or vector in single precision
type Vector3 struct {
	X, Y, Z float32
}

// NewVector3 creates a new 3D vector
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Mul multiplies the vector by a scalar
func (v Vector3) Mul(scalar float32) Vector3 {
	return Vector3{
		X: v.X * scalar,
		Y: v.Y * scalar,
		Z: v.Z * scalar,
	}
}

// Div divides the vector by a scalar. Dividing by zero yields the zero vector.
func (v Vector3) Div(scalar float32) Vector3 {
	if scalar == 0 {
		return Vector3{}
	}
	return v.Mul(1 / scalar)
}

// Dot returns the dot product of two vectors
func (v Vector3) Dot(other Vector3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude of the vector
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the distance between two points
func (v Vector3) Distance(other Vector3) float32 {
	return v.Sub(other).Length()
}

// Normalize returns a unit vector in the same direction.
// The zero vector (and anything too short to normalize) stays zero.
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 || math32.IsNaN(length) {
		return Vector3{}
	}
	return v.Mul(1.0 / length)
}

// Min returns a vector with the minimum components of two vectors
func (v Vector3) Min(other Vector3) Vector3 {
	return Vector3{
		X: math32.Min(v.X, other.X),
		Y: math32.Min(v.Y, other.Y),
		Z: math32.Min(v.Z, other.Z),
	}
}

// Max returns a vector with the maximum components of two vectors
func (v Vector3) Max(other Vector3) Vector3 {
	return Vector3{
		X: math32.Max(v.X, other.X),
		Y: math32.Max(v.Y, other.Y),
		Z: math32.Max(v.Z, other.Z),
	}
}

// ApproxEqual reports whether every component of the two vectors is equal within Tolerance
func (v Vector3) ApproxEqual(other Vector3) bool {
	return AreFloatsEqual(v.X, other.X) &&
		AreFloatsEqual(v.Y, other.Y) &&
		AreFloatsEqual(v.Z, other.Z)
}

// IsZero reports whether all components are exactly zero
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Array returns the components as an array, in x, y, z order
func (v Vector3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
