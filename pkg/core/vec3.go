package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroVector is returned by operations that are undefined for a zero-length vector
var ErrZeroVector = errors.New("zero-length vector")

// Vec3 represents a 3D vector.
//
// Vec3 is a value type: every method returns a new vector and never modifies
// its receiver or arguments.
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{
		X: -v.X,
		Y: -v.Y,
		Z: -v.Z,
	}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction.
// The zero vector has no direction and normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Rescale returns a vector in the same direction with the given length.
// The zero vector rescales to itself.
func (v Vec3) Rescale(newLength float64) Vec3 {
	return v.Normalize().Multiply(newLength)
}

// IsZero reports whether all components are exactly zero
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsFinite reports whether no component is NaN or infinite
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// DistanceTo returns the distance between two points
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Subtract(other).Length()
}

// Reflect returns the vector reflected about a unit normal
func (v Vec3) Reflect(normal Vec3) Vec3 {
	return v.Subtract(normal.Multiply(2 * v.Dot(normal)))
}

// ApproxEqual reports whether every component differs by at most epsilon
func (v Vec3) ApproxEqual(other Vec3, epsilon float64) bool {
	return math.Abs(v.X-other.X) <= epsilon &&
		math.Abs(v.Y-other.Y) <= epsilon &&
		math.Abs(v.Z-other.Z) <= epsilon
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// FromTo returns the vector that goes from one point to another
func FromTo(from, to Vec3) Vec3 {
	return to.Subtract(from)
}

// Angle returns the angle between two vectors in degrees.
// The angle is undefined when either vector has zero length.
func Angle(v1, v2 Vec3) (float64, error) {
	denominator := v1.Length() * v2.Length()
	if denominator == 0 {
		return 0, ErrZeroVector
	}

	// Rounding can push the cosine slightly outside acos's domain
	cosine := max(-1.0, min(1.0, v1.Dot(v2)/denominator))
	return math.Acos(cosine) * 180 / math.Pi, nil
}

// Project returns the component of v along the direction of onto.
// Projecting onto the zero vector yields the zero vector.
func Project(v, onto Vec3) Vec3 {
	lengthSquared := onto.LengthSquared()
	if lengthSquared == 0 {
		return Vec3{}
	}
	return onto.Multiply(v.Dot(onto) / lengthSquared)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
