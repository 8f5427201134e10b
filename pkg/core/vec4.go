package core

// Vec4 represents a homogeneous 4D vector
type Vec4 struct {
	X, Y, Z, W float64
}

// NewVec4 creates a new Vec4
func NewVec4(x, y, z, w float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// NewPoint lifts a position into homogeneous coordinates (w = 1)
func NewPoint(v Vec3) Vec4 {
	return Vec4{v.X, v.Y, v.Z, 1}
}

// NewDirection lifts a direction into homogeneous coordinates (w = 0)
func NewDirection(v Vec3) Vec4 {
	return Vec4{v.X, v.Y, v.Z, 0}
}

// Vec3 drops the w component
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Dot returns the dot product of two vectors
func (v Vec4) Dot(other Vec4) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z + v.W*other.W
}

// PerspectiveDivide returns (x/w, y/w, z/w). Directions (w = 0) are returned unchanged.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.Vec3()
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}
