package core

// Ray represents a ray with an origin and direction.
// The direction does not need to be normalized.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// IsDegenerate reports whether the ray has no usable direction
func (r Ray) IsDegenerate() bool {
	return r.Direction.IsZero() || !r.Direction.IsFinite() || !r.Origin.IsFinite()
}
