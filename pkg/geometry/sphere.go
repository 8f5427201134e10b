package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-raycast/pkg/core"
)

var (
	// ErrInvalidRadius is returned for a negative, NaN or infinite radius
	ErrInvalidRadius = errors.New("sphere radius must be a finite, non-negative number")
	// ErrInvalidCenter is returned for a center with NaN or infinite components
	ErrInvalidCenter = errors.New("sphere center must have finite components")
)

// DefaultColor is the color given to spheres created without one
var DefaultColor = core.NewVec3(1, 1, 1)

// Sphere represents an implicit sphere.
// Center and radius are fixed at construction so a Sphere is always valid.
type Sphere struct {
	center core.Vec3
	radius float64
	Color  core.Vec3 // Used by callers for shading, ignored by intersection
}

// NewSphere creates a new sphere. A radius of zero is allowed and describes a point.
func NewSphere(center core.Vec3, radius float64) (*Sphere, error) {
	if !center.IsFinite() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCenter, center)
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}
	return &Sphere{
		center: center,
		radius: radius,
		Color:  DefaultColor,
	}, nil
}

// Center returns the center of the sphere
func (s *Sphere) Center() core.Vec3 {
	return s.center
}

// Radius returns the radius of the sphere
func (s *Sphere) Radius() float64 {
	return s.radius
}

// Raycast tests if a ray intersects the sphere.
//
// Only intersections at or in front of the ray origin count. When the origin
// is outside the sphere the nearer surface is reported; when it is inside,
// the exit point is reported. Rays with a zero or non-finite direction never hit.
func (s *Sphere) Raycast(ray core.Ray) RaycastResult {
	if ray.IsDegenerate() {
		return RaycastResult{}
	}

	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.radius*s.radius

	// Overflow in the coefficients would turn the roots into NaN
	if math.IsInf(a, 0) || math.IsInf(b, 0) || math.IsInf(c, 0) {
		return RaycastResult{}
	}

	// b*b and 4*a*c can both overflow, leaving Inf-Inf
	discriminant := b*b - 4*a*c
	if discriminant < 0 || math.IsNaN(discriminant) || math.IsInf(discriminant, 0) {
		return RaycastResult{}
	}

	sqrtD := math.Sqrt(discriminant)
	near := (-b - sqrtD) / (2 * a)
	far := (-b + sqrtD) / (2 * a)

	// near <= far, so checking far first finds the sphere-behind-ray case
	var t float64
	switch {
	case far < 0:
		return RaycastResult{}
	case near >= 0:
		t = near
	default:
		t = far
	}

	point := ray.At(t)
	normal := point.Subtract(s.center).Normalize()
	distance := t * math.Sqrt(a)
	if !point.IsFinite() || !normal.IsFinite() || !isFinite(t) || !isFinite(distance) {
		return RaycastResult{}
	}

	return RaycastResult{
		Hit:       true,
		Point:     point,
		Normal:    normal,
		Distance:  distance,
		T:         t,
		FrontFace: near >= 0,
	}
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.radius, s.radius, s.radius)
	return core.NewAABB(
		s.center.Subtract(radius),
		s.center.Add(radius),
	)
}

func (s *Sphere) String() string {
	return fmt.Sprintf("sphere(center=%v, radius=%g)", s.center, s.radius)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
