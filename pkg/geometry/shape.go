package geometry

import "github.com/df07/go-raycast/pkg/core"

// RaycastResult describes the outcome of a single ray test.
// When Hit is false every other field is the zero value.
type RaycastResult struct {
	Hit       bool
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit outward surface normal at Point
	Distance  float64   // Euclidean distance from the ray origin to Point
	T         float64   // Parameter along the ray, Point = Origin + T*Direction
	FrontFace bool      // False when the ray started inside the shape
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	Raycast(ray core.Ray) RaycastResult
	BoundingBox() core.AABB
}
