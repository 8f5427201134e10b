package scene

import (
	"fmt"
	"sync"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/geometry"
)

// Scene is a collection of shapes together with the rays to cast against them.
// Shapes are only changed through Add and SetShape, which drop the cached
// hierarchy, so Raycast always answers for the current geometry.
// All methods are safe for concurrent use.
type Scene struct {
	Name string
	Rays []core.Ray // Rays supplied with the scene, if any

	mu     sync.Mutex
	shapes []geometry.Shape
	bvh    *BVH
}

// Hit is the nearest intersection of a ray with a scene
type Hit struct {
	geometry.RaycastResult
	ShapeIndex int // Position of the shape that was hit, in the order it was added
}

// NewScene creates an empty scene
func NewScene(name string) *Scene {
	return &Scene{Name: name}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shapes = append(s.shapes, shapes...)
	s.bvh = nil
}

// SetShape replaces the shape at index
func (s *Scene) SetShape(index int, shape geometry.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.shapes) {
		return fmt.Errorf("shape index %d out of range [0, %d)", index, len(s.shapes))
	}
	s.shapes[index] = shape
	s.bvh = nil
	return nil
}

// Shapes returns a copy of the shapes in the order they were added
func (s *Scene) Shapes() []geometry.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]geometry.Shape(nil), s.shapes...)
}

// BoundingBox returns the box enclosing every shape. ok is false for an empty scene.
func (s *Scene) BoundingBox() (box core.AABB, ok bool) {
	shapes := s.Shapes()
	if len(shapes) == 0 {
		return core.AABB{}, false
	}
	box = shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		box = box.Union(shape.BoundingBox())
	}
	return box, true
}

// Raycast returns the nearest hit across all shapes.
// When two shapes are hit at the same distance the earlier one wins.
func (s *Scene) Raycast(ray core.Ray) (Hit, bool) {
	if ray.IsDegenerate() {
		return Hit{}, false
	}

	hit, ok := s.GetBVH().Raycast(ray)
	if !ok {
		return Hit{}, false
	}
	return hit, true
}

// GetBVH returns the hierarchy over the current shapes, building it on first
// use after the shapes changed
func (s *Scene) GetBVH() *BVH {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bvh == nil {
		s.bvh = NewBVH(s.shapes)
	}
	return s.bvh
}

// GetPrimitiveCount returns the number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.shapes)
}
