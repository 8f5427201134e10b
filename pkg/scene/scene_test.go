package scene

import (
	"math"
	"testing"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/geometry"
)

func newSphere(t *testing.T, x, y, z, radius float64) *geometry.Sphere {
	t.Helper()
	sphere, err := geometry.NewSphere(core.NewVec3(x, y, z), radius)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	return sphere
}

func TestScene_RaycastNearest(t *testing.T) {
	s := NewScene("row")
	s.Add(
		newSphere(t, 0, 0, -10, 1),
		newSphere(t, 0, 0, -5, 1),
		newSphere(t, 3, 0, -5, 1),
	)

	tests := []struct {
		name          string
		ray           core.Ray
		expectHit     bool
		expectedShape int
		expectedDist  float64
	}{
		{"nearest of two in line", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), true, 1, 4},
		{"only the far one from behind", core.NewRay(core.NewVec3(0, 0, -7.5), core.NewVec3(0, 0, -1)), true, 0, 1.5},
		{"offset sphere", core.NewRay(core.NewVec3(3, 0, 0), core.NewVec3(0, 0, -1)), true, 2, 4},
		{"outside scene bounds", core.NewRay(core.NewVec3(0, 50, 0), core.NewVec3(0, 0, -1)), false, -1, 0},
		{"pointing away", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), false, -1, 0},
		{"degenerate ray", core.NewRay(core.NewVec3(0, 0, 0), core.Vec3{}), false, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := s.Raycast(tt.ray)
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, ok)
			}
			if !ok {
				return
			}
			if hit.ShapeIndex != tt.expectedShape {
				t.Errorf("Expected shape %d, got %d", tt.expectedShape, hit.ShapeIndex)
			}
			if math.Abs(hit.Distance-tt.expectedDist) > 1e-9 {
				t.Errorf("Expected distance %f, got %f", tt.expectedDist, hit.Distance)
			}
		})
	}
}

func TestScene_RaycastTieKeepsFirst(t *testing.T) {
	s := NewScene("duplicates")
	s.Add(newSphere(t, 0, 0, -5, 1), newSphere(t, 0, 0, -5, 1))

	hit, ok := s.Raycast(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.ShapeIndex != 0 {
		t.Errorf("Expected the first shape to win a tie, got %d", hit.ShapeIndex)
	}
}

func TestScene_Empty(t *testing.T) {
	s := NewScene("empty")
	if _, ok := s.BoundingBox(); ok {
		t.Error("Empty scene should have no bounding box")
	}
	if _, ok := s.Raycast(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0))); ok {
		t.Error("Empty scene should never be hit")
	}
}

func TestScene_BoundingBox(t *testing.T) {
	s := NewScene("box")
	s.Add(newSphere(t, 0, 0, 0, 1), newSphere(t, 5, 5, 5, 2))

	box, ok := s.BoundingBox()
	if !ok {
		t.Fatal("Expected bounding box")
	}
	if box.Min != core.NewVec3(-1, -1, -1) || box.Max != core.NewVec3(7, 7, 7) {
		t.Errorf("Unexpected bounds %v - %v", box.Min, box.Max)
	}
	if s.GetPrimitiveCount() != 2 {
		t.Errorf("Expected 2 primitives, got %d", s.GetPrimitiveCount())
	}
}
