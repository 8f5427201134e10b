package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/geometry"
)

// linearRaycast is the brute-force reference for the BVH
func linearRaycast(shapes []geometry.Shape, ray core.Ray) (Hit, bool) {
	closest := Hit{ShapeIndex: -1}
	for i, shape := range shapes {
		result := shape.Raycast(ray)
		if result.Hit && (closest.ShapeIndex < 0 || result.Distance < closest.Distance) {
			closest = Hit{RaycastResult: result, ShapeIndex: i}
		}
	}
	return closest, closest.ShapeIndex >= 0
}

func randomSpheres(t *testing.T, random *rand.Rand, n int) []geometry.Shape {
	t.Helper()
	shapes := make([]geometry.Shape, n)
	for i := range shapes {
		center := core.NewVec3(random.Float64()*40-20, random.Float64()*40-20, random.Float64()*40-20)
		shapes[i] = newSphere(t, center.X, center.Y, center.Z, random.Float64()*2)
	}
	return shapes
}

func TestBVH_MatchesLinearScan(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	shapes := randomSpheres(t, random, 300)
	bvh := NewBVH(shapes)

	for i := 0; i < 2000; i++ {
		origin := core.NewVec3(random.Float64()*60-30, random.Float64()*60-30, random.Float64()*60-30)
		direction := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)
		ray := core.NewRay(origin, direction)

		expected, expectedOK := linearRaycast(shapes, ray)
		got, ok := bvh.Raycast(ray)
		if ok != expectedOK {
			t.Fatalf("Ray %d: expected hit=%t, got %t", i, expectedOK, ok)
		}
		if ok && (got.ShapeIndex != expected.ShapeIndex || got.Distance != expected.Distance) {
			t.Fatalf("Ray %d: expected shape %d at %f, got shape %d at %f",
				i, expected.ShapeIndex, expected.Distance, got.ShapeIndex, got.Distance)
		}
	}
}

func TestBVH_TieKeepsLowestIndex(t *testing.T) {
	// Enough duplicates to force internal nodes
	var shapes []geometry.Shape
	for i := 0; i < 3*leafThreshold; i++ {
		shapes = append(shapes, newSphere(t, 0, 0, -5, 1))
	}
	shapes = append(shapes, newSphere(t, 100, 0, 0, 1))

	hit, ok := NewBVH(shapes).Raycast(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.ShapeIndex != 0 {
		t.Errorf("Expected shape 0 to win the tie, got %d", hit.ShapeIndex)
	}
}

func TestBVH_Structure(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	shapes := randomSpheres(t, random, 100)
	original := append([]geometry.Shape{}, shapes...)

	stats := NewBVH(shapes).getStats()
	if stats.totalShapes != 100 {
		t.Errorf("Expected 100 shapes in leaves, got %d", stats.totalShapes)
	}
	if stats.leafNodes < 100/leafThreshold {
		t.Errorf("Expected at least %d leaves, got %d", 100/leafThreshold, stats.leafNodes)
	}
	if stats.maxDepth > 10 {
		t.Errorf("Tree unexpectedly deep: %d", stats.maxDepth)
	}

	for i := range shapes {
		if shapes[i] != original[i] {
			t.Fatal("NewBVH reordered the input slice")
		}
	}

	empty := NewBVH(nil)
	if _, ok := empty.Raycast(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0))); ok {
		t.Error("Empty BVH should never be hit")
	}
	if empty.getStats() != (bvhStats{}) {
		t.Error("Empty BVH should have no nodes")
	}
}

func TestScene_BVHRebuiltAfterAdd(t *testing.T) {
	s := NewScene("grow")
	s.Add(newSphere(t, 0, 0, -10, 1))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	hit, ok := s.Raycast(ray)
	if !ok || hit.ShapeIndex != 0 {
		t.Fatalf("Expected shape 0, got %+v (%t)", hit, ok)
	}

	s.Add(newSphere(t, 0, 0, -5, 1))
	hit, ok = s.Raycast(ray)
	if !ok || hit.ShapeIndex != 1 {
		t.Fatalf("Expected the new nearer shape 1, got %+v (%t)", hit, ok)
	}
}

func TestBVH_TinyDirectionMatchesLinearScan(t *testing.T) {
	var shapes []geometry.Shape
	for i := 0; i < 3*leafThreshold; i++ {
		shapes = append(shapes, newSphere(t, float64(i)*3, float64(i%3), 0, 1))
	}
	bvh := NewBVH(shapes)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1e-13, 0, 0)),
		core.NewRay(core.NewVec3(-5, 1, 0), core.NewVec3(1e-150, 0, 0)),
		core.NewRay(core.NewVec3(30, -5, 0), core.NewVec3(0, 1e-14, 0)),
	}
	for i, ray := range rays {
		expected, expectedOK := linearRaycast(shapes, ray)
		if !expectedOK {
			t.Fatalf("Ray %d: expected the linear scan to hit", i)
		}
		got, ok := bvh.Raycast(ray)
		if !ok || got.ShapeIndex != expected.ShapeIndex || got.Distance != expected.Distance {
			t.Errorf("Ray %d: expected shape %d at %g, got shape %d at %g (%t)",
				i, expected.ShapeIndex, expected.Distance, got.ShapeIndex, got.Distance, ok)
		}
	}
}

func TestScene_BVHRebuiltAfterSetShape(t *testing.T) {
	s := NewScene("swap")
	s.Add(newSphere(t, 10, 0, 0, 1), newSphere(t, 0, 0, -20, 1))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	hit, ok := s.Raycast(ray)
	if !ok || hit.ShapeIndex != 1 {
		t.Fatalf("Expected shape 1, got %+v (%t)", hit, ok)
	}

	if err := s.SetShape(0, newSphere(t, 0, 0, -5, 1)); err != nil {
		t.Fatalf("SetShape failed: %v", err)
	}
	hit, ok = s.Raycast(ray)
	if !ok || hit.ShapeIndex != 0 || math.Abs(hit.Distance-4) > 1e-9 {
		t.Fatalf("Expected replaced shape 0 at distance 4, got %+v (%t)", hit, ok)
	}

	if err := s.SetShape(2, newSphere(t, 0, 0, 0, 1)); err == nil {
		t.Error("Expected error for an out of range index")
	}
}

func TestScene_ShapesReturnsCopy(t *testing.T) {
	s := NewScene("copy")
	s.Add(newSphere(t, 0, 0, -5, 1))

	shapes := s.Shapes()
	shapes[0] = newSphere(t, 100, 0, 0, 1)

	if _, ok := s.Raycast(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))); !ok {
		t.Error("Modifying the returned slice changed the scene")
	}
}
