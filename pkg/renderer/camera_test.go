package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-raycast/pkg/core"
)

func TestCameraGetCameraForward(t *testing.T) {
	config := CameraConfig{
		Center:      core.NewVec3(1, 2, 3),
		LookAt:      core.NewVec3(1, 2, -7),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45,
		AspectRatio: 1,
	}
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatal(err)
	}

	forward := camera.GetCameraForward()
	if !forward.ApproxEqual(core.NewVec3(0, 0, -1), 1e-12) {
		t.Errorf("Expected forward direction (0, 0, -1), got %v", forward)
	}

	// The center of the viewport lies straight ahead
	center := camera.GetRay(0.5, 0.5)
	if center.Origin != config.Center {
		t.Errorf("Expected ray origin %v, got %v", config.Center, center.Origin)
	}
	if !center.Direction.ApproxEqual(forward, 1e-12) {
		t.Errorf("Expected center ray along %v, got %v", forward, center.Direction)
	}
}

func TestCameraGetRay_FieldOfView(t *testing.T) {
	camera, err := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2,
	})
	if err != nil {
		t.Fatal(err)
	}

	// With a 90 degree vertical field of view the top edge is 45 degrees up
	top := camera.GetRay(0.5, 1)
	angle, err := core.Angle(top.Direction, core.NewVec3(0, 0, -1))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(angle-45) > 1e-9 {
		t.Errorf("Expected 45 degrees to the top edge, got %f", angle)
	}

	// Aspect ratio 2 doubles the horizontal extent
	right := camera.GetRay(1, 0.5)
	if !right.Direction.ApproxEqual(core.NewVec3(2, 0, -1), 1e-9) {
		t.Errorf("Expected right edge direction (2, 0, -1), got %v", right.Direction)
	}
}

func TestCameraGridRays(t *testing.T) {
	camera, err := NewCamera(DefaultCameraConfig())
	if err != nil {
		t.Fatal(err)
	}

	rays := camera.GridRays(3, 2)
	if len(rays) != 6 {
		t.Fatalf("Expected 6 rays, got %d", len(rays))
	}

	// Row-major from the top left
	if rays[0].Direction.X >= 0 || rays[0].Direction.Y <= 0 {
		t.Errorf("First ray should point up and left, got %v", rays[0].Direction)
	}
	if rays[5].Direction.X <= 0 || rays[5].Direction.Y >= 0 {
		t.Errorf("Last ray should point down and right, got %v", rays[5].Direction)
	}
	if rays[1].Direction.X != 0 {
		t.Errorf("Middle column should be centered, got %v", rays[1].Direction)
	}

	if camera.GridRays(0, 5) != nil {
		t.Error("Expected no rays for an empty grid")
	}
}

func TestNewCamera_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
	}{
		{"coincident look-at", func(c *CameraConfig) { c.LookAt = c.Center }},
		{"parallel up", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 1) }},
		{"zero fov", func(c *CameraConfig) { c.VFov = 0 }},
		{"straight fov", func(c *CameraConfig) { c.VFov = 180 }},
		{"NaN fov", func(c *CameraConfig) { c.VFov = math.NaN() }},
		{"zero aspect", func(c *CameraConfig) { c.AspectRatio = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCameraConfig()
			tt.modify(&config)
			camera, err := NewCamera(config)
			if !errors.Is(err, ErrInvalidCamera) {
				t.Errorf("Expected ErrInvalidCamera, got %v", err)
			}
			if camera != nil {
				t.Error("Expected nil camera on error")
			}
		})
	}
}

func TestCameraViewMatrix(t *testing.T) {
	camera, err := NewCamera(CameraConfig{
		Center:      core.NewVec3(3, 1, 4),
		LookAt:      core.NewVec3(3, 1, -6),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45,
		AspectRatio: 1,
	})
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}

	view, err := camera.ViewMatrix()
	if err != nil {
		t.Fatalf("ViewMatrix failed: %v", err)
	}

	// The camera sits at the view-space origin looking down -Z
	if got := view.TransformPoint(core.NewVec3(3, 1, 4)); !got.ApproxEqual(core.Vec3{}, 1e-9) {
		t.Errorf("Expected camera center at origin, got %v", got)
	}
	if got := view.TransformPoint(core.NewVec3(3, 1, -6)); !got.ApproxEqual(core.NewVec3(0, 0, -10), 1e-9) {
		t.Errorf("Expected look-at point at (0, 0, -10), got %v", got)
	}
	if got := view.TransformPoint(core.NewVec3(4, 1, 4)); !got.ApproxEqual(core.NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected world +X to stay right, got %v", got)
	}

	if !view.Multiply(camera.WorldMatrix()).ApproxEqual(core.Identity(), 1e-9) {
		t.Error("View matrix should invert the world matrix")
	}
}
