package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-raycast/pkg/core"
)

// ErrInvalidCamera is returned when a camera cannot form a view
var ErrInvalidCamera = errors.New("invalid camera")

// CameraConfig describes a pinhole camera
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // Up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// DefaultCameraConfig looks down -Z from the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        60,
		AspectRatio: 1,
	}
}

// Camera generates rays through a viewport one unit in front of it.
// Its world matrix has columns right, up, back and position, so the camera
// looks down its local -Z axis.
type Camera struct {
	origin          core.Vec3
	world           core.Mat4
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera, failing for a zero view direction, an up
// vector parallel to it, or a field of view outside (0, 180) degrees
func NewCamera(config CameraConfig) (*Camera, error) {
	if !(config.VFov > 0 && config.VFov < 180) {
		return nil, fmt.Errorf("%w: vertical field of view %g must be in (0, 180)", ErrInvalidCamera, config.VFov)
	}
	if !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0) {
		return nil, fmt.Errorf("%w: aspect ratio %g must be positive", ErrInvalidCamera, config.AspectRatio)
	}

	forward := core.FromTo(config.Center, config.LookAt).Normalize()
	if forward.IsZero() {
		return nil, fmt.Errorf("%w: center and look-at point coincide", ErrInvalidCamera)
	}
	right := forward.Cross(config.Up).Normalize()
	if right.IsZero() {
		return nil, fmt.Errorf("%w: up vector is parallel to the view direction", ErrInvalidCamera)
	}
	up := right.Cross(forward)

	viewportHeight := 2 * math.Tan(config.VFov*math.Pi/360)
	viewportWidth := config.AspectRatio * viewportHeight

	horizontal := right.Multiply(viewportWidth)
	vertical := up.Multiply(viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Add(forward)

	back := forward.Negate()
	world := core.NewMat4(
		right.X, up.X, back.X, config.Center.X,
		right.Y, up.Y, back.Y, config.Center.Y,
		right.Z, up.Z, back.Z, config.Center.Z,
		0, 0, 0, 1,
	)

	return &Camera{
		origin:          config.Center,
		world:           world,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}, nil
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
// and (0, 0) is the lower left corner
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// GetCameraForward returns the unit view direction, the negated third
// column of the world matrix
func (c *Camera) GetCameraForward() core.Vec3 {
	return core.NewVec3(-c.world.At(0, 2), -c.world.At(1, 2), -c.world.At(2, 2))
}

// WorldMatrix returns the camera-to-world transform
func (c *Camera) WorldMatrix() core.Mat4 {
	return c.world
}

// ViewMatrix returns the world-to-camera transform
func (c *Camera) ViewMatrix() (core.Mat4, error) {
	return c.world.Inverse()
}

// GridRays returns one ray through the center of each cell of a width x height
// grid, row by row starting at the top left
func (c *Camera) GridRays(width, height int) []core.Ray {
	if width <= 0 || height <= 0 {
		return nil
	}

	rays := make([]core.Ray, 0, width*height)
	for j := 0; j < height; j++ {
		t := 1 - (float64(j)+0.5)/float64(height)
		for i := 0; i < width; i++ {
			s := (float64(i) + 0.5) / float64(width)
			rays = append(rays, c.GetRay(s, t))
		}
	}
	return rays
}
