package loaders

import (
	"fmt"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/renderer"
)

// CameraSpec describes the camera used for grid raycasts. Omitted fields
// take the values of renderer.DefaultCameraConfig.
type CameraSpec struct {
	Center Vector   `yaml:"center,omitempty" json:"center,omitempty"`
	LookAt Vector   `yaml:"look_at,omitempty" json:"lookAt,omitempty"`
	Up     Vector   `yaml:"up,omitempty" json:"up,omitempty"`
	VFov   *float64 `yaml:"vfov,omitempty" json:"vfov,omitempty"`
}

// CameraConfig converts a camera description into a camera configuration
// with the given aspect ratio. A nil spec gives the default camera.
func CameraConfig(spec *CameraSpec, aspectRatio float64) (renderer.CameraConfig, error) {
	config := renderer.DefaultCameraConfig()
	config.AspectRatio = aspectRatio
	if spec == nil {
		return config, nil
	}

	fields := []struct {
		name   string
		vector Vector
		target *core.Vec3
	}{
		{"center", spec.Center, &config.Center},
		{"look_at", spec.LookAt, &config.LookAt},
		{"up", spec.Up, &config.Up},
	}
	for _, field := range fields {
		if field.vector == nil {
			continue
		}
		v, err := field.vector.Vec3()
		if err != nil {
			return config, fmt.Errorf("camera %s: %w", field.name, err)
		}
		*field.target = v
	}

	if spec.VFov != nil {
		config.VFov = *spec.VFov
	}
	return config, nil
}
