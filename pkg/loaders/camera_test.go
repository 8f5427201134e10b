package loaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/renderer"
)

func TestCameraConfig(t *testing.T) {
	config, err := CameraConfig(nil, 2)
	require.NoError(t, err)
	expected := renderer.DefaultCameraConfig()
	expected.AspectRatio = 2
	assert.Equal(t, expected, config)

	spec, err := DecodeSceneFile(strings.NewReader(`
camera:
  center: [0, 0, 10]
  look_at: [0, 0, 0]
  vfov: 30
`))
	require.NoError(t, err)
	require.NotNil(t, spec.Camera)

	config, err = CameraConfig(spec.Camera, 1.5)
	require.NoError(t, err)
	assert.Equal(t, core.NewVec3(0, 0, 10), config.Center)
	assert.Equal(t, core.NewVec3(0, 0, 0), config.LookAt)
	assert.Equal(t, core.NewVec3(0, 1, 0), config.Up)
	assert.Equal(t, 30.0, config.VFov)
	assert.Equal(t, 1.5, config.AspectRatio)

	_, err = CameraConfig(&CameraSpec{Up: Vector{0, 1}}, 1)
	assert.ErrorIs(t, err, ErrBadVector)
}
