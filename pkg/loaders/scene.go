package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/geometry"
	"github.com/df07/go-raycast/pkg/scene"
)

// DefaultRadius is substituted for spheres that do not specify a radius
const DefaultRadius = 1.0

// ErrBadVector is returned for vectors that do not have exactly three components
var ErrBadVector = errors.New("vector must have exactly 3 components")

// SceneFile is the on-disk description of a scene. It is shared by the YAML
// loader and the JSON web API.
type SceneFile struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Camera      *CameraSpec  `yaml:"camera,omitempty" json:"camera,omitempty"`
	Spheres     []SphereSpec `yaml:"spheres" json:"spheres"`
	Rays        []RaySpec    `yaml:"rays" json:"rays"`
}

// SphereSpec describes one sphere. Translate and Rotate (degrees around X, Y
// then Z) move the center after it is read.
type SphereSpec struct {
	Center    Vector   `yaml:"center" json:"center"`
	Radius    *float64 `yaml:"radius" json:"radius"`
	Color     Vector   `yaml:"color,omitempty" json:"color,omitempty"`
	Translate Vector   `yaml:"translate,omitempty" json:"translate,omitempty"`
	Rotate    Vector   `yaml:"rotate,omitempty" json:"rotate,omitempty"`
}

// RaySpec describes one ray
type RaySpec struct {
	Origin    Vector `yaml:"origin" json:"origin"`
	Direction Vector `yaml:"direction" json:"direction"`
}

// Vector is a list of components as written in scene files
type Vector []float64

// Vec3 converts the vector, failing unless it has exactly three components
func (v Vector) Vec3() (core.Vec3, error) {
	if len(v) != 3 {
		return core.Vec3{}, fmt.Errorf("%w, got %d", ErrBadVector, len(v))
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// LoadScene loads and builds a scene from a YAML file
func LoadScene(filename string, logger core.Logger) (*scene.Scene, error) {
	spec, err := ReadSceneFile(filename)
	if err != nil {
		return nil, err
	}

	s, err := BuildScene(spec, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ReadSceneFile reads a YAML scene description without building it.
// The name defaults to the file name without its extension.
func ReadSceneFile(filename string) (SceneFile, error) {
	if err := validateFilePath(filename); err != nil {
		return SceneFile{}, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return SceneFile{}, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	spec, err := DecodeSceneFile(file)
	if err != nil {
		return SceneFile{}, fmt.Errorf("%s: %w", filename, err)
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return spec, nil
}

// DecodeSceneFile decodes a YAML scene description. Unknown fields are errors
// and empty input is an empty scene.
func DecodeSceneFile(reader io.Reader) (SceneFile, error) {
	var spec SceneFile
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return SceneFile{}, fmt.Errorf("failed to parse scene: %w", err)
	}
	return spec, nil
}

// ParseScene reads and builds a YAML scene description
func ParseScene(reader io.Reader, logger core.Logger) (*scene.Scene, error) {
	spec, err := DecodeSceneFile(reader)
	if err != nil {
		return nil, err
	}
	return BuildScene(spec, logger)
}

// BuildScene turns a scene description into a scene.
//
// Missing values are replaced by documented defaults (origin center, radius
// DefaultRadius, white) and each substitution is reported through logger.
// Values that are present but invalid are errors.
func BuildScene(spec SceneFile, logger core.Logger) (*scene.Scene, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	s := scene.NewScene(spec.Name)
	for i, sphereSpec := range spec.Spheres {
		sphere, err := buildSphere(sphereSpec, i, logger)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.Add(sphere)
	}

	for i, raySpec := range spec.Rays {
		origin, err := raySpec.Origin.Vec3()
		if err != nil {
			return nil, fmt.Errorf("ray %d origin: %w", i, err)
		}
		direction, err := raySpec.Direction.Vec3()
		if err != nil {
			return nil, fmt.Errorf("ray %d direction: %w", i, err)
		}
		if direction.IsZero() {
			logger.Printf("ray %d has a zero direction and will never hit\n", i)
		}
		s.Rays = append(s.Rays, core.NewRay(origin, direction))
	}

	return s, nil
}

func buildSphere(spec SphereSpec, index int, logger core.Logger) (*geometry.Sphere, error) {
	center := core.Vec3{}
	if spec.Center == nil {
		logger.Printf("sphere %d has no center, using %v\n", index, center)
	} else {
		var err error
		if center, err = spec.Center.Vec3(); err != nil {
			return nil, fmt.Errorf("center: %w", err)
		}
	}

	radius := DefaultRadius
	if spec.Radius == nil {
		logger.Printf("sphere %d has no radius, using %g\n", index, radius)
	} else {
		radius = *spec.Radius
	}

	placement, err := TransformSpec{Translate: spec.Translate, Rotate: spec.Rotate}.Matrix()
	if err != nil {
		return nil, err
	}
	center = placement.TransformPoint(center)

	sphere, err := geometry.NewSphere(center, radius)
	if err != nil {
		return nil, err
	}

	if spec.Color != nil {
		color, err := spec.Color.Vec3()
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		sphere.Color = color
	}
	return sphere, nil
}

// validateFilePath rejects paths that cannot be scene files
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.Clean(filename)
	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	switch strings.ToLower(filepath.Ext(cleanPath)) {
	case ".yaml", ".yml":
		return nil
	default:
		return fmt.Errorf("invalid file type: only .yaml and .yml scene files are allowed")
	}
}
