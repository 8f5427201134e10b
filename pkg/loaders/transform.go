package loaders

import (
	"errors"
	"fmt"

	"github.com/df07/go-raycast/pkg/core"
)

// ErrNonFinite is returned for transforms with NaN or infinite values
var ErrNonFinite = errors.New("transform values must be finite")

// TransformSpec describes a translate-rotate-scale transform. Rotate holds
// degrees around X, Y then Z. Omitted parts leave the transform unchanged.
type TransformSpec struct {
	Translate Vector `yaml:"translate,omitempty" json:"translate,omitempty"`
	Rotate    Vector `yaml:"rotate,omitempty" json:"rotate,omitempty"`
	Scale     Vector `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// Matrix builds T * Rz * Ry * Rx * S. Non-finite input or an overflowing
// product is an error.
func (t TransformSpec) Matrix() (core.Mat4, error) {
	translation, rotation, scale := core.Identity(), core.Identity(), core.Identity()

	if t.Translate != nil {
		v, err := t.Translate.Vec3()
		if err != nil {
			return core.Identity(), fmt.Errorf("translate: %w", err)
		}
		if !v.IsFinite() {
			return core.Identity(), fmt.Errorf("translate: %w", ErrNonFinite)
		}
		translation = core.TranslationVec3(v)
	}
	if t.Rotate != nil {
		v, err := t.Rotate.Vec3()
		if err != nil {
			return core.Identity(), fmt.Errorf("rotate: %w", err)
		}
		if !v.IsFinite() {
			return core.Identity(), fmt.Errorf("rotate: %w", ErrNonFinite)
		}
		rotation = core.RotationZ(v.Z).RotateY(v.Y).RotateX(v.X)
	}
	if t.Scale != nil {
		v, err := t.Scale.Vec3()
		if err != nil {
			return core.Identity(), fmt.Errorf("scale: %w", err)
		}
		if !v.IsFinite() {
			return core.Identity(), fmt.Errorf("scale: %w", ErrNonFinite)
		}
		scale = core.Scale(v.X, v.Y, v.Z)
	}

	m := core.TRS(translation, rotation, scale)
	if !m.IsFinite() {
		return core.Identity(), fmt.Errorf("matrix: %w", ErrNonFinite)
	}
	return m, nil
}
