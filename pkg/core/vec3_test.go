package core

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

var sampleVectors = []Vec3{
	NewVec3(1, 0, 0),
	NewVec3(0, -3, 0),
	NewVec3(1, 2, 3),
	NewVec3(-4.5, 0.25, 7),
	NewVec3(1e-3, 2e-3, -5e-4),
	NewVec3(1000, -2000, 3000),
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, -3, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"reflect", NewVec3(1, -1, 0).Reflect(NewVec3(0, 1, 0)), NewVec3(1, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.ApproxEqual(tt.expected, tolerance) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}

	// Operands are values and must be untouched
	if a != NewVec3(1, 2, 3) || b != NewVec3(4, -5, 6) {
		t.Errorf("Operands were modified: a=%v b=%v", a, b)
	}
}

func TestVec3_Dot(t *testing.T) {
	if got := NewVec3(1, 2, 3).Dot(NewVec3(4, -5, 6)); got != 12 {
		t.Errorf("Expected dot 12, got %f", got)
	}
	if got := NewVec3(1, 0, 0).Dot(NewVec3(0, 1, 0)); got != 0 {
		t.Errorf("Expected perpendicular dot 0, got %f", got)
	}
}

func TestVec3_LengthSquaredMatchesLength(t *testing.T) {
	for _, v := range sampleVectors {
		length := v.Length()
		if math.Abs(v.LengthSquared()-length*length) > tolerance*math.Max(1, length*length) {
			t.Errorf("%v: LengthSquared %f != Length^2 %f", v, v.LengthSquared(), length*length)
		}
	}

	if got := NewVec3(3, 4, 12).Length(); got != 13 {
		t.Errorf("Expected length 13, got %f", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	for _, v := range sampleVectors {
		n := v.Normalize()
		if math.Abs(n.Length()-1) > tolerance {
			t.Errorf("%v: normalized length %f, expected 1", v, n.Length())
		}
		if n.Dot(v) <= 0 {
			t.Errorf("%v: normalize changed direction to %v", v, n)
		}
	}

	zero := Vec3{}.Normalize()
	if !zero.IsZero() {
		t.Errorf("Expected zero vector to normalize to zero, got %v", zero)
	}
	if !zero.IsFinite() {
		t.Errorf("Normalize of zero vector produced non-finite components: %v", zero)
	}
}

func TestVec3_Rescale(t *testing.T) {
	scales := []float64{0.5, 1, 3, 250}
	for _, v := range sampleVectors {
		for _, s := range scales {
			r := v.Rescale(s)
			if math.Abs(r.Length()-s) > tolerance*math.Max(1, s) {
				t.Errorf("%v rescaled to %f has length %f", v, s, r.Length())
			}
			if !r.Normalize().ApproxEqual(v.Normalize(), 1e-9) {
				t.Errorf("%v rescaled to %f changed direction: %v", v, s, r)
			}
		}
	}

	if r := (Vec3{}).Rescale(5); !r.IsZero() {
		t.Errorf("Expected zero vector to rescale to zero, got %v", r)
	}
}

func TestFromTo(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(-2, 0, 5)

	ab := FromTo(a, b)
	ba := FromTo(b, a)

	if !ab.ApproxEqual(NewVec3(-3, -2, 2), tolerance) {
		t.Errorf("Expected (-3, -2, 2), got %v", ab)
	}
	if !ab.ApproxEqual(ba.Negate(), tolerance) {
		t.Errorf("FromTo(a, b) %v should equal -FromTo(b, a) %v", ab, ba.Negate())
	}
	if a != NewVec3(1, 2, 3) || b != NewVec3(-2, 0, 5) {
		t.Errorf("FromTo modified its inputs: a=%v b=%v", a, b)
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name     string
		v1, v2   Vec3
		expected float64
	}{
		{"perpendicular", NewVec3(1, 0, 0), NewVec3(0, 1, 0), 90},
		{"45 degrees", NewVec3(1, 0, 0), NewVec3(1, 1, 0), 45},
		{"different lengths", NewVec3(2, 0, 0), NewVec3(0, 0, 7), 90},
		{"obtuse", NewVec3(1, 0, 0), NewVec3(-1, 1, 0), 135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Angle(tt.v1, tt.v2)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f degrees, got %f", tt.expected, got)
			}
		})
	}
}

func TestAngle_SelfAndOpposite(t *testing.T) {
	for _, v := range sampleVectors {
		same, err := Angle(v, v)
		if err != nil {
			t.Fatalf("%v: unexpected error %v", v, err)
		}
		if math.IsNaN(same) || math.Abs(same) > 1e-5 {
			t.Errorf("%v: angle with itself should be 0, got %f", v, same)
		}

		opposite, err := Angle(v, v.Negate())
		if err != nil {
			t.Fatalf("%v: unexpected error %v", v, err)
		}
		if math.IsNaN(opposite) || math.Abs(opposite-180) > 1e-5 {
			t.Errorf("%v: angle with its negation should be 180, got %f", v, opposite)
		}
	}
}

func TestAngle_ZeroVector(t *testing.T) {
	if _, err := Angle(Vec3{}, NewVec3(1, 0, 0)); !errors.Is(err, ErrZeroVector) {
		t.Errorf("Expected ErrZeroVector, got %v", err)
	}
	if _, err := Angle(NewVec3(1, 0, 0), Vec3{}); !errors.Is(err, ErrZeroVector) {
		t.Errorf("Expected ErrZeroVector, got %v", err)
	}
}

func TestProject(t *testing.T) {
	v := NewVec3(3, 4, 0)
	onto := NewVec3(2, 0, 0)

	p := Project(v, onto)
	if !p.ApproxEqual(NewVec3(3, 0, 0), tolerance) {
		t.Errorf("Expected (3, 0, 0), got %v", p)
	}
	if v != NewVec3(3, 4, 0) || onto != NewVec3(2, 0, 0) {
		t.Errorf("Project modified its inputs: v=%v onto=%v", v, onto)
	}

	// Projection is parallel to the target direction
	for _, a := range sampleVectors {
		for _, b := range sampleVectors {
			p := Project(a, b)
			if a.Dot(b) <= 0 {
				continue
			}
			if !p.Normalize().ApproxEqual(b.Normalize(), 1e-9) {
				t.Errorf("Project(%v, %v) = %v is not parallel to %v", a, b, p, b)
			}
		}
	}

	if p := Project(v, Vec3{}); !p.IsZero() {
		t.Errorf("Expected projection onto zero vector to be zero, got %v", p)
	}
}

func TestVec3_DistanceTo(t *testing.T) {
	if got := NewVec3(1, 1, 1).DistanceTo(NewVec3(4, 5, 1)); math.Abs(got-5) > tolerance {
		t.Errorf("Expected distance 5, got %f", got)
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Expected finite vector")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if NewVec3(0, math.Inf(-1), 0).IsFinite() {
		t.Error("Inf component should not be finite")
	}
}

func TestVec4_PerspectiveDivide(t *testing.T) {
	if got := NewVec4(2, 4, 6, 2).PerspectiveDivide(); got != NewVec3(1, 2, 3) {
		t.Errorf("Expected (1, 2, 3), got %v", got)
	}
	if got := NewDirection(NewVec3(1, 2, 3)).PerspectiveDivide(); got != NewVec3(1, 2, 3) {
		t.Errorf("Direction should pass through unchanged, got %v", got)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if got := ray.At(1.5); got != NewVec3(1, 3, 0) {
		t.Errorf("Expected (1, 3, 0), got %v", got)
	}
	if ray.IsDegenerate() {
		t.Error("Ray with a direction should not be degenerate")
	}
	if !NewRay(Vec3{}, Vec3{}).IsDegenerate() {
		t.Error("Zero direction should be degenerate")
	}
}
