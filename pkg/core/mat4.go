package core

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrSingularMatrix is returned by Inverse when the determinant is zero
var ErrSingularMatrix = errors.New("can't invert matrix, determinant is 0")

// Mat4 is a 4x4 matrix stored in row-major order.
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// Like Vec3, Mat4 is a value: composition methods return the product and
// leave the receiver untouched. Compose transforms by chaining from Identity():
//
//	world := core.Identity().RotateY(45).Multiply(core.Scale(2, 2, 2))
type Mat4 [16]float64

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// NewMat4 creates a matrix from its elements given row by row
func NewMat4(
	n11, n12, n13, n14,
	n21, n22, n23, n24,
	n31, n32, n33, n34,
	n41, n42, n43, n44 float64,
) Mat4 {
	return Mat4{
		n11, n12, n13, n14,
		n21, n22, n23, n24,
		n31, n32, n33, n34,
		n41, n42, n43, n44,
	}
}

// At returns the element at the given row and column
func (m Mat4) At(row, col int) float64 {
	return m[row*4+col]
}

// MultiplyScalar returns the matrix with every element scaled by s
func (m Mat4) MultiplyScalar(s float64) Mat4 {
	for i := range m {
		m[i] *= s
	}
	return m
}

// Multiply returns m * right
func (m Mat4) Multiply(right Mat4) Mat4 {
	var result Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * right[k*4+col]
			}
			result[row*4+col] = sum
		}
	}
	return result
}

// Premultiply returns left * m
func (m Mat4) Premultiply(left Mat4) Mat4 {
	return left.Multiply(m)
}

// MultiplyVec4 returns m * v
func (m Mat4) MultiplyVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]*v.W,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]*v.W,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]*v.W,
		W: m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]*v.W,
	}
}

// TransformPoint applies the matrix to a position, including the perspective divide
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return m.MultiplyVec4(NewPoint(p)).PerspectiveDivide()
}

// TransformDirection applies the matrix to a direction, ignoring translation
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return m.MultiplyVec4(NewDirection(d)).Vec3()
}

// Scale creates a pure scale matrix
func Scale(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Translation creates a pure translation matrix
func Translation(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// TranslationVec3 creates a pure translation matrix from a vector
func TranslationVec3(v Vec3) Mat4 {
	return Translation(v.X, v.Y, v.Z)
}

// TranslationVec4 creates a pure translation matrix from the xyz of a vector
func TranslationVec4(v Vec4) Mat4 {
	return Translation(v.X, v.Y, v.Z)
}

// RotationX creates a rotation around the X axis, in degrees
func RotationX(degrees float64) Mat4 {
	s, c := math.Sincos(degreesToRadians(degrees))
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// RotationY creates a rotation around the Y axis, in degrees
func RotationY(degrees float64) Mat4 {
	s, c := math.Sincos(degreesToRadians(degrees))
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ creates a rotation around the Z axis, in degrees
func RotationZ(degrees float64) Mat4 {
	s, c := math.Sincos(degreesToRadians(degrees))
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns m composed with a rotation around the X axis
func (m Mat4) RotateX(degrees float64) Mat4 {
	return m.Multiply(RotationX(degrees))
}

// RotateY returns m composed with a rotation around the Y axis
func (m Mat4) RotateY(degrees float64) Mat4 {
	return m.Multiply(RotationY(degrees))
}

// RotateZ returns m composed with a rotation around the Z axis
func (m Mat4) RotateZ(degrees float64) Mat4 {
	return m.Multiply(RotationZ(degrees))
}

// NewPerspective creates an OpenGL-style perspective projection with a
// symmetric frustum. fovy is the vertical field of view in degrees.
func NewPerspective(fovy, aspect, near, far float64) Mat4 {
	top := near * math.Tan(degreesToRadians(fovy)/2)
	right := top * aspect
	return Mat4{
		near / right, 0, 0, 0,
		0, near / top, 0, 0,
		0, 0, -(far + near) / (far - near), -(2 * far * near) / (far - near),
		0, 0, -1, 0,
	}
}

// Perspective returns m composed with a perspective projection
func (m Mat4) Perspective(fovy, aspect, near, far float64) Mat4 {
	return m.Multiply(NewPerspective(fovy, aspect, near, far))
}

// NewOrthographic creates an OpenGL-style orthographic projection
func NewOrthographic(left, right, top, bottom, near, far float64) Mat4 {
	return Mat4{
		2 / (right - left), 0, 0, -(right + left) / (right - left),
		0, 2 / (top - bottom), 0, -(top + bottom) / (top - bottom),
		0, 0, -2 / (far - near), -(far + near) / (far - near),
		0, 0, 0, 1,
	}
}

// Orthographic returns m composed with an orthographic projection
func (m Mat4) Orthographic(left, right, top, bottom, near, far float64) Mat4 {
	return m.Multiply(NewOrthographic(left, right, top, bottom, near, far))
}

// TRS combines translation, rotation and scale so that a point is scaled
// first, then rotated, then translated.
func TRS(translation, rotation, scale Mat4) Mat4 {
	return translation.Multiply(rotation).Multiply(scale)
}

// OrbitMatrix places a child object at offset from its parent, rotated
// angleDegrees around the parent's Z axis.
func OrbitMatrix(angleDegrees float64, offset Vec3, parent Mat4) Mat4 {
	return parent.RotateZ(angleDegrees).Multiply(TranslationVec3(offset))
}

// IsFinite reports whether no element is NaN or infinite
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Transpose returns the transposed matrix
func (m Mat4) Transpose() Mat4 {
	m[1], m[4] = m[4], m[1]
	m[2], m[8] = m[8], m[2]
	m[3], m[12] = m[12], m[3]
	m[6], m[9] = m[9], m[6]
	m[7], m[13] = m[13], m[7]
	m[11], m[14] = m[14], m[11]
	return m
}

// Determinant computes the determinant by cofactor expansion along the first row
func (m Mat4) Determinant() float64 {
	var det float64
	sign := 1.0
	for col := 0; col < 4; col++ {
		det += sign * m[col] * m.minor(0, col)
		sign = -sign
	}
	return det
}

// minor returns the determinant of the 3x3 matrix left after removing row and col
func (m Mat4) minor(row, col int) float64 {
	var sub [9]float64
	i := 0
	for r := 0; r < 4; r++ {
		if r == row {
			continue
		}
		for c := 0; c < 4; c++ {
			if c == col {
				continue
			}
			sub[i] = m[r*4+c]
			i++
		}
	}
	return sub[0]*(sub[4]*sub[8]-sub[5]*sub[7]) -
		sub[1]*(sub[3]*sub[8]-sub[5]*sub[6]) +
		sub[2]*(sub[3]*sub[7]-sub[4]*sub[6])
}

// Inverse returns the inverse computed from the adjugate.
// A singular matrix yields the identity together with ErrSingularMatrix;
// callers that can live with the fallback may ignore the error.
func (m Mat4) Inverse() (Mat4, error) {
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	// 2x2 minors of the top and bottom row pairs
	b00 := a00*a11 - a01*a10
	b01 := a00*a12 - a02*a10
	b02 := a00*a13 - a03*a10
	b03 := a01*a12 - a02*a11
	b04 := a01*a13 - a03*a11
	b05 := a02*a13 - a03*a12
	b06 := a20*a31 - a21*a30
	b07 := a20*a32 - a22*a30
	b08 := a20*a33 - a23*a30
	b09 := a21*a32 - a22*a31
	b10 := a21*a33 - a23*a31
	b11 := a22*a33 - a23*a32

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 || !isFinite(det) {
		return Identity(), ErrSingularMatrix
	}
	inv := 1 / det

	return Mat4{
		(a11*b11 - a12*b10 + a13*b09) * inv,
		(a02*b10 - a01*b11 - a03*b09) * inv,
		(a31*b05 - a32*b04 + a33*b03) * inv,
		(a22*b04 - a21*b05 - a23*b03) * inv,

		(a12*b08 - a10*b11 - a13*b07) * inv,
		(a00*b11 - a02*b08 + a03*b07) * inv,
		(a32*b02 - a30*b05 - a33*b01) * inv,
		(a20*b05 - a22*b02 + a23*b01) * inv,

		(a10*b10 - a11*b08 + a13*b06) * inv,
		(a01*b08 - a00*b10 - a03*b06) * inv,
		(a30*b04 - a31*b02 + a33*b00) * inv,
		(a21*b02 - a20*b04 - a23*b00) * inv,

		(a11*b07 - a10*b09 - a12*b06) * inv,
		(a00*b09 - a01*b07 + a02*b06) * inv,
		(a31*b01 - a30*b03 - a32*b00) * inv,
		(a20*b03 - a21*b01 + a22*b00) * inv,
	}, nil
}

// ApproxEqual reports whether every element differs by at most epsilon
func (m Mat4) ApproxEqual(other Mat4, epsilon float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > epsilon {
			return false
		}
	}
	return true
}

// Rows returns the matrix as four rows
func (m Mat4) Rows() [4][4]float64 {
	var rows [4][4]float64
	for r := 0; r < 4; r++ {
		copy(rows[r][:], m[r*4:r*4+4])
	}
	return rows
}

// Dense copies the matrix into a gonum dense matrix
func (m Mat4) Dense() *mat.Dense {
	data := make([]float64, 16)
	copy(data, m[:])
	return mat.NewDense(4, 4, data)
}

// Mat4FromMatrix copies a 4x4 gonum matrix
func Mat4FromMatrix(a mat.Matrix) (Mat4, error) {
	rows, cols := a.Dims()
	if rows != 4 || cols != 4 {
		return Mat4{}, fmt.Errorf("expected a 4x4 matrix, got %dx%d", rows, cols)
	}
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a.At(r, c)
		}
	}
	return m, nil
}

func (m Mat4) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for r := 0; r < 4; r++ {
		fmt.Fprintf(&sb, "\n %g, %g, %g, %g", m[r*4], m[r*4+1], m[r*4+2], m[r*4+3])
	}
	sb.WriteString("\n]")
	return sb.String()
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
