package attdyn

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

// Quaternion is a rotation quaternion in scalar-first convention.
// A quaternion "from frame T to frame F" maps components expressed in T to
// components expressed in F via Rotate (equivalently via RotationMatrix).
// All state vectors and Vector/NewQuaternionFromVector use the scalar-first
// storage order [w x y z]; conversions at any other library boundary must go
// through these two functions.
type Quaternion struct {
	W, X, Y, Z float64
}

// IdentityQuaternion is the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{1, 0, 0, 0}
}

// NewQuaternionFromVector builds a quaternion from a scalar-first 4-vector.
// The input is used as-is: callers owning non-unit data must Normalize.
func NewQuaternionFromVector(v []float64) Quaternion {
	if len(v) != 4 {
		panic(fmt.Errorf("quaternion vector must have four components, got %d", len(v)))
	}
	return Quaternion{v[0], v[1], v[2], v[3]}
}

// Vector returns the scalar-first 4-vector [w x y z] of this quaternion.
func (q Quaternion) Vector() []float64 {
	return []float64{q.W, q.X, q.Y, q.Z}
}

// NewQuaternionFromAngleAxis returns the quaternion rotating by θ about the
// provided (unit) axis, in the active sense: Rotate moves a vector by +θ.
func NewQuaternionFromAngleAxis(θ float64, axis []float64) Quaternion {
	s, c := math.Sincos(θ / 2)
	return Quaternion{c, s * axis[0], s * axis[1], s * axis[2]}
}

// Mul returns the Hamilton product q⊗p. Composition follows the matrix rule:
// (q.Mul(p)).RotationMatrix() equals q.RotationMatrix()·p.RotationMatrix().
func (q Quaternion) Mul(p Quaternion) Quaternion {
	return Quaternion{
		q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
		q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		q.W*p.Y - q.X*p.Z + q.Y*p.W + q.Z*p.X,
		q.W*p.Z + q.X*p.Y - q.Y*p.X + q.Z*p.W,
	}
}

// Conj returns the conjugate, which for a unit quaternion is the inverse rotation.
func (q Quaternion) Conj() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

// Norm returns the quaternion norm.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns the unit quaternion with the same rotation.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	return Quaternion{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// RotationMatrix returns the 3x3 matrix M with M·v = q.Rotate(v). For a
// quaternion from the target (body-fixed) frame to the base (inertial) frame,
// M maps target-frame components to base-frame components.
func (q Quaternion) RotationMatrix() *mat64.Dense {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return mat64.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// Rotate applies this rotation to the provided 3-vector.
func (q Quaternion) Rotate(v []float64) []float64 {
	// q⊗(0,v)⊗q* expanded, cheaper than building the matrix.
	t := []float64{
		2 * (q.Y*v[2] - q.Z*v[1]),
		2 * (q.Z*v[0] - q.X*v[2]),
		2 * (q.X*v[1] - q.Y*v[0]),
	}
	return []float64{
		v[0] + q.W*t[0] + q.Y*t[2] - q.Z*t[1],
		v[1] + q.W*t[1] + q.Z*t[0] - q.X*t[2],
		v[2] + q.W*t[2] + q.X*t[1] - q.Y*t[0],
	}
}

// NewQuaternionFromMatrix builds the quaternion equivalent to the provided
// orthonormal rotation matrix, using Shepperd's method to stay away from the
// small-divisor branches. The scalar part is kept non-negative.
func NewQuaternionFromMatrix(m *mat64.Dense) Quaternion {
	tr := m.At(0, 0) + m.At(1, 1) + m.At(2, 2)
	var q Quaternion
	switch {
	case tr >= m.At(0, 0) && tr >= m.At(1, 1) && tr >= m.At(2, 2):
		w := 0.5 * math.Sqrt(1+tr)
		q = Quaternion{w,
			(m.At(2, 1) - m.At(1, 2)) / (4 * w),
			(m.At(0, 2) - m.At(2, 0)) / (4 * w),
			(m.At(1, 0) - m.At(0, 1)) / (4 * w)}
	case m.At(0, 0) >= m.At(1, 1) && m.At(0, 0) >= m.At(2, 2):
		x := 0.5 * math.Sqrt(1+m.At(0, 0)-m.At(1, 1)-m.At(2, 2))
		q = Quaternion{(m.At(2, 1) - m.At(1, 2)) / (4 * x),
			x,
			(m.At(0, 1) + m.At(1, 0)) / (4 * x),
			(m.At(0, 2) + m.At(2, 0)) / (4 * x)}
	case m.At(1, 1) >= m.At(2, 2):
		y := 0.5 * math.Sqrt(1-m.At(0, 0)+m.At(1, 1)-m.At(2, 2))
		q = Quaternion{(m.At(0, 2) - m.At(2, 0)) / (4 * y),
			(m.At(0, 1) + m.At(1, 0)) / (4 * y),
			y,
			(m.At(1, 2) + m.At(2, 1)) / (4 * y)}
	default:
		z := 0.5 * math.Sqrt(1-m.At(0, 0)-m.At(1, 1)+m.At(2, 2))
		q = Quaternion{(m.At(1, 0) - m.At(0, 1)) / (4 * z),
			(m.At(0, 2) + m.At(2, 0)) / (4 * z),
			(m.At(1, 2) + m.At(2, 1)) / (4 * z),
			z}
	}
	if q.W < 0 {
		q = Quaternion{-q.W, -q.X, -q.Y, -q.Z}
	}
	return q
}
