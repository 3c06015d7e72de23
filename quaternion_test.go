package attdyn

import (
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func TestQuaternionIdentity(t *testing.T) {
	q := IdentityQuaternion()
	if q.Norm() != 1 {
		t.Fatal("identity quaternion is not unit")
	}
	v := []float64{1, -2, 3}
	if !vectorsEqual(q.Rotate(v), v, 0) {
		t.Fatal("identity quaternion rotates")
	}
	if !matricesEqual(q.RotationMatrix(), Identity33(), 0) {
		t.Fatal("identity quaternion matrix is not identity")
	}
}

func TestQuaternionVectorRoundTrip(t *testing.T) {
	q := NewQuaternionFromAngleAxis(0.7, unit([]float64{1, 2, -0.5}))
	p := NewQuaternionFromVector(q.Vector())
	if q != p {
		t.Fatal("vector round trip changed the quaternion")
	}
	assertPanic(t, func() { NewQuaternionFromVector([]float64{1, 0, 0}) })
}

func TestQuaternionAngleAxis(t *testing.T) {
	// A π/2 active rotation about Z moves X onto Y.
	q := NewQuaternionFromAngleAxis(math.Pi/2, []float64{0, 0, 1})
	if !vectorsEqual(q.Rotate([]float64{1, 0, 0}), []float64{0, 1, 0}, 1e-15) {
		t.Fatal("π/2 rotation about Z did not move X onto Y")
	}
	// Conjugate inverts the rotation.
	v := []float64{0.3, -1.2, 2.5}
	if !vectorsEqual(q.Conj().Rotate(q.Rotate(v)), v, 1e-14) {
		t.Fatal("conjugate is not the inverse rotation")
	}
}

func TestQuaternionMulMatchesMatrixProduct(t *testing.T) {
	q1 := NewQuaternionFromAngleAxis(0.4, unit([]float64{1, 1, 0}))
	q2 := NewQuaternionFromAngleAxis(-1.1, unit([]float64{0, 2, 1}))
	var prod mat64.Dense
	prod.Mul(q1.RotationMatrix(), q2.RotationMatrix())
	if !matricesEqual(q1.Mul(q2).RotationMatrix(), &prod, 1e-14) {
		t.Fatal("q1⊗q2 does not compose like the rotation matrices")
	}
}

func TestQuaternionRotateMatchesMatrix(t *testing.T) {
	q := NewQuaternionFromAngleAxis(2.2, unit([]float64{-1, 0.5, 2}))
	v := []float64{10, -4, 7}
	if !vectorsEqual(q.Rotate(v), MxV33(q.RotationMatrix(), v), 1e-13) {
		t.Fatal("Rotate and RotationMatrix disagree")
	}
	if !isOrthonormal(q.RotationMatrix(), 1e-14) {
		t.Fatal("rotation matrix of a unit quaternion is not orthonormal")
	}
}

func TestQuaternionNormalize(t *testing.T) {
	q := Quaternion{2, 0, 0, 0}.Normalize()
	if q != IdentityQuaternion() {
		t.Fatal("normalization failed")
	}
	q = Quaternion{1, 1, 1, 1}.Normalize()
	if !floats.EqualWithinAbs(q.Norm(), 1, 1e-15) {
		t.Fatal("normalized quaternion is not unit")
	}
}

func TestQuaternionFromMatrixAllBranches(t *testing.T) {
	// Rotations by nearly π about each axis exercise every extraction branch.
	cases := []Quaternion{
		NewQuaternionFromAngleAxis(0.1, []float64{0, 0, 1}),
		NewQuaternionFromAngleAxis(math.Pi-1e-3, []float64{1, 0, 0}),
		NewQuaternionFromAngleAxis(math.Pi-1e-3, []float64{0, 1, 0}),
		NewQuaternionFromAngleAxis(math.Pi-1e-3, []float64{0, 0, 1}),
		NewQuaternionFromAngleAxis(2.5, unit([]float64{1, -1, 1})),
	}
	for i, q := range cases {
		p := NewQuaternionFromMatrix(q.RotationMatrix())
		// The extraction forces a non-negative scalar part.
		if q.W < 0 {
			q = Quaternion{-q.W, -q.X, -q.Y, -q.Z}
		}
		if !vectorsEqual(p.Vector(), q.Vector(), 1e-12) {
			t.Fatalf("case %d: matrix round trip failed: %+v != %+v", i, p, q)
		}
	}
}
