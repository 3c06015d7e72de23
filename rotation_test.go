package attdyn

import (
	"math"
	"testing"

	"github.com/gonum/matrix/mat64"
)

func TestR1R2R3(t *testing.T) {
	x := math.Pi / 3.0
	s, c := math.Sincos(x)
	r1 := R1(x)
	r2 := R2(x)
	r3 := R3(x)
	// Test items equal to 1.
	if r1.At(0, 0) != r2.At(1, 1) || r1.At(0, 0) != r3.At(2, 2) || r3.At(2, 2) != 1 {
		t.Fatal("expected R1.At(0, 0) = R2.At(1, 1) = R3.At(2, 2) = 1\n")
	}
	// Test items equal to 0.
	if r1.At(0, 1) != r1.At(0, 2) || r1.At(1, 0) != r1.At(2, 0) || r1.At(0, 1) != 0 {
		t.Fatal("misplaced zeros in R1\n")
	}
	if r2.At(0, 1) != r2.At(1, 2) || r2.At(1, 0) != r2.At(1, 2) || r2.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R2\n")
	}
	if r3.At(2, 0) != r3.At(2, 1) || r3.At(0, 2) != r3.At(1, 2) || r3.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R3\n")
	}
	// Test R1.
	if r1.At(1, 1) != r1.At(2, 2) || r1.At(2, 2) != c {
		t.Fatal("expected R1 cosines misplaced\n")
	}
	if r1.At(2, 1) != -r1.At(1, 2) || r1.At(1, 2) != s {
		t.Fatal("expected R1 sines misplaced\n")
	}
	// Test R2.
	if r2.At(0, 0) != r2.At(2, 2) || r2.At(2, 2) != c {
		t.Fatal("expected R2 cosines misplaced\n")
	}
	if r2.At(2, 0) != -r2.At(0, 2) || r2.At(2, 0) != s {
		t.Fatal("expected R2 sines misplaced\n")
	}
	// Test R3.
	if r3.At(1, 1) != r3.At(0, 0) || r3.At(0, 0) != c {
		t.Fatal("expected R3 cosines misplaced\n")
	}
	if r3.At(0, 1) != -r3.At(1, 0) || r3.At(0, 1) != s {
		t.Fatal("expected R3 sines misplaced\n")
	}
}

func TestRot313(t *testing.T) {
	var R1R3, R3R1R3m mat64.Dense
	θ1 := math.Pi / 17
	θ2 := math.Pi / 16
	θ3 := math.Pi / 15
	R1R3.Mul(R1(θ2), R3(θ1))
	R3R1R3m.Mul(R3(θ3), &R1R3)
	// The closed form and the elementary product round differently by an ulp.
	if !matricesEqual(&R3R1R3m, R3R1R3(θ1, θ2, θ3), 1e-15) {
		t.Logf("\n%+v", mat64.Formatted(&R3R1R3m))
		t.Logf("\n%+v", mat64.Formatted(R3R1R3(θ1, θ2, θ3)))
		t.Fatal("failed")
	}
	// A 3-1-3 sequence of two quarter turns walks X onto Z.
	if !vectorsEqual(Rot313Vec(math.Pi/2, math.Pi/2, 0, []float64{1, 0, 0}), []float64{0, 0, 1}, 1e-15) {
		t.Fatal("313 vector rotation misplaced X")
	}
	if !vectorsEqual(Rot313Vec(θ1, θ2, θ3, []float64{1, -2, 0.5}), MxV33(&R3R1R3m, []float64{1, -2, 0.5}), 1e-14) {
		t.Fatal("313 vector rotation disagrees with the matrix product")
	}
}

func TestPlanetocentricRotation(t *testing.T) {
	// After a quarter turn, the planet-fixed X axis points along inertial Y.
	θ := math.Pi / 2
	if !vectorsEqual(MxV33(RotatingPlanetocentricToInertialMatrix(θ), []float64{1, 0, 0}), []float64{0, 1, 0}, 1e-15) {
		t.Fatal("planet-fixed X axis misplaced after quarter turn")
	}
	// Matrix and quaternion forms agree, and the To/From pairs are transposes.
	θ = 0.83
	if !matricesEqual(RotatingPlanetocentricToInertialQuaternion(θ).RotationMatrix(), RotatingPlanetocentricToInertialMatrix(θ), 1e-14) {
		t.Fatal("quaternion and matrix forms disagree")
	}
	var prod mat64.Dense
	prod.Mul(RotatingPlanetocentricToInertialMatrix(θ), InertialToPlanetocentricMatrix(θ))
	if !matricesEqual(&prod, Identity33(), 1e-15) {
		t.Fatal("to/from planetocentric rotations are not inverses")
	}
}

func TestLocalVerticalRotation(t *testing.T) {
	λ, δ := 1.2, -0.4
	m := PlanetocentricToLocalVerticalMatrix(λ, δ)
	if !isOrthonormal(m, 1e-14) {
		t.Fatal("local vertical rotation is not orthonormal")
	}
	if !matricesEqual(PlanetocentricToLocalVerticalQuaternion(λ, δ).RotationMatrix(), m, 1e-13) {
		t.Fatal("quaternion and matrix forms disagree")
	}
	var prod mat64.Dense
	prod.Mul(LocalVerticalToPlanetocentricMatrix(λ, δ), m)
	if !matricesEqual(&prod, Identity33(), 1e-14) {
		t.Fatal("to/from local vertical rotations are not inverses")
	}
	// The radial direction maps onto -Z of the local vertical frame.
	sδ, cδ := math.Sincos(δ)
	sλ, cλ := math.Sincos(λ)
	rHat := []float64{cδ * cλ, cδ * sλ, sδ}
	if !vectorsEqual(MxV33(m, rHat), []float64{0, 0, -1}, 1e-14) {
		t.Fatal("radial direction does not map onto -Z")
	}
}

func TestTrajectoryRotation(t *testing.T) {
	γ, χ := -0.02, 0.6
	// The local vertical velocity direction maps onto the trajectory X axis.
	sγ, cγ := math.Sincos(γ)
	sχ, cχ := math.Sincos(χ)
	vHat := []float64{cγ * cχ, cγ * sχ, -sγ}
	if !vectorsEqual(MxV33(LocalVerticalToTrajectoryMatrix(γ, χ), vHat), []float64{1, 0, 0}, 1e-14) {
		t.Fatal("velocity direction does not map onto trajectory X")
	}
}

func TestAerodynamicRotation(t *testing.T) {
	α, β := 0.35, -0.1
	m := AerodynamicToBodyMatrix(α, β)
	// The airspeed direction in body axes.
	sα, cα := math.Sincos(α)
	sβ, cβ := math.Sincos(β)
	if !vectorsEqual(MxV33(m, []float64{1, 0, 0}), []float64{cα * cβ, sβ, sα * cβ}, 1e-14) {
		t.Fatal("airspeed direction misplaced in body axes")
	}
	if !matricesEqual(AerodynamicToBodyQuaternion(α, β).RotationMatrix(), m, 1e-13) {
		t.Fatal("quaternion and matrix forms disagree")
	}
}

func TestAeroAnglesFromChain(t *testing.T) {
	α, β, σ := 0.35, -0.12, 1.4
	var chain mat64.Dense
	chain.Mul(AerodynamicToBodyMatrix(α, β), TrajectoryToAerodynamicMatrix(σ))
	gotα, gotβ, gotσ := AeroAnglesFromChain(&chain)
	if !vectorsEqual([]float64{gotα, gotβ, gotσ}, []float64{α, β, σ}, 1e-14) {
		t.Fatalf("extracted angles [%f %f %f] != [%f %f %f]", gotα, gotβ, gotσ, α, β, σ)
	}
}

func TestRotationDerivativePremultiplier(t *testing.T) {
	// d/dt Rᵢ(θ(t)) = θ̇·Pᵢ·Rᵢ(θ), checked against a central difference.
	θ := 0.9
	h := 1e-6
	rots := []func(float64) *mat64.Dense{R1, R2, R3}
	for axis, rot := range rots {
		var fd, analytic mat64.Dense
		fd.Sub(rot(θ+h), rot(θ-h))
		fd.Scale(1/(2*h), &fd)
		analytic.Mul(RotationDerivativePremultiplier(axis), rot(θ))
		if !matricesEqual(&fd, &analytic, 1e-9) {
			t.Fatalf("premultiplier for axis %d does not match finite difference", axis)
		}
	}
	assertPanic(t, func() { RotationDerivativePremultiplier(3) })
}
