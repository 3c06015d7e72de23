package attdyn

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

const (
	// EarthRotationRate is the average Earth rotation rate in radians per second.
	EarthRotationRate = 7.2921158553e-5
)

/* Elementary frame rotations. R_i(θ) maps components expressed in a frame to
components expressed in the frame rotated by +θ about axis i. */

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// R3R1R3 performs a 3-1-3 Euler parameter rotation.
// From Schaub and Junkins (the one in Vallado is wrong... surprinsingly, right? =/)
func R3R1R3(θ1, θ2, θ3 float64) *mat64.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat64.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// Rot313Vec rotates the provided vector by the 3-1-3 Euler angle sequence.
func Rot313Vec(θ1, θ2, θ3 float64, vI []float64) []float64 {
	return MxV33(R3R1R3(θ1, θ2, θ3), vI)
}

/* Named frame pairs. Each function is pure: geometric parameters in radians
in, rotation out. The quaternion and matrix forms of a given pair represent
the same rotation, and the To/From variants are mutual transposes. */

// RotatingPlanetocentricToInertialMatrix returns the rotation from the
// rotating planetocentric frame to the inertial frame, for the angle between
// the inertial and planetocentric X-axes (rotation rate times time from epoch).
func RotatingPlanetocentricToInertialMatrix(θ float64) *mat64.Dense {
	return R3(-θ)
}

// RotatingPlanetocentricToInertialQuaternion is the quaternion form of
// RotatingPlanetocentricToInertialMatrix.
func RotatingPlanetocentricToInertialQuaternion(θ float64) Quaternion {
	return NewQuaternionFromAngleAxis(θ, []float64{0, 0, 1})
}

// InertialToPlanetocentricMatrix returns the rotation from the inertial frame
// to the rotating planetocentric frame.
func InertialToPlanetocentricMatrix(θ float64) *mat64.Dense {
	return R3(θ)
}

// InertialToPlanetocentricQuaternion is the quaternion form of
// InertialToPlanetocentricMatrix.
func InertialToPlanetocentricQuaternion(θ float64) Quaternion {
	return NewQuaternionFromAngleAxis(-θ, []float64{0, 0, 1})
}

// PlanetocentricToLocalVerticalMatrix returns the rotation from the rotating
// planetocentric frame to the local vertical frame (X north, Z along the
// local gravity vector) at the given longitude λ and latitude δ. At the poles
// (δ=±π/2) the longitude convention degenerates but the rotation stays valid.
func PlanetocentricToLocalVerticalMatrix(λ, δ float64) *mat64.Dense {
	var m mat64.Dense
	m.Mul(R2(-(math.Pi/2 + δ)), R3(λ))
	return &m
}

// PlanetocentricToLocalVerticalQuaternion is the quaternion form of
// PlanetocentricToLocalVerticalMatrix.
func PlanetocentricToLocalVerticalQuaternion(λ, δ float64) Quaternion {
	return NewQuaternionFromMatrix(PlanetocentricToLocalVerticalMatrix(λ, δ))
}

// LocalVerticalToPlanetocentricMatrix is the transpose pair of
// PlanetocentricToLocalVerticalMatrix.
func LocalVerticalToPlanetocentricMatrix(λ, δ float64) *mat64.Dense {
	var m mat64.Dense
	m.Mul(R3(-λ), R2(math.Pi/2+δ))
	return &m
}

// LocalVerticalToPlanetocentricQuaternion is the quaternion form of
// LocalVerticalToPlanetocentricMatrix.
func LocalVerticalToPlanetocentricQuaternion(λ, δ float64) Quaternion {
	return PlanetocentricToLocalVerticalQuaternion(λ, δ).Conj()
}

// LocalVerticalToTrajectoryMatrix returns the rotation from the local
// vertical frame to the trajectory frame (X along the ground velocity) for
// flight path angle γ and heading χ.
func LocalVerticalToTrajectoryMatrix(γ, χ float64) *mat64.Dense {
	var m mat64.Dense
	m.Mul(R2(γ), R3(χ))
	return &m
}

// TrajectoryToAerodynamicMatrix returns the bank rotation from the trajectory
// frame to the airspeed-based aerodynamic frame, for bank angle σ.
func TrajectoryToAerodynamicMatrix(σ float64) *mat64.Dense {
	return R1(σ)
}

// AerodynamicToBodyMatrix returns the rotation from the airspeed-based
// aerodynamic frame to the body frame, for angle of attack α and sideslip β.
// The airspeed direction maps to [cosα·cosβ, sinβ, sinα·cosβ] in body axes.
func AerodynamicToBodyMatrix(α, β float64) *mat64.Dense {
	var m mat64.Dense
	m.Mul(R2(α), R3(-β))
	return &m
}

// AerodynamicToBodyQuaternion is the quaternion form of AerodynamicToBodyMatrix.
func AerodynamicToBodyQuaternion(α, β float64) Quaternion {
	return NewQuaternionFromMatrix(AerodynamicToBodyMatrix(α, β))
}

// AeroAnglesFromChain extracts the angle of attack, sideslip and bank angles
// from a trajectory-to-body rotation matrix. It is the exact inverse of
// AerodynamicToBodyMatrix(α, β)·TrajectoryToAerodynamicMatrix(σ). The
// extraction degenerates for |β|=π/2 (airspeed along the body Y axis).
func AeroAnglesFromChain(m *mat64.Dense) (α, β, σ float64) {
	α = math.Atan2(m.At(2, 0), m.At(0, 0))
	β = math.Asin(m.At(1, 0))
	σ = math.Atan2(m.At(1, 2), m.At(1, 1))
	return
}

// RotationDerivativePremultiplier returns the constant matrix Pᵢ satisfying
// d/dt Rᵢ(θ(t)) = θ̇·Pᵢ·Rᵢ(θ) for the elementary frame rotations.
func RotationDerivativePremultiplier(axis int) *mat64.Dense {
	switch axis {
	case 0:
		return mat64.NewDense(3, 3, []float64{0, 0, 0, 0, 0, 1, 0, -1, 0})
	case 1:
		return mat64.NewDense(3, 3, []float64{0, 0, -1, 0, 0, 0, 1, 0, 0})
	case 2:
		return mat64.NewDense(3, 3, []float64{0, 1, 0, -1, 0, 0, 0, 0, 0})
	default:
		panic(fmt.Errorf("no elementary rotation about axis %d", axis))
	}
}
