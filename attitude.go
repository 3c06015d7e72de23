package attdyn

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
)

// RotationalState is the 7-component attitude state of a body: the quaternion
// from the body-fixed (target) frame to the propagation base frame, and the
// angular velocity of the body expressed in the body-fixed frame, in rad/s.
type RotationalState struct {
	Q        Quaternion
	Velocity []float64
}

// Vector serializes to the scalar-first 7-vector [q0 q1 q2 q3 ω0 ω1 ω2].
func (rs RotationalState) Vector() []float64 {
	return []float64{rs.Q.W, rs.Q.X, rs.Q.Y, rs.Q.Z, rs.Velocity[0], rs.Velocity[1], rs.Velocity[2]}
}

// NewRotationalStateFromVector deserializes a scalar-first 7-vector,
// renormalizing the quaternion part. Integration drifts the norm; reading a
// state back through here is what keeps attitude matrices orthonormal.
func NewRotationalStateFromVector(v []float64) RotationalState {
	if len(v) != 7 {
		panic(fmt.Errorf("rotational state vector must have seven components, got %d", len(v)))
	}
	return RotationalState{NewQuaternionFromVector(v[0:4]).Normalize(), []float64{v[4], v[5], v[6]}}
}

// RotationalEOM evaluates the rigid-body rotational equations of motion for a
// fixed body-frame inertia tensor. The inverse inertia is computed once at
// construction.
type RotationalEOM struct {
	inertia    *mat64.Dense
	inertiaInv *mat64.Dense
}

// NewRotationalEOM creates the equations of motion for the given body-frame
// inertia tensor. It panics if the tensor is singular.
func NewRotationalEOM(inertia *mat64.Dense) *RotationalEOM {
	var inv mat64.Dense
	if err := inv.Inverse(inertia); err != nil {
		panic(fmt.Errorf("inertia tensor not invertible: %s", err))
	}
	return &RotationalEOM{inertia, &inv}
}

// Derivative returns the 7-component time derivative of the provided
// rotational state vector under the provided body-frame torque.
// The quaternion part follows q̇ = ½ q⊗(0, ω) and the angular velocity part
// the Euler equation ω̇ = I⁻¹(τ − ω×(I·ω)). The raw quaternion components are
// differentiated as-is, without renormalization.
func (eom *RotationalEOM) Derivative(x, τ []float64) []float64 {
	q0, q1, q2, q3 := x[0], x[1], x[2], x[3]
	ω := x[4:7]
	Iω := MxV33(eom.inertia, ω)
	gyro := cross(ω, Iω)
	ωdot := MxV33(eom.inertiaInv, []float64{τ[0] - gyro[0], τ[1] - gyro[1], τ[2] - gyro[2]})
	return []float64{
		-0.5 * (q1*ω[0] + q2*ω[1] + q3*ω[2]),
		0.5 * (q0*ω[0] + q2*ω[2] - q3*ω[1]),
		0.5 * (q0*ω[1] + q3*ω[0] - q1*ω[2]),
		0.5 * (q0*ω[2] + q1*ω[1] - q2*ω[0]),
		ωdot[0], ωdot[1], ωdot[2],
	}
}

// AngularMomentum returns I·ω in the body-fixed frame for the given state.
func (eom *RotationalEOM) AngularMomentum(rs RotationalState) []float64 {
	return MxV33(eom.inertia, rs.Velocity)
}

// InertialAngularMomentum returns the angular momentum expressed in the base
// frame, which torque-free motion conserves component by component.
func (eom *RotationalEOM) InertialAngularMomentum(rs RotationalState) []float64 {
	return rs.Q.Rotate(eom.AngularMomentum(rs))
}
