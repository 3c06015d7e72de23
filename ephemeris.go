package attdyn

import (
	"github.com/gonum/matrix/mat64"
)

// Ephemeris answers translational state queries in a fixed base frame.
// States are [rx ry rz vx vy vz] in meters and meters per second.
type Ephemeris interface {
	State(et float64) ([]float64, error)
	Frame() string
}

// ConstantEphemeris returns the same state at every epoch. Useful for central
// bodies pinned at the frame origin.
type ConstantEphemeris struct {
	state []float64
	frame string
}

// NewConstantEphemeris creates an ephemeris stuck at the provided state.
func NewConstantEphemeris(state []float64, frame string) ConstantEphemeris {
	return ConstantEphemeris{state, frame}
}

// State implements the Ephemeris interface.
func (e ConstantEphemeris) State(et float64) ([]float64, error) {
	out := make([]float64, 6)
	copy(out, e.state)
	return out, nil
}

// Frame implements the Ephemeris interface.
func (e ConstantEphemeris) Frame() string {
	return e.frame
}

// TabulatedEphemeris interpolates translational states from a time history.
type TabulatedEphemeris struct {
	interp Interpolator
	frame  string
}

// NewTabulatedEphemeris creates an ephemeris backed by the given interpolator.
func NewTabulatedEphemeris(interp Interpolator, frame string) TabulatedEphemeris {
	return TabulatedEphemeris{interp, frame}
}

// State implements the Ephemeris interface.
func (e TabulatedEphemeris) State(et float64) ([]float64, error) {
	return e.interp.Interpolate(et)
}

// Frame implements the Ephemeris interface.
func (e TabulatedEphemeris) Frame() string {
	return e.frame
}

// RotationalEphemeris answers orientation queries between a base frame
// (typically inertial) and a target frame (typically body-fixed). The six
// queries are mutually consistent: the two rotations are conjugates, the
// derivative matrices are transposes of each other, and the two angular
// velocity vectors are the same physical vector expressed in either frame.
type RotationalEphemeris interface {
	// RotationToBaseFrame returns the quaternion mapping target-frame
	// components to base-frame components at the query epoch.
	RotationToBaseFrame(et float64) (Quaternion, error)
	// RotationToTargetFrame returns the inverse rotation.
	RotationToTargetFrame(et float64) (Quaternion, error)
	// DerivativeOfRotationToBaseFrame returns the time derivative of the
	// rotation matrix form of RotationToBaseFrame.
	DerivativeOfRotationToBaseFrame(et float64) (*mat64.Dense, error)
	// DerivativeOfRotationToTargetFrame returns the time derivative of the
	// rotation matrix form of RotationToTargetFrame.
	DerivativeOfRotationToTargetFrame(et float64) (*mat64.Dense, error)
	// RotationalVelocityInBaseFrame returns the angular velocity of the
	// target frame with respect to the base frame, in base-frame components.
	RotationalVelocityInBaseFrame(et float64) ([]float64, error)
	// RotationalVelocityInTargetFrame returns the same vector in
	// target-frame components.
	RotationalVelocityInTargetFrame(et float64) ([]float64, error)
	// BaseFrame returns the base frame name.
	BaseFrame() string
	// TargetFrame returns the target frame name.
	TargetFrame() string
}

// RotationalVelocityFromMatrices recovers the base-frame angular velocity from
// a rotation-to-target matrix and the derivative of the rotation-to-base
// matrix, via the kinematic identity ω̃ = Ṙ_base·R_target.
func RotationalVelocityFromMatrices(rotToTarget, dRotToBase *mat64.Dense) []float64 {
	var ωtilde mat64.Dense
	ωtilde.Mul(dRotToBase, rotToTarget)
	return vee(&ωtilde)
}

// TransformStateToBaseFrame maps a translational state expressed in the
// target frame of the provided rotational ephemeris into its base frame,
// accounting for the frame's angular velocity in the velocity mapping.
func TransformStateToBaseFrame(state []float64, et float64, re RotationalEphemeris) ([]float64, error) {
	q, err := re.RotationToBaseFrame(et)
	if err != nil {
		return nil, err
	}
	ω, err := re.RotationalVelocityInBaseFrame(et)
	if err != nil {
		return nil, err
	}
	r := q.Rotate(state[0:3])
	v := q.Rotate(state[3:6])
	ωxr := cross(ω, r)
	return []float64{r[0], r[1], r[2], v[0] + ωxr[0], v[1] + ωxr[1], v[2] + ωxr[2]}, nil
}

// ConstantRotationalEphemeris holds a fixed orientation. Angular velocities
// are zero and derivative matrices are the zero matrix.
type ConstantRotationalEphemeris struct {
	q          Quaternion
	base, targ string
}

// NewConstantRotationalEphemeris creates a rotational ephemeris frozen at the
// provided target-to-base rotation.
func NewConstantRotationalEphemeris(q Quaternion, baseFrame, targetFrame string) ConstantRotationalEphemeris {
	return ConstantRotationalEphemeris{q.Normalize(), baseFrame, targetFrame}
}

// RotationToBaseFrame implements the RotationalEphemeris interface.
func (e ConstantRotationalEphemeris) RotationToBaseFrame(et float64) (Quaternion, error) {
	return e.q, nil
}

// RotationToTargetFrame implements the RotationalEphemeris interface.
func (e ConstantRotationalEphemeris) RotationToTargetFrame(et float64) (Quaternion, error) {
	return e.q.Conj(), nil
}

// DerivativeOfRotationToBaseFrame implements the RotationalEphemeris interface.
func (e ConstantRotationalEphemeris) DerivativeOfRotationToBaseFrame(et float64) (*mat64.Dense, error) {
	return mat64.NewDense(3, 3, nil), nil
}

// DerivativeOfRotationToTargetFrame implements the RotationalEphemeris interface.
func (e ConstantRotationalEphemeris) DerivativeOfRotationToTargetFrame(et float64) (*mat64.Dense, error) {
	return mat64.NewDense(3, 3, nil), nil
}

// RotationalVelocityInBaseFrame implements the RotationalEphemeris interface.
func (e ConstantRotationalEphemeris) RotationalVelocityInBaseFrame(et float64) ([]float64, error) {
	return []float64{0, 0, 0}, nil
}

// RotationalVelocityInTargetFrame implements the RotationalEphemeris interface.
func (e ConstantRotationalEphemeris) RotationalVelocityInTargetFrame(et float64) ([]float64, error) {
	return []float64{0, 0, 0}, nil
}

// BaseFrame implements the RotationalEphemeris interface.
func (e ConstantRotationalEphemeris) BaseFrame() string {
	return e.base
}

// TargetFrame implements the RotationalEphemeris interface.
func (e ConstantRotationalEphemeris) TargetFrame() string {
	return e.targ
}

// SimpleRotationalEphemeris models a uniform spin about the target Z axis, the
// classical IAU-style planetary rotation model without precession terms.
type SimpleRotationalEphemeris struct {
	θ0         float64 // angle from base to target X axis at refEpoch
	rate       float64 // rad/s
	refEpoch   float64
	base, targ string
}

// NewSimpleRotationalEphemeris creates a uniform-spin rotational ephemeris
// with meridian angle θ0 at the reference epoch and the given spin rate.
func NewSimpleRotationalEphemeris(θ0, rate, refEpoch float64, baseFrame, targetFrame string) SimpleRotationalEphemeris {
	return SimpleRotationalEphemeris{θ0, rate, refEpoch, baseFrame, targetFrame}
}

func (e SimpleRotationalEphemeris) angle(et float64) float64 {
	return e.θ0 + e.rate*(et-e.refEpoch)
}

// RotationToBaseFrame implements the RotationalEphemeris interface.
func (e SimpleRotationalEphemeris) RotationToBaseFrame(et float64) (Quaternion, error) {
	return RotatingPlanetocentricToInertialQuaternion(e.angle(et)), nil
}

// RotationToTargetFrame implements the RotationalEphemeris interface.
func (e SimpleRotationalEphemeris) RotationToTargetFrame(et float64) (Quaternion, error) {
	return InertialToPlanetocentricQuaternion(e.angle(et)), nil
}

// DerivativeOfRotationToBaseFrame implements the RotationalEphemeris interface.
func (e SimpleRotationalEphemeris) DerivativeOfRotationToBaseFrame(et float64) (*mat64.Dense, error) {
	// Ṙ_base = R_base·ω̃ with ω in the target frame along +Z.
	var m mat64.Dense
	m.Mul(RotatingPlanetocentricToInertialMatrix(e.angle(et)), skew([]float64{0, 0, e.rate}))
	return &m, nil
}

// DerivativeOfRotationToTargetFrame implements the RotationalEphemeris interface.
func (e SimpleRotationalEphemeris) DerivativeOfRotationToTargetFrame(et float64) (*mat64.Dense, error) {
	d, _ := e.DerivativeOfRotationToBaseFrame(et)
	var m mat64.Dense
	m.Clone(d.T())
	return &m, nil
}

// RotationalVelocityInBaseFrame implements the RotationalEphemeris interface.
func (e SimpleRotationalEphemeris) RotationalVelocityInBaseFrame(et float64) ([]float64, error) {
	// The spin axis is shared by both frames.
	return []float64{0, 0, e.rate}, nil
}

// RotationalVelocityInTargetFrame implements the RotationalEphemeris interface.
func (e SimpleRotationalEphemeris) RotationalVelocityInTargetFrame(et float64) ([]float64, error) {
	return []float64{0, 0, e.rate}, nil
}

// BaseFrame implements the RotationalEphemeris interface.
func (e SimpleRotationalEphemeris) BaseFrame() string {
	return e.base
}

// TargetFrame implements the RotationalEphemeris interface.
func (e SimpleRotationalEphemeris) TargetFrame() string {
	return e.targ
}

// TabulatedRotationalEphemeris interpolates a propagated rotational state
// history. Each table row is the 7-component rotational state vector, the
// target-to-base quaternion followed by the target-frame angular velocity.
// Rotation queries renormalize the interpolated quaternion; derivative
// matrices are built analytically from the interpolated state, so finite
// differencing a rotation query and asking for the derivative agree to the
// interpolation order.
type TabulatedRotationalEphemeris struct {
	interp     Interpolator
	base, targ string
}

// NewTabulatedRotationalEphemeris creates a rotational ephemeris backed by the
// given interpolator over 7-component rotational states.
func NewTabulatedRotationalEphemeris(interp Interpolator, baseFrame, targetFrame string) TabulatedRotationalEphemeris {
	return TabulatedRotationalEphemeris{interp, baseFrame, targetFrame}
}

func (e TabulatedRotationalEphemeris) state(et float64) (RotationalState, error) {
	v, err := e.interp.Interpolate(et)
	if err != nil {
		return RotationalState{}, err
	}
	return NewRotationalStateFromVector(v), nil
}

// RotationToBaseFrame implements the RotationalEphemeris interface.
func (e TabulatedRotationalEphemeris) RotationToBaseFrame(et float64) (Quaternion, error) {
	rs, err := e.state(et)
	if err != nil {
		return Quaternion{}, err
	}
	return rs.Q, nil
}

// RotationToTargetFrame implements the RotationalEphemeris interface.
func (e TabulatedRotationalEphemeris) RotationToTargetFrame(et float64) (Quaternion, error) {
	q, err := e.RotationToBaseFrame(et)
	if err != nil {
		return Quaternion{}, err
	}
	return q.Conj(), nil
}

// DerivativeOfRotationToBaseFrame implements the RotationalEphemeris interface.
func (e TabulatedRotationalEphemeris) DerivativeOfRotationToBaseFrame(et float64) (*mat64.Dense, error) {
	rs, err := e.state(et)
	if err != nil {
		return nil, err
	}
	var m mat64.Dense
	m.Mul(rs.Q.RotationMatrix(), skew(rs.Velocity))
	return &m, nil
}

// DerivativeOfRotationToTargetFrame implements the RotationalEphemeris interface.
func (e TabulatedRotationalEphemeris) DerivativeOfRotationToTargetFrame(et float64) (*mat64.Dense, error) {
	d, err := e.DerivativeOfRotationToBaseFrame(et)
	if err != nil {
		return nil, err
	}
	var m mat64.Dense
	m.Clone(d.T())
	return &m, nil
}

// RotationalVelocityInBaseFrame implements the RotationalEphemeris interface.
func (e TabulatedRotationalEphemeris) RotationalVelocityInBaseFrame(et float64) ([]float64, error) {
	rs, err := e.state(et)
	if err != nil {
		return nil, err
	}
	return rs.Q.Rotate(rs.Velocity), nil
}

// RotationalVelocityInTargetFrame implements the RotationalEphemeris interface.
func (e TabulatedRotationalEphemeris) RotationalVelocityInTargetFrame(et float64) ([]float64, error) {
	rs, err := e.state(et)
	if err != nil {
		return nil, err
	}
	return rs.Velocity, nil
}

// BaseFrame implements the RotationalEphemeris interface.
func (e TabulatedRotationalEphemeris) BaseFrame() string {
	return e.base
}

// TargetFrame implements the RotationalEphemeris interface.
func (e TabulatedRotationalEphemeris) TargetFrame() string {
	return e.targ
}
