package attdyn

// TorqueModel evaluates a torque acting on a body, expressed in the body-fixed
// frame in N·m. Models read the acting body's mid-integration state and, via
// the body map, the states of any other bodies they need.
type TorqueModel interface {
	Torque(et float64, b *Body, bm BodyMap) []float64
}

// ConstantTorque applies a fixed body-frame torque.
type ConstantTorque struct {
	Value []float64
}

// Torque implements the TorqueModel interface.
func (t ConstantTorque) Torque(et float64, b *Body, bm BodyMap) []float64 {
	return []float64{t.Value[0], t.Value[1], t.Value[2]}
}

// GravityGradientTorque is the second-degree gravitational torque exerted by a
// central body on an extended body, 3μ/r⁵·(r̃ I r̃) with r̃ the body-frame
// position of the central body relative to the acting body.
type GravityGradientTorque struct {
	Central string // name of the torque-exerting body
}

// Torque implements the TorqueModel interface.
func (t GravityGradientTorque) Torque(et float64, b *Body, bm BodyMap) []float64 {
	central := bm.MustGet(t.Central)
	rSelf, _ := b.CurrentState()
	rCentral, _ := central.CurrentState()
	// Relative position of the central body, rotated into the body frame.
	rel := []float64{rCentral[0] - rSelf[0], rCentral[1] - rSelf[1], rCentral[2] - rSelf[2]}
	r := norm(rel)
	û := b.CurrentAttitude().Q.Conj().Rotate(unit(rel))
	Iû := MxV33(b.InertiaTensor, û)
	τ := cross(û, Iû)
	k := 3 * central.GM() / (r * r * r)
	return []float64{k * τ[0], k * τ[1], k * τ[2]}
}

// AerodynamicTorque is the torque of the aerodynamic force about the center of
// mass, for a force reference point offset by Arm from the center of mass in
// body axes. It reuses the force model's body-frame force evaluation.
type AerodynamicTorque struct {
	Force AerodynamicForce
	Arm   []float64 // body-frame moment arm in m
}

// Torque implements the TorqueModel interface.
func (t AerodynamicTorque) Torque(et float64, b *Body, bm BodyMap) []float64 {
	return cross(t.Arm, t.Force.bodyFrameForce(et, b, bm))
}

// TorqueCollection sums the torques of its members.
type TorqueCollection []TorqueModel

// Torque implements the TorqueModel interface.
func (tc TorqueCollection) Torque(et float64, b *Body, bm BodyMap) []float64 {
	total := []float64{0, 0, 0}
	for _, model := range tc {
		τ := model.Torque(et, b, bm)
		total[0] += τ[0]
		total[1] += τ[1]
		total[2] += τ[2]
	}
	return total
}
