package attdyn

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
)

/* Body entities are the shared context of a propagation: every torque and
acceleration model reads them, and installing ephemerides on them is the only
externally visible mutation of a run. */

// Body defines a celestial object or vehicle taking part in a propagation.
// The inertia tensor is expressed in the body-fixed frame and is read-only
// for the duration of a propagation; the body exclusively owns its
// ephemerides, which a new propagation replaces.
type Body struct {
	Name          string
	Radius        float64      // mean radius in m
	Mass          float64      // in kg
	RotationRate  float64      // spin rate about the body Z axis in rad/s
	InertiaTensor *mat64.Dense // 3x3, body-fixed frame, kg·m²

	μ            float64
	ephemeris    Ephemeris
	rotEphemeris RotationalEphemeris

	// Mid-integration state, refreshed by the propagator before each
	// derivative evaluation. This is what closes the coupling loop between
	// concurrently propagated translational and rotational blocks.
	currentState    []float64
	currentAttitude RotationalState
}

// NewBody returns a body with the provided name and mass and no gravity field.
func NewBody(name string, mass float64) *Body {
	return &Body{Name: name, Mass: mass, currentAttitude: RotationalState{IdentityQuaternion(), []float64{0, 0, 0}}}
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (b *Body) GM() float64 {
	return b.μ
}

// SetEphemeris installs the translational ephemeris, discarding any prior one.
func (b *Body) SetEphemeris(e Ephemeris) {
	b.ephemeris = e
}

// Ephemeris returns the installed translational ephemeris.
func (b *Body) Ephemeris() Ephemeris {
	return b.ephemeris
}

// SetRotationalEphemeris installs the rotational ephemeris, discarding any prior one.
func (b *Body) SetRotationalEphemeris(re RotationalEphemeris) {
	b.rotEphemeris = re
}

// RotationalEphemeris returns the installed rotational ephemeris.
func (b *Body) RotationalEphemeris() RotationalEphemeris {
	return b.rotEphemeris
}

// setCurrentState updates the mid-integration inertial state [r v].
func (b *Body) setCurrentState(s []float64) {
	b.currentState = s
}

// CurrentState returns the mid-integration inertial position and velocity.
func (b *Body) CurrentState() (r, v []float64) {
	if b.currentState == nil {
		return []float64{0, 0, 0}, []float64{0, 0, 0}
	}
	return b.currentState[0:3], b.currentState[3:6]
}

// setCurrentAttitude updates the mid-integration rotational state.
func (b *Body) setCurrentAttitude(rs RotationalState) {
	b.currentAttitude = rs
}

// CurrentAttitude returns the mid-integration rotational state.
func (b *Body) CurrentAttitude() RotationalState {
	return b.currentAttitude
}

// String implements the Stringer interface.
func (b *Body) String() string {
	return b.Name + " body"
}

// BodyMap is the explicit shared context of a propagation, mapping body names
// to their entities. Exactly one propagation run owns the map for its
// duration; queries on installed ephemerides afterwards are read-only.
type BodyMap map[string]*Body

// MustGet returns the named body and panics if it is not in the map.
func (bm BodyMap) MustGet(name string) *Body {
	b, found := bm[name]
	if !found {
		panic(fmt.Errorf("body %q not in body map", name))
	}
	return b
}

/* Default bodies, SI units. */

// NewEarth is home.
func NewEarth() *Body {
	return &Body{Name: "Earth", Radius: 6378136.6, Mass: 5.97237e24,
		RotationRate: EarthRotationRate, μ: 3.986004418e14,
		currentAttitude: RotationalState{IdentityQuaternion(), []float64{0, 0, 0}}}
}

// NewMars is the vacation place.
func NewMars() *Body {
	return &Body{Name: "Mars", Radius: 3389500, Mass: 6.4171e23,
		RotationRate: 7.088218e-5, μ: 4.282837e13,
		currentAttitude: RotationalState{IdentityQuaternion(), []float64{0, 0, 0}}}
}

// NewPhobos returns Mars' larger moon with its inertia tensor set, which is
// what makes it the canonical rotational propagation test subject.
func NewPhobos() *Body {
	b := &Body{Name: "Phobos", Radius: 11270, Mass: 1.0659e16, μ: 7.113e5,
		currentAttitude: RotationalState{IdentityQuaternion(), []float64{0, 0, 0}}}
	scale := b.Radius * b.Radius * b.Mass
	b.InertiaTensor = DiagonalTensor(0.3615*scale, 0.4265*scale, 0.5024*scale)
	return b
}
