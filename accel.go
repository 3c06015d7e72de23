package attdyn

import (
	"math"
)

// AccelerationModel evaluates an acceleration acting on a body, expressed in
// the propagation base frame in m/s². Models read the acting body's
// mid-integration state and, via the body map, the states of any other bodies
// they need, which is what couples translational motion to attitude.
type AccelerationModel interface {
	Accelerate(et float64, b *Body, bm BodyMap) []float64
}

// relativeState returns position and velocity of b relative to the named body.
func relativeState(b *Body, bm BodyMap, name string) (r, v []float64) {
	rSelf, vSelf := b.CurrentState()
	rOther, vOther := bm.MustGet(name).CurrentState()
	r = []float64{rSelf[0] - rOther[0], rSelf[1] - rOther[1], rSelf[2] - rOther[2]}
	v = []float64{vSelf[0] - vOther[0], vSelf[1] - vOther[1], vSelf[2] - vOther[2]}
	return
}

// CentralGravity is the point-mass attraction of a central body.
type CentralGravity struct {
	Central string
}

// Accelerate implements the AccelerationModel interface.
func (g CentralGravity) Accelerate(et float64, b *Body, bm BodyMap) []float64 {
	rel, _ := relativeState(b, bm, g.Central)
	r := norm(rel)
	k := -bm.MustGet(g.Central).GM() / (r * r * r)
	return []float64{k * rel[0], k * rel[1], k * rel[2]}
}

// ZonalHarmonics adds the J2 through J4 zonal field of a central body, with
// the base-frame Z axis along the central body's spin axis.
type ZonalHarmonics struct {
	Central    string
	J2, J3, J4 float64
}

// Accelerate implements the AccelerationModel interface.
func (z ZonalHarmonics) Accelerate(et float64, b *Body, bm BodyMap) []float64 {
	central := bm.MustGet(z.Central)
	rel, _ := relativeState(b, bm, z.Central)
	x, y := rel[0], rel[1]
	z2 := rel[2] * rel[2]
	z3 := z2 * rel[2]
	r2 := x*x + y*y + z2
	r252 := math.Pow(r2, 5/2.)
	r272 := math.Pow(r2, 7/2.)
	acc := make([]float64, 3)
	accJ2 := (3 / 2.) * z.J2 * math.Pow(central.Radius, 2) * central.GM()
	acc[0] += accJ2 * (5*x*z2/r272 - x/r252)
	acc[1] += accJ2 * (5*y*z2/r272 - y/r252)
	acc[2] += accJ2 * (5*z3/r272 - 3*rel[2]/r252)
	if z.J3 != 0 {
		r292 := math.Pow(r2, 9/2.)
		z4 := z2 * z2
		accJ3 := z.J3 * math.Pow(central.Radius, 3) * central.GM()
		acc[0] += (5 / 2.) * accJ3 * (7*x*z3/r292 - 3*x*rel[2]/r272)
		acc[1] += (5 / 2.) * accJ3 * (7*y*z3/r292 - 3*y*rel[2]/r272)
		acc[2] += 0.5 * accJ3 * (35*z4/r292 - 30*z2/r272 + 3/r252)
	}
	if z.J4 != 0 {
		r292 := math.Pow(r2, 9/2.)
		r2112 := math.Pow(r2, 11/2.)
		z4 := z2 * z2
		z5 := z4 * rel[2]
		accJ4 := (15 / 8.) * z.J4 * math.Pow(central.Radius, 4) * central.GM()
		acc[0] += accJ4 * (x/r272 - 14*x*z2/r292 + 21*x*z4/r2112)
		acc[1] += accJ4 * (y/r272 - 14*y*z2/r292 + 21*y*z4/r2112)
		acc[2] += accJ4 * (5*rel[2]/r272 - (70/3.)*z3/r292 + 21*z5/r2112)
	}
	return acc
}

// AerodynamicForce is the drag and lift of an exponential atmosphere that
// co-rotates with the central body. Coefficients are [CD CS CL] in the
// airspeed-based aerodynamic frame; the body-frame force orientation follows
// the acting body's current attitude, which is what couples the translational
// dynamics to the concurrently propagated rotational state.
type AerodynamicForce struct {
	Central        string
	RefArea        float64   // m²
	SurfaceDensity float64   // kg/m³ at the central body radius
	ScaleHeight    float64   // m
	Coefficients   []float64 // [CD CS CL], aerodynamic frame
}

// airspeed returns the velocity relative to the co-rotating atmosphere.
func (a AerodynamicForce) airspeed(b *Body, bm BodyMap) (rel, vAir []float64) {
	central := bm.MustGet(a.Central)
	rel, vRel := relativeState(b, bm, a.Central)
	vAtm := cross([]float64{0, 0, central.RotationRate}, rel)
	vAir = []float64{vRel[0] - vAtm[0], vRel[1] - vAtm[1], vRel[2] - vAtm[2]}
	return
}

// bodyFrameForce evaluates the aerodynamic force in the body-fixed frame.
func (a AerodynamicForce) bodyFrameForce(et float64, b *Body, bm BodyMap) []float64 {
	central := bm.MustGet(a.Central)
	rel, vAir := a.airspeed(b, bm)
	h := norm(rel) - central.Radius
	ρ := a.SurfaceDensity * math.Exp(-h/a.ScaleHeight)
	V := norm(vAir)
	qS := 0.5 * ρ * V * V * a.RefArea
	// Angle of attack and sideslip from the body-frame airspeed direction.
	u := b.CurrentAttitude().Q.Conj().Rotate(unit(vAir))
	α := math.Atan2(u[2], u[0])
	β := math.Asin(u[1])
	fAero := []float64{-qS * a.Coefficients[0], -qS * a.Coefficients[1], -qS * a.Coefficients[2]}
	return MxV33(AerodynamicToBodyMatrix(α, β), fAero)
}

// Accelerate implements the AccelerationModel interface.
func (a AerodynamicForce) Accelerate(et float64, b *Body, bm BodyMap) []float64 {
	f := b.CurrentAttitude().Q.Rotate(a.bodyFrameForce(et, b, bm))
	return []float64{f[0] / b.Mass, f[1] / b.Mass, f[2] / b.Mass}
}

// AccelerationCollection sums the accelerations of its members.
type AccelerationCollection []AccelerationModel

// Accelerate implements the AccelerationModel interface.
func (ac AccelerationCollection) Accelerate(et float64, b *Body, bm BodyMap) []float64 {
	total := []float64{0, 0, 0}
	for _, model := range ac {
		acc := model.Accelerate(et, b, bm)
		total[0] += acc[0]
		total[1] += acc[1]
		total[2] += acc[2]
	}
	return total
}
