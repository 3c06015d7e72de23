package attdyn

import (
	"math"
	"testing"
)

func TestConstantTorque(t *testing.T) {
	b := NewBody("sat", 100)
	bm := BodyMap{b.Name: b}
	τ := ConstantTorque{Value: []float64{1, -2, 3}}.Torque(0, b, bm)
	if !vectorsEqual(τ, []float64{1, -2, 3}, 0) {
		t.Fatal("constant torque altered")
	}
	// The model hands out copies, not its own backing slice.
	τ[0] = 99
	if (ConstantTorque{Value: []float64{1, -2, 3}}).Value[0] != 1 {
		t.Fatal("constant torque shares its backing slice")
	}
}

func TestTorqueCollection(t *testing.T) {
	b := NewBody("sat", 100)
	bm := BodyMap{b.Name: b}
	tc := TorqueCollection{
		ConstantTorque{Value: []float64{1, 0, 0}},
		ConstantTorque{Value: []float64{0.5, -1, 2}},
	}
	if !vectorsEqual(tc.Torque(0, b, bm), []float64{1.5, -1, 2}, 0) {
		t.Fatal("torque collection did not sum its members")
	}
}

func TestGravityGradientTorque(t *testing.T) {
	mars := NewMars()
	sat := NewBody("sat", 100)
	sat.InertiaTensor = DiagonalTensor(1, 2, 3)
	bm := BodyMap{mars.Name: mars, sat.Name: sat}
	d := 9376e3
	sat.setCurrentState([]float64{d, 0, 0, 0, 0, 0})
	gg := GravityGradientTorque{Central: mars.Name}

	// A principal axis pointing at the central body is an equilibrium.
	τ := gg.Torque(0, sat, bm)
	if τ[0] != 0 || τ[1] != 0 || τ[2] != 0 {
		t.Fatalf("nadir-pointing principal axis has a nonzero torque: %+v", τ)
	}
	// Tilted about Z by 45 degrees, the restoring torque is
	// 3μ/d³ · sin(45)cos(45) · (I1-I2) about the body Z axis.
	sat.setCurrentAttitude(RotationalState{NewQuaternionFromAngleAxis(math.Pi/4, []float64{0, 0, 1}), []float64{0, 0, 0}})
	τ = gg.Torque(0, sat, bm)
	want := 3 * mars.GM() / (d * d * d) * 0.5 * (1 - 2)
	if !vectorsEqual(τ, []float64{0, 0, want}, math.Abs(want)*1e-14) {
		t.Fatalf("gravity gradient torque %+v, want z component %g", τ, want)
	}
}

func TestAerodynamicTorque(t *testing.T) {
	earth := NewEarth()
	earth.RotationRate = 0 // still atmosphere
	craft := NewBody("craft", 500)
	bm := BodyMap{earth.Name: earth, craft.Name: craft}
	v := 100.0
	craft.setCurrentState([]float64{earth.Radius, 0, 0, 0, v, 0})
	force := AerodynamicForce{Central: earth.Name, RefArea: 2, SurfaceDensity: 1.225, ScaleHeight: 7200, Coefficients: []float64{1.2, 0, 0}}
	arm := 0.1
	τ := AerodynamicTorque{Force: force, Arm: []float64{arm, 0, 0}}.Torque(0, craft, bm)
	// Drag acts along body -Y here, so the X arm turns it into a -Z torque.
	drag := 0.5 * 1.225 * v * v * 2 * 1.2
	if !vectorsEqual(τ, []float64{0, 0, -arm * drag}, drag*arm*1e-12) {
		t.Fatalf("aerodynamic torque %+v, want z component %g", τ, -arm*drag)
	}
}
