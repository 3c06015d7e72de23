package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/celeritas-sim/attdyn"
)

var (
	days float64
	step float64
	csv  bool
)

func init() {
	flag.Float64Var(&days, "days", 7, "propagation duration in days")
	flag.Float64Var(&step, "step", attdyn.StepSize, "integration step in seconds")
	flag.BoolVar(&csv, "csv", false, "export the state history as CSV (needs ATTDYN_CONFIG)")
}

func main() {
	flag.Parse()
	mars := attdyn.NewMars()
	phobos := attdyn.NewPhobos()
	bodies := attdyn.BodyMap{mars.Name: mars, phobos.Name: phobos}
	mars.SetEphemeris(attdyn.NewConstantEphemeris(make([]float64, 6), "J2000"))
	mars.SetRotationalEphemeris(attdyn.NewSimpleRotationalEphemeris(0, mars.RotationRate, 0, "J2000", "Mars_fixed"))

	// Circular equatorial orbit at the Phobos semi-major axis.
	a := 9376e3
	n := math.Sqrt(mars.GM() / (a * a * a))
	orbit := attdyn.NewTranslationalBlock(phobos, attdyn.CentralGravity{Central: mars.Name},
		[]float64{a, 0, 0, 0, n * a, 0}, bodies, "J2000")

	// Tidally locked initial attitude, body X toward Mars.
	q0 := attdyn.RotatingPlanetocentricToInertialQuaternion(math.Pi)
	attitude := attdyn.NewRotationalBlock(phobos,
		attdyn.GravityGradientTorque{Central: mars.Name},
		attdyn.RotationalState{Q: q0, Velocity: []float64{0, 0, n}},
		bodies, "J2000")

	conf := attdyn.ExportConfig{}
	if csv {
		conf = attdyn.ExportConfig{Filename: "phobos", AsCSV: true}
	}
	prop := attdyn.NewPrecisePropagation("phobos", bodies,
		[]attdyn.Block{orbit, attitude}, 0, days*86400, step,
		[]attdyn.DependentVariable{attdyn.TorqueDependentVariable(phobos.Name, attdyn.GravityGradientTorque{Central: mars.Name}, true)},
		conf)
	prop.Propagate()

	// Query the installed ephemerides at the midpoint.
	et := days * 86400 / 2
	q, err := phobos.RotationalEphemeris().RotationToBaseFrame(et)
	if err != nil {
		panic(err)
	}
	ω, err := phobos.RotationalEphemeris().RotationalVelocityInTargetFrame(et)
	if err != nil {
		panic(err)
	}
	fmt.Printf("et=%.0f s  q=[%.6f %.6f %.6f %.6f]  ω=[%.3e %.3e %.3e] rad/s\n", et, q.W, q.X, q.Y, q.Z, ω[0], ω[1], ω[2])
}
