package attdyn

import (
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
	"github.com/ready-steady/ode/dopri"
)

const (
	// StepSize is the default step size of propagation in seconds.
	StepSize = 10.0
	// EphemerisPoints is the Lagrange point count of installed tabulated
	// ephemerides. Eight points keep finite differences of interpolated
	// rotations consistent with the analytic derivative queries.
	EphemerisPoints = 8
)

var wg sync.WaitGroup

/* Handles the coupled translational and rotational propagations. */

// Block is one propagated sub-state of a run: a body, its dynamics, and the
// slice of the global state vector it owns. Blocks are propagated
// concurrently in a single integration so they may read each other's
// mid-integration states through the body map.
type Block interface {
	// Body returns the propagated body.
	Body() *Body
	// StateSize returns the sub-state dimension.
	StateSize() int
	// InitialState returns the initial sub-state vector.
	InitialState() []float64
	// SetCurrent pushes a raw sub-state into the body's mid-integration
	// fields for other blocks and models to read.
	SetCurrent(s []float64)
	// Derivative returns the sub-state time derivative.
	Derivative(et float64, s []float64) []float64
	// Install replaces the body's ephemeris with a tabulated one built from
	// the recorded sub-state history.
	Install(times []float64, states [][]float64)
}

// RotationalBlock propagates the 7-component rotational state of a body under
// a torque model.
type RotationalBlock struct {
	body      *Body
	torques   TorqueModel
	initial   RotationalState
	bodies    BodyMap
	baseFrame string
	eom       *RotationalEOM
}

// NewRotationalBlock creates a rotational block. A nil torque model means
// torque-free motion. The body must carry an inertia tensor.
func NewRotationalBlock(b *Body, torques TorqueModel, initial RotationalState, bodies BodyMap, baseFrame string) *RotationalBlock {
	blk := &RotationalBlock{b, torques, initial, bodies, baseFrame, NewRotationalEOM(b.InertiaTensor)}
	b.setCurrentAttitude(initial)
	return blk
}

// EOM returns the block's equations of motion, mostly for conserved-quantity
// checks on the propagated history.
func (blk *RotationalBlock) EOM() *RotationalEOM {
	return blk.eom
}

// Body implements the Block interface.
func (blk *RotationalBlock) Body() *Body {
	return blk.body
}

// StateSize implements the Block interface.
func (blk *RotationalBlock) StateSize() int {
	return 7
}

// InitialState implements the Block interface.
func (blk *RotationalBlock) InitialState() []float64 {
	return blk.initial.Vector()
}

// SetCurrent implements the Block interface.
func (blk *RotationalBlock) SetCurrent(s []float64) {
	blk.body.setCurrentAttitude(NewRotationalStateFromVector(s))
}

// Derivative implements the Block interface.
func (blk *RotationalBlock) Derivative(et float64, s []float64) []float64 {
	τ := []float64{0, 0, 0}
	if blk.torques != nil {
		τ = blk.torques.Torque(et, blk.body, blk.bodies)
	}
	return blk.eom.Derivative(s, τ)
}

// Install implements the Block interface.
func (blk *RotationalBlock) Install(times []float64, states [][]float64) {
	interp := NewLagrangeInterpolator(times, states, EphemerisPoints)
	blk.body.SetRotationalEphemeris(NewTabulatedRotationalEphemeris(interp, blk.baseFrame, blk.body.Name+"_fixed"))
}

// TranslationalBlock propagates the Cartesian [r v] state of a body under an
// acceleration model, in the propagation base frame.
type TranslationalBlock struct {
	body    *Body
	accels  AccelerationModel
	initial []float64
	bodies  BodyMap
	frame   string
}

// NewTranslationalBlock creates a translational block from an initial
// base-frame state [r v].
func NewTranslationalBlock(b *Body, accels AccelerationModel, initial []float64, bodies BodyMap, frame string) *TranslationalBlock {
	blk := &TranslationalBlock{b, accels, initial, bodies, frame}
	b.setCurrentState(initial)
	return blk
}

// Body implements the Block interface.
func (blk *TranslationalBlock) Body() *Body {
	return blk.body
}

// StateSize implements the Block interface.
func (blk *TranslationalBlock) StateSize() int {
	return 6
}

// InitialState implements the Block interface.
func (blk *TranslationalBlock) InitialState() []float64 {
	out := make([]float64, 6)
	copy(out, blk.initial)
	return out
}

// SetCurrent implements the Block interface.
func (blk *TranslationalBlock) SetCurrent(s []float64) {
	cur := make([]float64, 6)
	copy(cur, s)
	blk.body.setCurrentState(cur)
}

// Derivative implements the Block interface.
func (blk *TranslationalBlock) Derivative(et float64, s []float64) []float64 {
	acc := []float64{0, 0, 0}
	if blk.accels != nil {
		acc = blk.accels.Accelerate(et, blk.body, blk.bodies)
	}
	return []float64{s[3], s[4], s[5], acc[0], acc[1], acc[2]}
}

// Install implements the Block interface.
func (blk *TranslationalBlock) Install(times []float64, states [][]float64) {
	interp := NewLagrangeInterpolator(times, states, EphemerisPoints)
	blk.body.SetEphemeris(NewTabulatedEphemeris(interp, blk.frame))
}

// MassRateModel evaluates the mass flow of a body in kg/s, negative for
// expenditure.
type MassRateModel interface {
	Rate(et float64, b *Body, bm BodyMap) float64
}

// ConstantMassRate drains (or adds) mass at a fixed rate.
type ConstantMassRate struct {
	Value float64 // kg/s
}

// Rate implements the MassRateModel interface.
func (c ConstantMassRate) Rate(et float64, b *Body, bm BodyMap) float64 {
	return c.Value
}

// MassBlock propagates the mass of a body under a mass rate model. The
// mid-integration mass is pushed into the body, where mass-dependent models
// such as the aerodynamic acceleration read it.
type MassBlock struct {
	body    *Body
	rate    MassRateModel
	initial float64
	bodies  BodyMap
}

// NewMassBlock creates a mass block starting from the given mass in kg.
func NewMassBlock(b *Body, rate MassRateModel, initial float64, bodies BodyMap) *MassBlock {
	blk := &MassBlock{b, rate, initial, bodies}
	b.Mass = initial
	return blk
}

// Body implements the Block interface.
func (blk *MassBlock) Body() *Body {
	return blk.body
}

// StateSize implements the Block interface.
func (blk *MassBlock) StateSize() int {
	return 1
}

// InitialState implements the Block interface.
func (blk *MassBlock) InitialState() []float64 {
	return []float64{blk.initial}
}

// SetCurrent implements the Block interface.
func (blk *MassBlock) SetCurrent(s []float64) {
	blk.body.Mass = s[0]
}

// Derivative implements the Block interface.
func (blk *MassBlock) Derivative(et float64, s []float64) []float64 {
	if blk.rate == nil {
		return []float64{0}
	}
	return []float64{blk.rate.Rate(et, blk.body, blk.bodies)}
}

// Install implements the Block interface. There is no mass ephemeris; the
// propagated mass history stays available through StateHistory.
func (blk *MassBlock) Install(times []float64, states [][]float64) {}

// DependentVariable is a named quantity recorded at every accepted step,
// evaluated against the mid-integration body states.
type DependentVariable struct {
	Name string
	Eval func(et float64, bm BodyMap) []float64
}

// PropState is one recorded propagation sample, streamed to the exporter.
type PropState struct {
	Et     float64
	Names  []string
	States [][]float64
}

// Propagation runs one or more blocks through a shared integration. It owns
// the body map for the duration of the run and installs tabulated ephemerides
// on the propagated bodies when done.
type Propagation struct {
	Name                       string
	Bodies                     BodyMap
	blocks                     []Block
	startEt, stopEt, currentEt float64
	step                       float64
	curStates                  [][]float64
	times                      []float64
	history                    [][][]float64 // per block, per sample
	depVars                    []DependentVariable
	depHist                    map[string][][]float64
	stopChan                   chan (bool)
	histChan                   chan<- (PropState)
	logger                     kitlog.Logger
	done                       bool
}

// NewPropagation returns a propagation of the given blocks over [startEt,
// stopEt] seconds past J2000, with the default step size.
func NewPropagation(name string, bodies BodyMap, blocks []Block, startEt, stopEt float64, depVars []DependentVariable, conf ExportConfig) *Propagation {
	return NewPrecisePropagation(name, bodies, blocks, startEt, stopEt, StepSize, depVars, conf)
}

// NewPrecisePropagation is NewPropagation with a custom fixed step size.
func NewPrecisePropagation(name string, bodies BodyMap, blocks []Block, startEt, stopEt, step float64, depVars []DependentVariable, conf ExportConfig) *Propagation {
	if len(blocks) == 0 {
		panic("propagation needs at least one block")
	}
	// If no filepath is provided, then no output will be written.
	var histChan chan (PropState)
	if !conf.IsUseless() {
		histChan = make(chan (PropState), 1000) // a 1k entry buffer
		wg.Add(1)
		go func() {
			defer wg.Done()
			StreamStates(conf, histChan)
		}()
	} else {
		histChan = nil
	}
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "prop", name)
	a := &Propagation{Name: name, Bodies: bodies, blocks: blocks,
		startEt: startEt, stopEt: stopEt, currentEt: startEt, step: step,
		depVars: depVars, depHist: make(map[string][][]float64),
		stopChan: make(chan (bool), 1), histChan: histChan, logger: logger}
	a.curStates = make([][]float64, len(blocks))
	a.history = make([][][]float64, len(blocks))
	for i, blk := range blocks {
		a.curStates[i] = blk.InitialState()
		blk.SetCurrent(a.curStates[i])
	}
	// Record the initial sample.
	a.record()
	if stopEt < startEt {
		a.logger.Log("level", "warning", "subsys", "attdyn", "message", "no end epoch")
	}
	return a
}

// record appends the current states and dependent variables to the histories
// and streams them to the exporter.
func (a *Propagation) record() {
	a.times = append(a.times, a.currentEt)
	for i := range a.blocks {
		s := make([]float64, len(a.curStates[i]))
		copy(s, a.curStates[i])
		a.history[i] = append(a.history[i], s)
	}
	for _, dv := range a.depVars {
		a.depHist[dv.Name] = append(a.depHist[dv.Name], dv.Eval(a.currentEt, a.Bodies))
	}
	if a.histChan != nil {
		names := make([]string, len(a.blocks))
		states := make([][]float64, len(a.blocks))
		for i, blk := range a.blocks {
			names[i] = blk.Body().Name
			states[i] = a.history[i][len(a.history[i])-1]
		}
		a.histChan <- PropState{a.currentEt, names, states}
	}
}

// LogStatus logs the status of the propagation.
func (a *Propagation) LogStatus() {
	a.logger.Log("level", "info", "subsys", "attdyn", "et", a.currentEt, "elapsed(s)", a.currentEt-a.startEt)
}

// Propagate starts the propagation, blocking until the stop epoch is reached
// or StopPropagation is called, then installs the tabulated ephemerides.
func (a *Propagation) Propagate() {
	a.LogStatus()
	ode.NewRK4(0, a.step, a).Solve() // Blocking.
	a.done = true
	for i, blk := range a.blocks {
		blk.Install(a.times, a.history[i])
	}
	a.logger.Log("level", "notice", "subsys", "attdyn", "status", "finished", "duration(s)", a.currentEt-a.startEt, "samples", len(a.times))
	wg.Wait() // Don't return until we're done writing all the files.
}

// StopPropagation is used to stop the propagation before it is completed.
func (a *Propagation) StopPropagation() {
	a.stopChan <- true
}

// Stop implements the stop call of the integrator. To stop the propagation,
// call StopPropagation().
func (a *Propagation) Stop(t float64) bool {
	select {
	case <-a.stopChan:
		if a.histChan != nil {
			close(a.histChan)
		}
		return true // Stop because there is a request to stop.
	default:
		if a.currentEt+a.step > a.stopEt+a.step/2 {
			if a.histChan != nil {
				close(a.histChan)
			}
			return true // Stop, we've reached the end of the simulation.
		}
		// The current epoch is advanced before the integration step, so
		// derivative evaluations see the epoch of the step being built.
		a.currentEt += a.step
	}
	return false
}

// GetState returns the concatenated sub-states for the integrator.
func (a *Propagation) GetState() []float64 {
	s := make([]float64, 0, a.stateSize())
	for i := range a.blocks {
		s = append(s, a.curStates[i]...)
	}
	return s
}

func (a *Propagation) stateSize() (n int) {
	for _, blk := range a.blocks {
		n += blk.StateSize()
	}
	return
}

// distribute splits a concatenated state and pushes each sub-state into its
// block's body, so that coupled models read same-stage values.
func (a *Propagation) distribute(s []float64) {
	idx := 0
	for _, blk := range a.blocks {
		blk.SetCurrent(s[idx : idx+blk.StateSize()])
		idx += blk.StateSize()
	}
}

// SetState sets the accepted state at the end of a step and records it.
func (a *Propagation) SetState(t float64, s []float64) {
	idx := 0
	for i, blk := range a.blocks {
		copy(a.curStates[i], s[idx:idx+blk.StateSize()])
		idx += blk.StateSize()
	}
	a.distribute(s)
	a.record()
}

// Func is the integration function, evaluating all block derivatives against
// the shared mid-integration body states.
func (a *Propagation) Func(t float64, s []float64) []float64 {
	a.distribute(s)
	fDot := make([]float64, 0, a.stateSize())
	idx := 0
	for _, blk := range a.blocks {
		sub := blk.Derivative(a.currentEt, s[idx:idx+blk.StateSize()])
		idx += blk.StateSize()
		fDot = append(fDot, sub...)
	}
	for i, v := range fDot {
		if math.IsNaN(v) {
			panic(fmt.Errorf("fDot[%d]=NaN @ et=%f", i, a.currentEt))
		}
	}
	return fDot
}

// PropagateVariableStep runs the same blocks through the adaptive
// Dormand-Prince integrator, sampling the dense output at the provided
// epochs. The samples become the recorded history and the installed
// ephemerides, which suits long smooth arcs better than a fixed step.
func (a *Propagation) PropagateVariableStep(samples []float64) error {
	if len(samples) < 2 {
		return fmt.Errorf("need at least two sample epochs, got %d", len(samples))
	}
	integrator, err := dopri.New(dopri.DefaultConfig())
	if err != nil {
		return err
	}
	f := func(x float64, y, f []float64) {
		a.distribute(y)
		idx := 0
		for _, blk := range a.blocks {
			sub := blk.Derivative(x, y[idx:idx+blk.StateSize()])
			copy(f[idx:idx+blk.StateSize()], sub)
			idx += blk.StateSize()
		}
	}
	values, _, err := integrator.Compute(f, a.GetState(), samples)
	if err != nil {
		return err
	}
	dim := a.stateSize()
	// Rebuild the history from the dense samples.
	a.times = nil
	a.history = make([][][]float64, len(a.blocks))
	a.depHist = make(map[string][][]float64)
	for k := range samples {
		a.currentEt = samples[k]
		idx := 0
		for i, blk := range a.blocks {
			copy(a.curStates[i], values[k*dim+idx:k*dim+idx+blk.StateSize()])
			idx += blk.StateSize()
		}
		a.distribute(values[k*dim : (k+1)*dim])
		a.record()
	}
	a.done = true
	for i, blk := range a.blocks {
		blk.Install(a.times, a.history[i])
	}
	if a.histChan != nil {
		close(a.histChan)
	}
	wg.Wait()
	return nil
}

// Times returns the recorded sample epochs.
func (a *Propagation) Times() []float64 {
	return a.times
}

// StateHistory returns the recorded sub-state history of the named body.
func (a *Propagation) StateHistory(name string) [][]float64 {
	for i, blk := range a.blocks {
		if blk.Body().Name == name {
			return a.history[i]
		}
	}
	panic(fmt.Errorf("no block propagates body %q", name))
}

// DependentVariableHistory returns the recorded history of the named
// dependent variable, one row per sample epoch.
func (a *Propagation) DependentVariableHistory(name string) [][]float64 {
	h, found := a.depHist[name]
	if !found {
		panic(fmt.Errorf("no dependent variable %q", name))
	}
	return h
}

// AeroAngleDependentVariable records [latitude, longitude, heading, flight
// path angle, angle of attack, sideslip, bank] of a vehicle flying about a
// central body,
// rebuilt from the vehicle's mid-integration translational and rotational
// states. The central body must carry a rotational ephemeris.
func AeroAngleDependentVariable(vehicle, central string) DependentVariable {
	return DependentVariable{
		Name: vehicle + "-aero-angles",
		Eval: func(et float64, bm BodyMap) []float64 {
			v := bm.MustGet(vehicle)
			c := bm.MustGet(central)
			re := c.RotationalEphemeris()
			qToTarget, err := re.RotationToTargetFrame(et)
			if err != nil {
				panic(err)
			}
			ωBase, err := re.RotationalVelocityInBaseFrame(et)
			if err != nil {
				panic(err)
			}
			rIn, vIn := v.CurrentState()
			rPF := qToTarget.Rotate(rIn)
			ωxr := cross(ωBase, rIn)
			vPF := qToTarget.Rotate([]float64{vIn[0] - ωxr[0], vIn[1] - ωxr[1], vIn[2] - ωxr[2]})
			sph := NewSphericalStateFromCartesian([]float64{rPF[0], rPF[1], rPF[2], vPF[0], vPF[1], vPF[2]})
			// Trajectory-to-body chain, walked down from the base frame.
			var toPF, toLV, toTraj mat64.Dense
			toPF.Mul(v.CurrentAttitude().Q.Conj().RotationMatrix(), qToTarget.Conj().RotationMatrix())
			toLV.Mul(&toPF, LocalVerticalToPlanetocentricMatrix(sph.Longitude, sph.Latitude))
			toTraj.Mul(&toLV, LocalVerticalToTrajectoryMatrix(sph.FlightPathAngle, sph.Heading).T())
			α, β, σ := AeroAnglesFromChain(&toTraj)
			return []float64{sph.Latitude, sph.Longitude, sph.Heading, sph.FlightPathAngle, α, β, σ}
		},
	}
}

// TorqueDependentVariable records the total torque of the given model on a
// body, in base-frame components when inertial is set and in body-frame
// components otherwise.
func TorqueDependentVariable(body string, model TorqueModel, inertial bool) DependentVariable {
	name := body + "-torque"
	if inertial {
		name += "-inertial"
	}
	return DependentVariable{
		Name: name,
		Eval: func(et float64, bm BodyMap) []float64 {
			b := bm.MustGet(body)
			τ := model.Torque(et, b, bm)
			if inertial {
				return b.CurrentAttitude().Q.Rotate(τ)
			}
			return τ
		},
	}
}
