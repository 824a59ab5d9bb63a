package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/tersim/internal/neighbor"
	"github.com/san-kum/tersim/internal/potential"
	"github.com/san-kum/tersim/internal/system"
)

// Config controls one MD run.
type Config struct {
	Dt           float64
	Steps        int
	SampleEvery  int // record energies every this many steps
	RebuildEvery int // neighbor-list rebuild cadence
}

// Result collects sampled observables from a run.
type Result struct {
	Times       []float64
	Potential   []float64
	Kinetic     []float64
	Temperature []float64
	Pressure    []float64
	StepsTaken  int
	EnergyDrift float64
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(step int, t float64, sys *system.System, potE, kinE float64)
}

// Runner owns the evaluation loop: neighbor rebuilds, the two-pass
// potential, force reduction, and velocity-Verlet integration.
type Runner struct {
	sys        *system.System
	pot        *potential.Tersoff
	builder    *neighbor.Builder
	mass       []float64 // indexed by atom type, 1-based
	thermostat Thermostat
	forces     *Forces
	energy     []float64
	observers  []Observer
	primed     bool // forces valid for current positions
}

// NewRunner wires a runner together. mass is indexed by 1-based atom
// type and must cover every type in the system.
func NewRunner(sys *system.System, pot *potential.Tersoff, builder *neighbor.Builder, mass []float64, th Thermostat) (*Runner, error) {
	for i := 0; i < sys.N; i++ {
		ty := sys.Type[i]
		if ty < 1 || ty >= len(mass) || mass[ty] <= 0 {
			return nil, fmt.Errorf("sim: no positive mass for type %d (atom %d)", ty, i)
		}
	}
	if th == nil {
		th = None{}
	}
	return &Runner{
		sys:        sys,
		pot:        pot,
		builder:    builder,
		mass:       mass,
		thermostat: th,
		forces:     NewForces(sys.N),
		energy:     make([]float64, sys.N),
	}, nil
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Forces exposes the most recent reduced forces.
func (r *Runner) Forces() *Forces { return r.forces }

// PotentialEnergy returns the summed per-atom energy of the last
// evaluation.
func (r *Runner) PotentialEnergy() float64 {
	sum := 0.0
	for _, e := range r.energy {
		sum += e
	}
	return sum
}

// KineticEnergy returns the current kinetic energy.
func (r *Runner) KineticEnergy() float64 { return KineticEnergy(r.sys, r.mass) }

// Temperature returns the current kinetic temperature.
func (r *Runner) Temperature() float64 { return Temperature(r.sys, r.mass) }

// System exposes the simulated configuration.
func (r *Runner) System() *system.System { return r.sys }

// evaluate rebuilds state derived from positions: per-atom energies,
// bond forces, and the reduction.
func (r *Runner) evaluate(rebuildNeighbors bool) error {
	if rebuildNeighbors {
		if err := r.builder.Build(r.sys); err != nil {
			return err
		}
	}
	for i := range r.energy {
		r.energy[i] = 0
	}
	if err := r.pot.Compute(r.sys, r.energy); err != nil {
		return err
	}
	bfx, bfy, bfz := r.pot.BondForces()
	return Reduce(r.sys, bfx, bfy, bfz, r.forces)
}

func (r *Runner) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("sim: steps must be non-negative, got %d", cfg.Steps)
	}
	return nil
}

// Prime evaluates forces for the current positions, building the
// neighbor list. Must precede the first Step; Run calls it implicitly.
func (r *Runner) Prime() error {
	if err := r.evaluate(true); err != nil {
		return err
	}
	r.primed = true
	return nil
}

// Step advances one velocity-Verlet step. rebuild forces a neighbor-list
// refresh before the force evaluation.
func (r *Runner) Step(dt float64, rebuild bool) error {
	if !r.primed {
		if err := r.Prime(); err != nil {
			return err
		}
	}
	r.halfKick(dt)
	r.drift(dt)
	if err := r.evaluate(rebuild); err != nil {
		r.primed = false
		return err
	}
	r.halfKick(dt)
	r.thermostat.Apply(r.sys, r.mass, dt)
	return nil
}

// Run advances the system cfg.Steps velocity-Verlet steps. The context
// is checked between steps; each step either completes fully or the run
// aborts with the underlying error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}
	sampleEvery := cfg.SampleEvery
	if sampleEvery <= 0 {
		sampleEvery = 1
	}
	rebuildEvery := cfg.RebuildEvery
	if rebuildEvery <= 0 {
		rebuildEvery = 10
	}

	if err := r.Prime(); err != nil {
		return nil, err
	}

	res := &Result{}
	record := func(t float64) {
		pe := r.PotentialEnergy()
		ke := KineticEnergy(r.sys, r.mass)
		res.Times = append(res.Times, t)
		res.Potential = append(res.Potential, pe)
		res.Kinetic = append(res.Kinetic, ke)
		res.Temperature = append(res.Temperature, 2*ke/(3*float64(r.sys.N)))
		res.Pressure = append(res.Pressure, r.forces.Pressure(r.sys.Box.Volume(), ke))
	}
	record(0)
	initial := res.Potential[0] + res.Kinetic[0]

	dt := cfg.Dt
	t := 0.0
	for step := 1; step <= cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if err := r.Step(dt, step%rebuildEvery == 0); err != nil {
			return res, err
		}

		t += dt
		res.StepsTaken++
		if step%sampleEvery == 0 {
			record(t)
		}
		for _, o := range r.observers {
			o.OnStep(step, t, r.sys, r.PotentialEnergy(), KineticEnergy(r.sys, r.mass))
		}
	}

	final := r.PotentialEnergy() + KineticEnergy(r.sys, r.mass)
	if initial != 0 {
		res.EnergyDrift = math.Abs(final-initial) / math.Abs(initial)
	}
	return res, nil
}

// halfKick advances velocities half a step from the current forces.
func (r *Runner) halfKick(dt float64) {
	for i := 0; i < r.sys.N; i++ {
		f := 0.5 * dt / r.mass[r.sys.Type[i]]
		r.sys.VX[i] += f * r.forces.FX[i]
		r.sys.VY[i] += f * r.forces.FY[i]
		r.sys.VZ[i] += f * r.forces.FZ[i]
	}
}

// drift advances positions a full step and wraps them into the box.
func (r *Runner) drift(dt float64) {
	for i := 0; i < r.sys.N; i++ {
		x := r.sys.X[i] + dt*r.sys.VX[i]
		y := r.sys.Y[i] + dt*r.sys.VY[i]
		z := r.sys.Z[i] + dt*r.sys.VZ[i]
		r.sys.X[i], r.sys.Y[i], r.sys.Z[i] = r.sys.Box.Wrap(x, y, z)
	}
}
