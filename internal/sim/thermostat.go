package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/tersim/internal/system"
)

// Thermostat rescales or redraws velocities after each integration step.
type Thermostat interface {
	Name() string
	Apply(sys *system.System, mass []float64, dt float64)
}

// NewThermostat builds a thermostat by name: "none", "berendsen" or
// "langevin". target is the temperature setpoint, coupling the time
// constant (berendsen) or friction (langevin).
func NewThermostat(name string, target, coupling float64, seed int64) (Thermostat, error) {
	switch name {
	case "", "none":
		return None{}, nil
	case "berendsen":
		if target <= 0 || coupling <= 0 {
			return nil, fmt.Errorf("sim: berendsen needs positive target and time constant, got %g and %g", target, coupling)
		}
		return &Berendsen{Target: target, TimeConstant: coupling}, nil
	case "langevin":
		if target <= 0 || coupling <= 0 {
			return nil, fmt.Errorf("sim: langevin needs positive target and friction, got %g and %g", target, coupling)
		}
		return &Langevin{Target: target, Friction: coupling, rng: rand.New(rand.NewSource(seed))}, nil
	default:
		return nil, fmt.Errorf("sim: unknown thermostat %q", name)
	}
}

// None leaves velocities untouched (NVE).
type None struct{}

func (None) Name() string                             { return "none" }
func (None) Apply(*system.System, []float64, float64) {}

// Berendsen rescales velocities toward the target temperature with a
// characteristic time constant.
type Berendsen struct {
	Target       float64
	TimeConstant float64
}

func (b *Berendsen) Name() string { return "berendsen" }

func (b *Berendsen) Apply(sys *system.System, mass []float64, dt float64) {
	t := Temperature(sys, mass)
	if t <= 0 {
		return
	}
	lambda := math.Sqrt(1 + dt/b.TimeConstant*(b.Target/t-1))
	for i := 0; i < sys.N; i++ {
		sys.VX[i] *= lambda
		sys.VY[i] *= lambda
		sys.VZ[i] *= lambda
	}
}

// Langevin couples each atom to a heat bath: velocities decay with the
// friction rate and receive a matching random kick, sampling the
// canonical distribution at the target temperature.
type Langevin struct {
	Target   float64
	Friction float64
	rng      *rand.Rand
}

func (l *Langevin) Name() string { return "langevin" }

func (l *Langevin) Apply(sys *system.System, mass []float64, dt float64) {
	c1 := math.Exp(-l.Friction * dt)
	c2 := math.Sqrt(1 - c1*c1)
	for i := 0; i < sys.N; i++ {
		sigma := math.Sqrt(l.Target / mass[sys.Type[i]])
		sys.VX[i] = c1*sys.VX[i] + c2*sigma*l.rng.NormFloat64()
		sys.VY[i] = c1*sys.VY[i] + c2*sigma*l.rng.NormFloat64()
		sys.VZ[i] = c1*sys.VZ[i] + c2*sigma*l.rng.NormFloat64()
	}
}

// KineticEnergy returns 0.5*sum(m*v^2); mass is indexed by atom type.
func KineticEnergy(sys *system.System, mass []float64) float64 {
	ke := 0.0
	for i := 0; i < sys.N; i++ {
		m := mass[sys.Type[i]]
		ke += 0.5 * m * (sys.VX[i]*sys.VX[i] + sys.VY[i]*sys.VY[i] + sys.VZ[i]*sys.VZ[i])
	}
	return ke
}

// Temperature returns the instantaneous kinetic temperature 2*KE/(3N).
func Temperature(sys *system.System, mass []float64) float64 {
	return 2 * KineticEnergy(sys, mass) / (3 * float64(sys.N))
}
