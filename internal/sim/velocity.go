package sim

import (
	"math"
	"math/rand"

	"github.com/san-kum/tersim/internal/system"
)

// InitVelocities draws Maxwell-Boltzmann velocities at the target
// temperature, removes the net momentum, and rescales to hit the
// target exactly. A non-positive target leaves the system at rest.
func InitVelocities(sys *system.System, mass []float64, target float64, seed int64) {
	if target <= 0 || sys.N == 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < sys.N; i++ {
		sigma := math.Sqrt(target / mass[sys.Type[i]])
		sys.VX[i] = sigma * rng.NormFloat64()
		sys.VY[i] = sigma * rng.NormFloat64()
		sys.VZ[i] = sigma * rng.NormFloat64()
	}

	var px, py, pz, m float64
	for i := 0; i < sys.N; i++ {
		mi := mass[sys.Type[i]]
		px += mi * sys.VX[i]
		py += mi * sys.VY[i]
		pz += mi * sys.VZ[i]
		m += mi
	}
	for i := 0; i < sys.N; i++ {
		sys.VX[i] -= px / m
		sys.VY[i] -= py / m
		sys.VZ[i] -= pz / m
	}

	cur := Temperature(sys, mass)
	if cur <= 0 {
		return
	}
	scale := math.Sqrt(target / cur)
	for i := 0; i < sys.N; i++ {
		sys.VX[i] *= scale
		sys.VY[i] *= scale
		sys.VZ[i] *= scale
	}
}
