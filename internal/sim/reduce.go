package sim

import (
	"fmt"

	"github.com/san-kum/tersim/internal/system"
)

// Forces holds per-atom reduced forces and the accumulated virial tensor.
type Forces struct {
	FX, FY, FZ []float64
	Virial     [3][3]float64
}

// NewForces allocates force storage for n atoms.
func NewForces(n int) *Forces {
	return &Forces{
		FX: make([]float64, n),
		FY: make([]float64, n),
		FZ: make([]float64, n),
	}
}

// Zero clears forces and virial before a fresh reduction.
func (f *Forces) Zero() {
	for i := range f.FX {
		f.FX[i], f.FY[i], f.FZ[i] = 0, 0, 0
	}
	f.Virial = [3][3]float64{}
}

// Reduce symmetrizes directed-bond partial forces into per-atom forces:
// the vector stored on bond (i,j) is added to atom i and subtracted from
// atom j, so internal forces cancel pairwise and the net force on a
// closed system is zero by construction. The virial accumulates
// -x_ij (outer) f_ij over all directed bonds.
func Reduce(sys *system.System, bfx, bfy, bfz []float64, out *Forces) error {
	if len(out.FX) != sys.N {
		return fmt.Errorf("sim: force storage for %d atoms, system has %d", len(out.FX), sys.N)
	}
	out.Zero()

	for i := 0; i < sys.N; i++ {
		for s := 0; s < sys.NeighborCount[i]; s++ {
			j := sys.Neighbor(i, s)
			idx := sys.Slot(i, s)
			fx, fy, fz := bfx[idx], bfy[idx], bfz[idx]

			out.FX[i] += fx
			out.FY[i] += fy
			out.FZ[i] += fz
			out.FX[j] -= fx
			out.FY[j] -= fy
			out.FZ[j] -= fz

			dx, dy, dz, _ := sys.Displacement(i, j)
			out.Virial[0][0] -= dx * fx
			out.Virial[0][1] -= dx * fy
			out.Virial[0][2] -= dx * fz
			out.Virial[1][0] -= dy * fx
			out.Virial[1][1] -= dy * fy
			out.Virial[1][2] -= dy * fz
			out.Virial[2][0] -= dz * fx
			out.Virial[2][1] -= dz * fy
			out.Virial[2][2] -= dz * fz
		}
	}
	return nil
}

// Pressure returns the virial pressure for the given kinetic energy,
// P = (2*KE + tr W) / (3V).
func (f *Forces) Pressure(volume, kinetic float64) float64 {
	tr := f.Virial[0][0] + f.Virial[1][1] + f.Virial[2][2]
	return (2*kinetic + tr) / (3 * volume)
}
