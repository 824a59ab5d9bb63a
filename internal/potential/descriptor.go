package potential

import (
	"github.com/san-kum/tersim/internal/system"
)

// DescriptorSize is the length of the per-atom feature projection fed to
// the extrapolation-grade estimator.
const DescriptorSize = 8

// Descriptors returns the per-atom feature projection for the system's
// local range, one DescriptorSize row per atom. Features are bond moments
// of the current configuration: cutoff-weighted coordination, distance
// moments, pair-term magnitudes, and bond-order statistics from the last
// Compute. Call after Compute so the bond-order buffers are current.
func (t *Tersoff) Descriptors(sys *system.System) ([][]float64, error) {
	if err := t.check(sys); err != nil {
		return nil, err
	}

	rows := make([][]float64, sys.N2-sys.N1)
	flat := make([]float64, len(rows)*DescriptorSize)
	for r := range rows {
		rows[r] = flat[r*DescriptorSize : (r+1)*DescriptorSize]
	}

	t.pool.Run(sys.N1, sys.N2, func(i int) {
		d := rows[i-sys.N1]
		ti := sys.Type[i]
		nn := sys.NeighborCount[i]

		for i1 := 0; i1 < nn; i1++ {
			j := sys.Neighbor(i, i1)
			tj := sys.Type[j]
			_, _, _, dij := sys.Displacement(i, j)

			p := t.table.Set(ti, tj, tj)
			fc, _ := p.Cutoff(dij)
			if fc == 0 {
				continue
			}
			fr, _ := p.Repulsion(dij)
			fa, _ := p.Attraction(dij)
			b := t.bonds.b[t.bonds.idx(i, i1)]

			d[0] += fc
			d[1] += fc * dij
			d[2] += fc * dij * dij
			d[3] += fc * fr
			d[4] += fc * fa
			d[5] += fc * b * fa
			d[6] += fc * b
			d[7] += fc * (1 - b)
		}
	})

	return rows, nil
}
