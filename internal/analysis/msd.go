package analysis

import "fmt"

// MSD computes mean-square displacement against a reference frame.
// Positions must be unwrapped or sampled often enough that no atom moves
// more than half a box length between frames.
type MSD struct {
	refX, refY, refZ []float64
}

// NewMSD captures the reference positions.
func NewMSD(x, y, z []float64) (*MSD, error) {
	if len(x) == 0 || len(x) != len(y) || len(x) != len(z) {
		return nil, fmt.Errorf("analysis: inconsistent position arrays (%d, %d, %d)", len(x), len(y), len(z))
	}
	m := &MSD{
		refX: make([]float64, len(x)),
		refY: make([]float64, len(y)),
		refZ: make([]float64, len(z)),
	}
	copy(m.refX, x)
	copy(m.refY, y)
	copy(m.refZ, z)
	return m, nil
}

// Value returns the mean-square displacement of the given positions
// relative to the reference.
func (m *MSD) Value(x, y, z []float64) (float64, error) {
	if len(x) != len(m.refX) {
		return 0, fmt.Errorf("analysis: frame has %d atoms, reference %d", len(x), len(m.refX))
	}
	sum := 0.0
	for i := range x {
		dx := x[i] - m.refX[i]
		dy := y[i] - m.refY[i]
		dz := z[i] - m.refZ[i]
		sum += dx*dx + dy*dy + dz*dz
	}
	return sum / float64(len(x)), nil
}
