package system

import (
	"fmt"
	"math"

	"github.com/san-kum/tersim/internal/geom"
)

// System holds the atomic configuration in structure-of-arrays layout:
// per-atom type, positions, velocities, and the bounded neighbor list.
// Neighbor storage is flattened column-major so that slot s of atom i
// lives at i + N·s (see Slot), keeping the addressing rule in one place.
type System struct {
	N      int // total atoms
	N1, N2 int // local sub-range [N1, N2) assigned to this instance

	Box  *geom.Box
	Type []int // 1-based type per atom

	X, Y, Z    []float64
	VX, VY, VZ []float64

	MaxNeighbors  int
	NeighborCount []int
	NeighborIndex []int // flattened, Slot addressing
}

// New allocates a System for n atoms with room for maxNeighbors neighbors
// per atom. The local sub-range defaults to the whole system.
func New(n, maxNeighbors int, box *geom.Box) (*System, error) {
	if n <= 0 {
		return nil, fmt.Errorf("system: atom count must be positive, got %d", n)
	}
	if maxNeighbors <= 0 {
		return nil, fmt.Errorf("system: neighbor cap must be positive, got %d", maxNeighbors)
	}
	return &System{
		N:             n,
		N1:            0,
		N2:            n,
		Box:           box,
		Type:          make([]int, n),
		X:             make([]float64, n),
		Y:             make([]float64, n),
		Z:             make([]float64, n),
		VX:            make([]float64, n),
		VY:            make([]float64, n),
		VZ:            make([]float64, n),
		MaxNeighbors:  maxNeighbors,
		NeighborCount: make([]int, n),
		NeighborIndex: make([]int, n*maxNeighbors),
	}, nil
}

// Slot returns the flattened index of neighbor slot s of atom i.
func (s *System) Slot(i, slot int) int { return i + s.N*slot }

// Neighbor returns the atom index stored in slot of atom i.
func (s *System) Neighbor(i, slot int) int {
	return s.NeighborIndex[s.Slot(i, slot)]
}

// Displacement returns the minimum-image vector from atom i to atom j
// and its length.
func (s *System) Displacement(i, j int) (dx, dy, dz, d float64) {
	dx = s.X[j] - s.X[i]
	dy = s.Y[j] - s.Y[i]
	dz = s.Z[j] - s.Z[i]
	dx, dy, dz = s.Box.MinimumImage(dx, dy, dz)
	d = math.Sqrt(dx*dx + dy*dy + dz*dz)
	return
}

// LocalRange bounds the sub-range to [n1, n2). Used for domain-sliced
// evaluation; forces for atoms outside the range are still touched by
// the reducer through their bonds.
func (s *System) LocalRange(n1, n2 int) error {
	if n1 < 0 || n2 > s.N || n1 >= n2 {
		return fmt.Errorf("system: invalid local range [%d, %d) for %d atoms", n1, n2, s.N)
	}
	s.N1, s.N2 = n1, n2
	return nil
}
