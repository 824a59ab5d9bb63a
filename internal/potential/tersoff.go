package potential

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/tersim/internal/compute"
	"github.com/san-kum/tersim/internal/system"
)

// Domain errors for potential construction and evaluation.
var (
	// ErrCapacity indicates a system whose neighbor storage exceeds the
	// arena allocated at construction.
	ErrCapacity = errors.New("potential: neighbor capacity exceeds bond arena")

	// ErrAtomCount indicates a system sized differently from the arena.
	ErrAtomCount = errors.New("potential: atom count differs from bond arena")

	// ErrTypeRange indicates an atom type outside the parameter table.
	ErrTypeRange = errors.New("potential: atom type outside parameter table")
)

// Tersoff evaluates the smooth bond-order potential. The parameter table
// is read-only and shared by all workers; the bond arena is exclusively
// owned by this instance.
type Tersoff struct {
	table *Table
	pool  *compute.Pool
	bonds *bondArena
}

// NewTersoff builds a potential for a fixed system size. numAtoms and
// neighborCap fix the bond arena capacity for the lifetime of the
// instance; evaluating a larger system is a construction-time mismatch,
// not a runtime resize.
func NewTersoff(table *Table, numAtoms, neighborCap int, pool *compute.Pool) (*Tersoff, error) {
	if numAtoms <= 0 {
		return nil, fmt.Errorf("potential: atom count must be positive, got %d", numAtoms)
	}
	if neighborCap <= 0 {
		return nil, fmt.Errorf("potential: neighbor cap must be positive, got %d", neighborCap)
	}
	if pool == nil {
		pool = compute.NewPool(0)
	}
	return &Tersoff{
		table: table,
		pool:  pool,
		bonds: newBondArena(numAtoms, neighborCap),
	}, nil
}

// OuterCutoff returns the neighbor-list radius the potential requires.
func (t *Tersoff) OuterCutoff() float64 { return t.table.OuterCutoff() }

// BondForces exposes the per-directed-bond partial force arrays in the
// flattened (atom, slot) layout, for consumption by the force reducer.
// Valid after Compute; overwritten by the next Compute.
func (t *Tersoff) BondForces() (fx, fy, fz []float64) {
	return t.bonds.fx, t.bonds.fy, t.bonds.fz
}

// BondOrder returns the bond order and its derivative for neighbor slot
// of atom i, as computed by the last evaluation.
func (t *Tersoff) BondOrder(i, slot int) (b, bp float64) {
	idx := t.bonds.idx(i, slot)
	return t.bonds.b[idx], t.bonds.bp[idx]
}

func (t *Tersoff) check(sys *system.System) error {
	if sys.N != t.bonds.atoms {
		return fmt.Errorf("%w: system has %d atoms, arena %d", ErrAtomCount, sys.N, t.bonds.atoms)
	}
	if sys.MaxNeighbors > t.bonds.slots {
		return fmt.Errorf("%w: system cap %d, arena %d", ErrCapacity, sys.MaxNeighbors, t.bonds.slots)
	}
	for i := 0; i < sys.N; i++ {
		if sys.Type[i] < 1 || sys.Type[i] > t.table.NumTypes() {
			return fmt.Errorf("%w: atom %d has type %d, table has %d types",
				ErrTypeRange, i, sys.Type[i], t.table.NumTypes())
		}
	}
	return nil
}

// Compute evaluates forces and energies for the system's local atom range.
// Per-bond partial forces are overwritten in the arena; per-atom potential
// energy is accumulated into energy, so multiple potential terms can share
// the array. The two passes are separate pool dispatches: the pool barrier
// guarantees every bond order is in place before any force is assembled.
func (t *Tersoff) Compute(sys *system.System, energy []float64) error {
	if err := t.check(sys); err != nil {
		return err
	}
	if len(energy) != sys.N {
		return fmt.Errorf("potential: energy array has %d entries for %d atoms", len(energy), sys.N)
	}

	t.pool.Run(sys.N1, sys.N2, func(i int) { t.bondOrderPass(sys, i) })
	t.pool.Run(sys.N1, sys.N2, func(i int) { t.forcePass(sys, i, energy) })
	return nil
}

// bondOrderPass fills b and bp for every neighbor slot of atom i:
// zeta is the three-body sum over third neighbors k != j, and
// b = (1 + beta*zeta)^(-1/2).
func (t *Tersoff) bondOrderPass(sys *system.System, i int) {
	ti := sys.Type[i]
	nn := sys.NeighborCount[i]

	for i1 := 0; i1 < nn; i1++ {
		j := sys.Neighbor(i, i1)
		tj := sys.Type[j]
		dx12, dy12, dz12, d12 := sys.Displacement(i, j)

		zeta := 0.0
		for i2 := 0; i2 < nn; i2++ {
			if i2 == i1 {
				continue
			}
			k := sys.Neighbor(i, i2)
			tk := sys.Type[k]
			dx13, dy13, dz13, d13 := sys.Displacement(i, k)

			fc13, _ := t.table.Set(ti, tk, tk).Cutoff(d13)
			if fc13 == 0 {
				continue
			}
			pijk := t.table.Set(ti, tj, tk)
			cos123 := (dx12*dx13 + dy12*dy13 + dz12*dz13) / (d12 * d13)
			g, _ := pijk.Angular(cos123)
			e, _ := pijk.Envelope(d12, d13)
			zeta += fc13 * g * e
		}

		beta := t.table.Set(ti, tj, tj).Beta
		b := 1 / math.Sqrt(1+beta*zeta)
		idx := t.bonds.idx(i, i1)
		t.bonds.b[idx] = b
		t.bonds.bp[idx] = -0.5 * beta * b * b * b
	}
}

// forcePass assembles the partial force vector for every directed bond of
// atom i and accumulates the atom's potential energy. The per-bond vector
// is the derivative of the site energy with respect to the bond
// displacement; the reducer applies it antisymmetrically to both ends.
func (t *Tersoff) forcePass(sys *system.System, i int, energy []float64) {
	ti := sys.Type[i]
	nn := sys.NeighborCount[i]
	pe := 0.0

	for i1 := 0; i1 < nn; i1++ {
		j := sys.Neighbor(i, i1)
		tj := sys.Type[j]
		dx12, dy12, dz12, d12 := sys.Displacement(i, j)
		idx12 := t.bonds.idx(i, i1)

		pijj := t.table.Set(ti, tj, tj)
		fc12, fcp12 := pijj.Cutoff(d12)
		if fc12 == 0 && fcp12 == 0 {
			t.bonds.fx[idx12] = 0
			t.bonds.fy[idx12] = 0
			t.bonds.fz[idx12] = 0
			continue
		}
		fr12, frp12 := pijj.Repulsion(d12)
		fa12, fap12 := pijj.Attraction(d12)
		b12 := t.bonds.b[idx12]
		bp12 := t.bonds.bp[idx12]

		// Pairwise term, half per directed bond.
		pair := 0.5 * (fcp12*(fr12-b12*fa12) + fc12*(frp12-b12*fap12)) / d12
		fx := pair * dx12
		fy := pair * dy12
		fz := pair * dz12
		pe += 0.5 * fc12 * (fr12 - b12*fa12)

		// Three-body correction: derivatives of zeta(i,j) through this
		// bond, and of zeta(i,k) through its third-atom term at j.
		for i2 := 0; i2 < nn; i2++ {
			if i2 == i1 {
				continue
			}
			k := sys.Neighbor(i, i2)
			tk := sys.Type[k]
			dx13, dy13, dz13, d13 := sys.Displacement(i, k)

			pikk := t.table.Set(ti, tk, tk)
			fc13, _ := pikk.Cutoff(d13)
			if fc13 == 0 {
				continue
			}
			fa13, _ := pikk.Attraction(d13)
			bp13 := t.bonds.bp[t.bonds.idx(i, i2)]

			cos123 := (dx12*dx13 + dy12*dy13 + dz12*dz13) / (d12 * d13)

			pijk := t.table.Set(ti, tj, tk)
			g123, gp123 := pijk.Angular(cos123)
			e123, ep123 := pijk.Envelope(d12, d13)

			pikj := t.table.Set(ti, tk, tj)
			g132, gp132 := pikj.Angular(cos123)
			e132, ep132 := pikj.Envelope(d13, d12)

			a12 := -0.5 * fc12 * fa12 * bp12
			a13 := -0.5 * fc13 * fa13 * bp13

			// Angular and radial derivative weights. The envelope
			// derivative flips sign for the (d13,d12) ordering because
			// d12 is its second argument there.
			dc := a12*fc13*gp123*e123 + a13*fc12*gp132*e132
			dr := a12*fc13*g123*ep123 + a13*(fcp12*g132*e132-fc12*g132*ep132)

			cosx := dx13/(d12*d13) - cos123*dx12/(d12*d12)
			cosy := dy13/(d12*d13) - cos123*dy12/(d12*d12)
			cosz := dz13/(d12*d13) - cos123*dz12/(d12*d12)

			fx += dc*cosx + dr*dx12/d12
			fy += dc*cosy + dr*dy12/d12
			fz += dc*cosz + dr*dz12/d12
		}

		t.bonds.fx[idx12] = fx
		t.bonds.fy[idx12] = fy
		t.bonds.fz[idx12] = fz
	}

	energy[i] += pe
}
