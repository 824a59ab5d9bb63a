package potential

// bondArena is the pre-allocated per-directed-bond storage: bond order b,
// its derivative bp, and the partial force vector. Sized once at
// construction for atoms × neighbor cap and reused every step, so the hot
// loops never allocate. Layout matches the system's flattened neighbor
// addressing: slot s of atom i is at i + n·s.
type bondArena struct {
	atoms int
	slots int

	b, bp      []float64
	fx, fy, fz []float64
}

func newBondArena(atoms, slots int) *bondArena {
	n := atoms * slots
	return &bondArena{
		atoms: atoms,
		slots: slots,
		b:     make([]float64, n),
		bp:    make([]float64, n),
		fx:    make([]float64, n),
		fy:    make([]float64, n),
		fz:    make([]float64, n),
	}
}

func (a *bondArena) idx(atom, slot int) int { return atom + a.atoms*slot }
