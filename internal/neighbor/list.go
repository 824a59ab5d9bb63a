// Package neighbor builds bounded neighbor lists with minimum-image
// periodic resolution. Lists guarantee the preconditions the potential
// relies on: no atom is its own neighbor and no zero-distance pair is
// ever recorded.
package neighbor

import (
	"errors"
	"fmt"

	"github.com/san-kum/tersim/internal/system"
)

var (
	// ErrOverflow indicates an atom with more neighbors than the system's
	// fixed per-atom slot capacity. The cap is a hard invariant: lists are
	// never silently truncated.
	ErrOverflow = errors.New("neighbor: neighbor count exceeds slot capacity")

	// ErrCoincident indicates two atoms at (numerically) zero separation.
	ErrCoincident = errors.New("neighbor: coincident atoms")
)

const minSeparation = 1e-10

// Builder constructs neighbor lists by all-pairs search within a cutoff
// plus skin. The skin lets a list survive small displacements between
// rebuilds.
type Builder struct {
	Cutoff float64
	Skin   float64
}

// NewBuilder creates a builder for the given interaction cutoff.
func NewBuilder(cutoff, skin float64) (*Builder, error) {
	if cutoff <= 0 {
		return nil, fmt.Errorf("neighbor: cutoff must be positive, got %g", cutoff)
	}
	if skin < 0 {
		return nil, fmt.Errorf("neighbor: skin must be non-negative, got %g", skin)
	}
	return &Builder{Cutoff: cutoff, Skin: skin}, nil
}

// Build fills the system's neighbor arrays. Every pair within
// cutoff+skin is recorded twice, once from each side, so every
// interaction appears as two directed bonds.
func (b *Builder) Build(sys *system.System) error {
	rc := b.Cutoff + b.Skin
	rc2 := rc * rc

	for i := range sys.NeighborCount {
		sys.NeighborCount[i] = 0
	}

	for i := 0; i < sys.N; i++ {
		for j := i + 1; j < sys.N; j++ {
			dx := sys.X[j] - sys.X[i]
			dy := sys.Y[j] - sys.Y[i]
			dz := sys.Z[j] - sys.Z[i]
			dx, dy, dz = sys.Box.MinimumImage(dx, dy, dz)
			d2 := dx*dx + dy*dy + dz*dz
			if d2 > rc2 {
				continue
			}
			if d2 < minSeparation*minSeparation {
				return fmt.Errorf("%w: atoms %d and %d", ErrCoincident, i, j)
			}
			if err := add(sys, i, j); err != nil {
				return err
			}
			if err := add(sys, j, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func add(sys *system.System, i, j int) error {
	slot := sys.NeighborCount[i]
	if slot >= sys.MaxNeighbors {
		return fmt.Errorf("%w: atom %d needs more than %d slots", ErrOverflow, i, sys.MaxNeighbors)
	}
	sys.NeighborIndex[sys.Slot(i, slot)] = j
	sys.NeighborCount[i] = slot + 1
	return nil
}
