package geom

import (
	"math"
	"testing"
)

func TestOrthorhombicMinimumImage(t *testing.T) {
	b, err := NewOrthorhombic(10, 10, 10, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("box: %v", err)
	}

	dx, dy, dz := b.MinimumImage(9, 0, 0)
	if math.Abs(dx+1) > 1e-12 || dy != 0 || dz != 0 {
		t.Errorf("expected (-1, 0, 0), got (%g, %g, %g)", dx, dy, dz)
	}

	dx, _, _ = b.MinimumImage(-7, 0, 0)
	if math.Abs(dx-3) > 1e-12 {
		t.Errorf("expected 3, got %g", dx)
	}
}

func TestNonPeriodicAxisPassesThrough(t *testing.T) {
	b, err := NewOrthorhombic(10, 10, 10, [3]bool{true, false, true})
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	_, dy, _ := b.MinimumImage(0, 9, 0)
	if dy != 9 {
		t.Errorf("non-periodic axis must not wrap, got %g", dy)
	}
}

func TestTriclinicMinimumImage(t *testing.T) {
	// Sheared cell: c tilted along x.
	b, err := NewTriclinic(
		[3]float64{10, 0, 0},
		[3]float64{0, 10, 0},
		[3]float64{3, 0, 10},
		[3]bool{true, true, true},
	)
	if err != nil {
		t.Fatalf("box: %v", err)
	}

	// A displacement of one full c vector must map to zero.
	dx, dy, dz := b.MinimumImage(3, 0, 10)
	if math.Abs(dx) > 1e-12 || math.Abs(dy) > 1e-12 || math.Abs(dz) > 1e-12 {
		t.Errorf("full cell vector should wrap to origin, got (%g, %g, %g)", dx, dy, dz)
	}

	if math.Abs(b.Volume()-1000) > 1e-9 {
		t.Errorf("expected volume 1000, got %g", b.Volume())
	}
}

func TestDegenerateCellRejected(t *testing.T) {
	_, err := NewTriclinic(
		[3]float64{1, 0, 0},
		[3]float64{2, 0, 0},
		[3]float64{0, 0, 1},
		[3]bool{true, true, true},
	)
	if err == nil {
		t.Fatal("expected error for coplanar cell vectors")
	}
}

func TestWrapIntoPrimaryCell(t *testing.T) {
	b, _ := NewOrthorhombic(5, 5, 5, [3]bool{true, true, true})
	x, y, z := b.Wrap(7, -1, 12.5)
	if math.Abs(x-2) > 1e-12 || math.Abs(y-4) > 1e-12 || math.Abs(z-2.5) > 1e-12 {
		t.Errorf("expected (2, 4, 2.5), got (%g, %g, %g)", x, y, z)
	}
}
