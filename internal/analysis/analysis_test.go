package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/tersim/internal/geom"
	"github.com/san-kum/tersim/internal/system"
)

func pairSystem(t *testing.T, d float64) *system.System {
	t.Helper()
	box, err := geom.NewOrthorhombic(20, 20, 20, [3]bool{true, true, true})
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	sys, err := system.New(2, 4, box)
	if err != nil {
		t.Fatalf("system: %v", err)
	}
	sys.Type[0], sys.Type[1] = 1, 1
	sys.X[1] = d
	return sys
}

func TestRDFPeakLocation(t *testing.T) {
	sys := pairSystem(t, 2.5)
	rdf, err := NewRDF(5.0, 50)
	if err != nil {
		t.Fatalf("rdf: %v", err)
	}
	rdf.Sample(sys)

	centers, g := rdf.Result(sys)
	peak := 0
	for b := range g {
		if g[b] > g[peak] {
			peak = b
		}
	}
	if math.Abs(centers[peak]-2.5) > 0.1 {
		t.Errorf("expected peak near 2.5, got %g", centers[peak])
	}

	// Exactly one occupied bin for a single pair.
	occupied := 0
	for _, v := range g {
		if v > 0 {
			occupied++
		}
	}
	if occupied != 1 {
		t.Errorf("expected 1 occupied bin, got %d", occupied)
	}
}

func TestRDFEmptyBeforeSampling(t *testing.T) {
	sys := pairSystem(t, 2.5)
	rdf, err := NewRDF(5.0, 10)
	if err != nil {
		t.Fatalf("rdf: %v", err)
	}
	_, g := rdf.Result(sys)
	for b, v := range g {
		if v != 0 {
			t.Errorf("bin %d non-zero before sampling: %g", b, v)
		}
	}
}

func TestRDFValidation(t *testing.T) {
	if _, err := NewRDF(0, 10); err == nil {
		t.Error("expected error for zero rmax")
	}
	if _, err := NewRDF(5, 0); err == nil {
		t.Error("expected error for zero bins")
	}
}

func TestMSD(t *testing.T) {
	x := []float64{0, 1}
	y := []float64{0, 0}
	z := []float64{0, 0}
	m, err := NewMSD(x, y, z)
	if err != nil {
		t.Fatalf("msd: %v", err)
	}

	v, err := m.Value(x, y, z)
	if err != nil || v != 0 {
		t.Errorf("expected zero displacement, got %g (%v)", v, err)
	}

	moved := []float64{3, 1} // atom 0 moved 3 along x
	v, err = m.Value(moved, y, z)
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if math.Abs(v-4.5) > 1e-14 { // (9 + 0) / 2
		t.Errorf("expected MSD 4.5, got %g", v)
	}

	if _, err := m.Value([]float64{0}, []float64{0}, []float64{0}); err == nil {
		t.Error("expected error for mismatched frame")
	}
}
