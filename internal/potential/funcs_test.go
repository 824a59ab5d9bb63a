package potential

import (
	"math"
	"testing"
)

func testSet(t *testing.T) *ParameterSet {
	t.Helper()
	p := &ParameterSet{
		A: 1830.8, Q: 0.5, Lambda: 2.4799,
		B: 471.18, Mu: 1.7322, B2: 30.0, Mu2: 1.2,
		Beta: 1.1e-6, H: -0.59825, Alpha: 0.3,
		R1: 2.7, R2: 3.0,
	}
	p.piFactor1 = math.Pi / (p.R2 - p.R1)
	p.piFactor3 = 3 * math.Pi / (p.R2 - p.R1)
	return p
}

func TestCutoffPlateaus(t *testing.T) {
	p := testSet(t)

	for _, d := range []float64{0.5, 1.0, 2.0, p.R1} {
		fc, fcp := p.Cutoff(d)
		if fc != 1 {
			t.Errorf("fc(%g): expected 1, got %g", d, fc)
		}
		if d < p.R1 && fcp != 0 {
			t.Errorf("fc'(%g): expected 0, got %g", d, fcp)
		}
	}
	for _, d := range []float64{p.R2, 3.5, 10.0} {
		fc, _ := p.Cutoff(d)
		if math.Abs(fc) > 1e-15 {
			t.Errorf("fc(%g): expected 0, got %g", d, fc)
		}
	}
}

func TestCutoffSmoothAtEdges(t *testing.T) {
	p := testSet(t)

	// Value and derivative continuity at both edges.
	for _, edge := range []float64{p.R1, p.R2} {
		fcL, fcpL := p.Cutoff(edge - 1e-9)
		fcR, fcpR := p.Cutoff(edge + 1e-9)
		if math.Abs(fcL-fcR) > 1e-7 {
			t.Errorf("fc jumps at %g: %g vs %g", edge, fcL, fcR)
		}
		if math.Abs(fcpL-fcpR) > 1e-6 {
			t.Errorf("fc' jumps at %g: %g vs %g", edge, fcpL, fcpR)
		}
	}

	_, fcpR1 := p.Cutoff(p.R1 + 1e-12)
	_, fcpR2 := p.Cutoff(p.R2 - 1e-12)
	if math.Abs(fcpR1) > 1e-9 || math.Abs(fcpR2) > 1e-9 {
		t.Errorf("fc' must vanish at the edges, got %g and %g", fcpR1, fcpR2)
	}
}

func TestCutoffMonotone(t *testing.T) {
	p := testSet(t)
	prev := 1.0
	for d := p.R1; d <= p.R2; d += (p.R2 - p.R1) / 200 {
		fc, _ := p.Cutoff(d)
		if fc > prev+1e-12 {
			t.Fatalf("fc increased at d=%g: %g > %g", d, fc, prev)
		}
		prev = fc
	}
}

// finite-difference check of an analytic derivative
func checkDeriv(t *testing.T, name string, f func(float64) (float64, float64), d float64) {
	t.Helper()
	const h = 1e-6
	_, dv := f(d)
	lo, _ := f(d - h)
	hi, _ := f(d + h)
	num := (hi - lo) / (2 * h)
	tol := 1e-5 * (1 + math.Abs(num))
	if math.Abs(dv-num) > tol {
		t.Errorf("%s'(%g): analytic %g, numeric %g", name, d, dv, num)
	}
}

func TestRepulsionDerivative(t *testing.T) {
	p := testSet(t)
	for _, d := range []float64{0.8, 1.5, 2.3, 2.85} {
		checkDeriv(t, "fr", p.Repulsion, d)
	}
}

func TestAttractionDerivative(t *testing.T) {
	p := testSet(t)
	for _, d := range []float64{0.8, 1.5, 2.3, 2.85} {
		checkDeriv(t, "fa", p.Attraction, d)
	}
}

func TestCutoffDerivative(t *testing.T) {
	p := testSet(t)
	for _, d := range []float64{2.75, 2.85, 2.95} {
		checkDeriv(t, "fc", p.Cutoff, d)
	}
}

func TestAngular(t *testing.T) {
	p := testSet(t)
	for _, cos := range []float64{-1, -0.5, 0, 0.3, 1} {
		g, gp := p.Angular(cos)
		want := (cos - p.H) * (cos - p.H)
		if math.Abs(g-want) > 1e-14 {
			t.Errorf("g(%g): expected %g, got %g", cos, want, g)
		}
		if g < 0 {
			t.Errorf("g(%g) negative: %g", cos, g)
		}
		if math.Abs(gp-2*(cos-p.H)) > 1e-14 {
			t.Errorf("g'(%g): expected %g, got %g", cos, 2*(cos-p.H), gp)
		}
	}
}

func TestEnvelopeDegenerate(t *testing.T) {
	p := testSet(t)
	p.Alpha = 0
	e, ep := p.Envelope(2.0, 1.0)
	if e != 1 || ep != 0 {
		t.Errorf("degenerate envelope: expected (1, 0), got (%g, %g)", e, ep)
	}
	p.Alpha = 1e-16
	e, ep = p.Envelope(2.0, 1.0)
	if e != 1 || ep != 0 {
		t.Errorf("sub-threshold alpha: expected (1, 0), got (%g, %g)", e, ep)
	}
}

func TestEnvelopeDerivative(t *testing.T) {
	p := testSet(t)
	for _, d12 := range []float64{1.8, 2.2, 2.6} {
		checkDeriv(t, "e", func(d float64) (float64, float64) {
			return p.Envelope(d, 2.0)
		}, d12)
	}

	// Derivative with respect to the second argument is the negation.
	e, ep := p.Envelope(2.4, 2.0)
	const h = 1e-6
	lo, _ := p.Envelope(2.4, 2.0-h)
	hi, _ := p.Envelope(2.4, 2.0+h)
	num := (hi - lo) / (2 * h)
	if math.Abs(-ep-num) > 1e-5*(1+math.Abs(num)) {
		t.Errorf("second-argument derivative: expected %g, numeric %g (e=%g)", -ep, num, e)
	}
}
