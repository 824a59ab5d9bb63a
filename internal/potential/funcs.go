package potential

import "math"

// Elementary scalar terms of the potential. Each returns the value and
// its derivative with respect to distance (or cosine, for Angular), since
// the force assembly always needs both.

// Repulsion evaluates fr(d) = A*(1+Q/d)*exp(-LAMBDA*d).
func (p *ParameterSet) Repulsion(d float64) (fr, frp float64) {
	decay := math.Exp(-p.Lambda * d)
	fr = p.A * (1 + p.Q/d) * decay
	frp = p.A * decay * (-p.Q/(d*d) - p.Lambda*(1+p.Q/d))
	return
}

// Attraction evaluates fa(d) = B*exp(-MU*d) + B2*exp(-MU2*d).
func (p *ParameterSet) Attraction(d float64) (fa, fap float64) {
	e1 := p.B * math.Exp(-p.Mu*d)
	e2 := p.B2 * math.Exp(-p.Mu2*d)
	fa = e1 + e2
	fap = -p.Mu*e1 - p.Mu2*e2
	return
}

// Cutoff evaluates the switching function fc(d): 1 below R1, 0 above R2,
// and a two-term cosine blend in between. The 9/16 and -1/16 weights make
// both fc and fc' continuous at R1 and R2, and fc monotonically
// non-increasing on [R1, R2].
func (p *ParameterSet) Cutoff(d float64) (fc, fcp float64) {
	switch {
	case d < p.R1:
		return 1, 0
	case d > p.R2:
		return 0, 0
	}
	x := d - p.R1
	fc = 9.0/16.0*math.Cos(p.piFactor1*x) - 1.0/16.0*math.Cos(p.piFactor3*x) + 0.5
	fcp = -9.0/16.0*p.piFactor1*math.Sin(p.piFactor1*x) + 1.0/16.0*p.piFactor3*math.Sin(p.piFactor3*x)
	return
}

// Angular evaluates g(cos) = (cos - H)^2 and its derivative 2*(cos - H).
func (p *ParameterSet) Angular(cos float64) (g, gp float64) {
	diff := cos - p.H
	return diff * diff, 2 * diff
}

// Envelope evaluates e(d12,d13) = exp(ALPHA*(d12-d13)^3) and its
// derivative with respect to d12. ALPHA below 1e-15 degenerates to a
// constant 1 with zero derivative. The derivative with respect to d13 is
// the negation of the returned derivative.
func (p *ParameterSet) Envelope(d12, d13 float64) (e, ep float64) {
	if p.Alpha < 1e-15 {
		return 1, 0
	}
	diff := d12 - d13
	e = math.Exp(p.Alpha * diff * diff * diff)
	ep = 3 * p.Alpha * diff * diff * e
	return
}
