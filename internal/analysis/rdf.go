package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/tersim/internal/system"
)

// RDF accumulates a radial distribution function histogram.
type RDF struct {
	RMax    float64
	Bins    int
	counts  []float64
	samples int
}

// NewRDF creates a histogram reaching rmax with the given bin count.
func NewRDF(rmax float64, bins int) (*RDF, error) {
	if rmax <= 0 {
		return nil, fmt.Errorf("analysis: rmax must be positive, got %g", rmax)
	}
	if bins <= 0 {
		return nil, fmt.Errorf("analysis: bins must be positive, got %d", bins)
	}
	return &RDF{RMax: rmax, Bins: bins, counts: make([]float64, bins)}, nil
}

// Sample accumulates all pair distances of one configuration.
func (r *RDF) Sample(sys *system.System) {
	dr := r.RMax / float64(r.Bins)
	for i := 0; i < sys.N; i++ {
		for j := i + 1; j < sys.N; j++ {
			_, _, _, d := sys.Displacement(i, j)
			if d >= r.RMax {
				continue
			}
			r.counts[int(d/dr)] += 2 // pair counted from both atoms
		}
	}
	r.samples++
}

// Result normalizes the histogram to g(r) using the ideal-gas shell
// density of the sampled system. Returns bin centers and g values.
func (r *RDF) Result(sys *system.System) (centers, g []float64) {
	centers = make([]float64, r.Bins)
	g = make([]float64, r.Bins)
	if r.samples == 0 {
		return
	}
	dr := r.RMax / float64(r.Bins)
	density := float64(sys.N) / sys.Box.Volume()
	for b := 0; b < r.Bins; b++ {
		rLo := float64(b) * dr
		centers[b] = rLo + 0.5*dr
		shell := 4.0 / 3.0 * math.Pi * (math.Pow(rLo+dr, 3) - math.Pow(rLo, 3))
		ideal := density * shell * float64(sys.N) * float64(r.samples)
		if ideal > 0 {
			g[b] = r.counts[b] / ideal
		}
	}
	return
}
