// Package alearn estimates per-atom extrapolation grades for active
// learning: how far a local atomic environment sits outside the span of
// the training set the potential was fitted on. The grade is the MaxVol
// criterion max|A⁻¹·x| over the inverse active-set matrix A⁻¹ and the
// atom's feature projection x produced by the potential.
package alearn

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tersim/internal/elements"
	"github.com/san-kum/tersim/internal/potential"
)

// Estimator holds the inverse active-set matrix and the species the
// basis was trained for.
type Estimator struct {
	inv     *mat.Dense
	species []int // atomic numbers
}

// Load reads an active-set file: a header line of element symbols,
// then DescriptorSize rows of DescriptorSize reals forming the inverse
// active-set matrix.
func Load(r io.Reader) (*Estimator, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, fmt.Errorf("alearn: missing species header")
	}
	var species []int
	for _, sym := range strings.Fields(scanner.Text()) {
		z, err := elements.AtomicNumber(sym)
		if err != nil {
			return nil, fmt.Errorf("alearn: %w", err)
		}
		species = append(species, z)
	}
	if len(species) == 0 {
		return nil, fmt.Errorf("alearn: empty species header")
	}

	k := potential.DescriptorSize
	data := make([]float64, 0, k*k)
	rows := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != k {
			return nil, fmt.Errorf("alearn: row %d: expected %d values, got %d", rows+1, k, len(fields))
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("alearn: row %d: %v", rows+1, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("alearn: %w", err)
	}
	if rows != k {
		return nil, fmt.Errorf("alearn: expected %d matrix rows, got %d", k, rows)
	}

	return &Estimator{
		inv:     mat.NewDense(k, k, data),
		species: species,
	}, nil
}

// LoadFile loads an active-set file from disk.
func LoadFile(path string) (*Estimator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("alearn: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Species returns the atomic numbers the active set covers.
func (e *Estimator) Species() []int { return e.species }

// Grade returns the extrapolation grade of one feature vector. A grade
// at or below 1 means the environment is interpolative; larger values
// measure how far it extrapolates.
func (e *Estimator) Grade(features []float64) (float64, error) {
	k := potential.DescriptorSize
	if len(features) != k {
		return 0, fmt.Errorf("alearn: feature vector has %d entries, want %d", len(features), k)
	}
	var y mat.VecDense
	y.MulVec(e.inv, mat.NewVecDense(k, features))

	grade := 0.0
	for i := 0; i < k; i++ {
		if v := y.AtVec(i); v > grade {
			grade = v
		} else if -v > grade {
			grade = -v
		}
	}
	return grade, nil
}

// Grades evaluates one grade per feature row.
func (e *Estimator) Grades(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		g, err := e.Grade(row)
		if err != nil {
			return nil, fmt.Errorf("alearn: atom %d: %w", i, err)
		}
		out[i] = g
	}
	return out, nil
}

// Flag returns the indices whose grade exceeds the threshold, the
// candidates to add to the training set.
func Flag(grades []float64, threshold float64) []int {
	var idx []int
	for i, g := range grades {
		if g > threshold {
			idx = append(idx, i)
		}
	}
	return idx
}
