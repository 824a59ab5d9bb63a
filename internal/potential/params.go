package potential

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ParameterSet holds the coefficients for one ordered type triple
// (t1,t2,t3), plus the two precomputed cutoff blend factors. Immutable
// after the table is loaded.
type ParameterSet struct {
	A      float64 // repulsive prefactor
	Q      float64 // short-range repulsive correction
	Lambda float64 // repulsive decay
	B      float64 // first attractive prefactor
	Mu     float64 // first attractive decay
	B2     float64 // second attractive prefactor
	Mu2    float64 // second attractive decay
	Beta   float64 // bond-order strength
	H      float64 // angular minimum, cos of the preferred angle
	Alpha  float64 // bond-length-difference envelope strength
	R1     float64 // inner cutoff, switching starts here
	R2     float64 // outer cutoff, interaction vanishes here

	piFactor1 float64 // pi / (R2 - R1)
	piFactor3 float64 // 3*pi / (R2 - R1)
}

// fieldNames follows the fixed column order of the parameter file.
var fieldNames = [12]string{
	"A", "Q", "LAMBDA", "B", "MU", "B2", "MU2", "BETA", "H", "ALPHA", "R1", "R2",
}

func (p *ParameterSet) validate(record int) error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"A", p.A}, {"Q", p.Q}, {"LAMBDA", p.Lambda},
		{"B", p.B}, {"MU", p.Mu}, {"B2", p.B2}, {"MU2", p.Mu2},
		{"BETA", p.Beta}, {"ALPHA", p.Alpha},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("potential: record %d: %s must be non-negative, got %g", record, f.name, f.value)
		}
	}
	if math.Abs(p.H) > 1 {
		return fmt.Errorf("potential: record %d: |H| must not exceed 1, got %g", record, p.H)
	}
	if p.R1 < 0 {
		return fmt.Errorf("potential: record %d: R1 must be non-negative, got %g", record, p.R1)
	}
	if p.R2 <= p.R1 {
		return fmt.Errorf("potential: record %d: R2 must exceed R1, got R1=%g R2=%g", record, p.R1, p.R2)
	}
	return nil
}

// Table maps ordered type triples to parameter sets. Types are 1-based;
// the triple (t1,t2,t3) lives at (t1-1)*T^2 + (t2-1)*T + (t3-1).
type Table struct {
	numTypes    int
	sets        []ParameterSet
	outerCutoff float64
}

// LoadTable reads T^3 records in row-major (t1,t2,t3) order, each a line
// of 12 whitespace-separated reals in the column order
// A Q LAMBDA B MU B2 MU2 BETA H ALPHA R1 R2. Blank lines and lines
// starting with '#' are skipped. Any malformed or out-of-range record is
// a fatal load error.
func LoadTable(r io.Reader, numTypes int) (*Table, error) {
	if numTypes < 1 {
		return nil, fmt.Errorf("potential: number of types must be positive, got %d", numTypes)
	}
	want := numTypes * numTypes * numTypes
	t := &Table{
		numTypes: numTypes,
		sets:     make([]ParameterSet, 0, want),
	}

	scanner := bufio.NewScanner(r)
	record := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if record == want {
			return nil, fmt.Errorf("potential: expected %d records, found extra data", want)
		}
		record++

		fields := strings.Fields(line)
		if len(fields) != 12 {
			return nil, fmt.Errorf("potential: record %d: expected 12 fields, got %d", record, len(fields))
		}
		var v [12]float64
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("potential: record %d: field %s: %v", record, fieldNames[i], err)
			}
			v[i] = x
		}

		p := ParameterSet{
			A: v[0], Q: v[1], Lambda: v[2],
			B: v[3], Mu: v[4], B2: v[5], Mu2: v[6],
			Beta: v[7], H: v[8], Alpha: v[9],
			R1: v[10], R2: v[11],
		}
		if err := p.validate(record); err != nil {
			return nil, err
		}
		p.piFactor1 = math.Pi / (p.R2 - p.R1)
		p.piFactor3 = 3 * math.Pi / (p.R2 - p.R1)

		t.sets = append(t.sets, p)
		if p.R2 > t.outerCutoff {
			t.outerCutoff = p.R2
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("potential: reading parameter table: %w", err)
	}
	if record != want {
		return nil, fmt.Errorf("potential: expected %d records for %d types, got %d", want, numTypes, record)
	}
	return t, nil
}

// LoadTableFile loads a parameter table from a file on disk.
func LoadTableFile(path string, numTypes int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("potential: %w", err)
	}
	defer f.Close()
	return LoadTable(f, numTypes)
}

// Set returns the parameter set for the ordered triple (t1,t2,t3),
// 1-based types. Out-of-range types panic: callers validate atom types
// against NumTypes before entering the evaluation passes.
func (t *Table) Set(t1, t2, t3 int) *ParameterSet {
	n := t.numTypes
	return &t.sets[(t1-1)*n*n+(t2-1)*n+(t3-1)]
}

// NumTypes returns the number of element types the table covers.
func (t *Table) NumTypes() int { return t.numTypes }

// OuterCutoff returns the largest R2 over all parameter sets, the radius
// the neighbor list must cover.
func (t *Table) OuterCutoff() float64 { return t.outerCutoff }
