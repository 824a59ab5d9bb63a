package sim

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/tersim/internal/compute"
	"github.com/san-kum/tersim/internal/geom"
	"github.com/san-kum/tersim/internal/neighbor"
	"github.com/san-kum/tersim/internal/potential"
	"github.com/san-kum/tersim/internal/system"
)

const testRecord = "1000 0 3 100 2 0 0 0.5 0 0 1.8 2.2\n"

func testSetup(t *testing.T, positions [][3]float64) (*system.System, *potential.Tersoff, *neighbor.Builder) {
	t.Helper()
	tab, err := potential.LoadTable(strings.NewReader(testRecord), 1)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	box, err := geom.NewOrthorhombic(50, 50, 50, [3]bool{false, false, false})
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	sys, err := system.New(len(positions), 8, box)
	if err != nil {
		t.Fatalf("system: %v", err)
	}
	for i, p := range positions {
		sys.X[i], sys.Y[i], sys.Z[i] = p[0]+25, p[1]+25, p[2]+25
		sys.Type[i] = 1
	}
	pot, err := potential.NewTersoff(tab, sys.N, sys.MaxNeighbors, compute.NewPool(2))
	if err != nil {
		t.Fatalf("potential: %v", err)
	}
	builder, err := neighbor.NewBuilder(pot.OuterCutoff(), 0.5)
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	return sys, pot, builder
}

func TestReduceConservesMomentum(t *testing.T) {
	sys, pot, builder := testSetup(t, [][3]float64{
		{0, 0, 0}, {1.9, 0.1, 0}, {0.3, 1.8, 0.2},
	})
	if err := builder.Build(sys); err != nil {
		t.Fatalf("build: %v", err)
	}
	energy := make([]float64, sys.N)
	if err := pot.Compute(sys, energy); err != nil {
		t.Fatalf("compute: %v", err)
	}

	out := NewForces(sys.N)
	bfx, bfy, bfz := pot.BondForces()
	if err := Reduce(sys, bfx, bfy, bfz, out); err != nil {
		t.Fatalf("reduce: %v", err)
	}

	var sx, sy, sz float64
	for i := 0; i < sys.N; i++ {
		sx += out.FX[i]
		sy += out.FY[i]
		sz += out.FZ[i]
	}
	if math.Abs(sx) > 1e-10 || math.Abs(sy) > 1e-10 || math.Abs(sz) > 1e-10 {
		t.Errorf("net force not zero: (%g, %g, %g)", sx, sy, sz)
	}
}

func TestRunConservesEnergyNVE(t *testing.T) {
	sys, pot, builder := testSetup(t, [][3]float64{{0, 0, 0}, {1.5, 0, 0}})

	r, err := NewRunner(sys, pot, builder, []float64{0, 1.0}, None{})
	if err != nil {
		t.Fatalf("runner: %v", err)
	}

	res, err := r.Run(context.Background(), Config{Dt: 5e-4, Steps: 400, SampleEvery: 50})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.StepsTaken != 400 {
		t.Errorf("expected 400 steps, got %d", res.StepsTaken)
	}
	if res.EnergyDrift > 1e-4 {
		t.Errorf("energy drift too large: %g", res.EnergyDrift)
	}
	if len(res.Times) != 9 { // initial sample plus every 50th step
		t.Errorf("expected 9 samples, got %d", len(res.Times))
	}
}

func TestRunInvalidConfig(t *testing.T) {
	sys, pot, builder := testSetup(t, [][3]float64{{0, 0, 0}, {1.5, 0, 0}})
	r, err := NewRunner(sys, pot, builder, []float64{0, 1.0}, nil)
	if err != nil {
		t.Fatalf("runner: %v", err)
	}

	if _, err := r.Run(context.Background(), Config{Dt: 0, Steps: 10}); err == nil {
		t.Error("expected error for zero dt")
	}
	if _, err := r.Run(context.Background(), Config{Dt: 0.001, Steps: -1}); err == nil {
		t.Error("expected error for negative steps")
	}
}

func TestRunHonorsContext(t *testing.T) {
	sys, pot, builder := testSetup(t, [][3]float64{{0, 0, 0}, {1.5, 0, 0}})
	r, err := NewRunner(sys, pot, builder, []float64{0, 1.0}, nil)
	if err != nil {
		t.Fatalf("runner: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx, Config{Dt: 0.001, Steps: 1000}); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunnerRejectsMissingMass(t *testing.T) {
	sys, pot, builder := testSetup(t, [][3]float64{{0, 0, 0}, {1.5, 0, 0}})
	if _, err := NewRunner(sys, pot, builder, []float64{0}, nil); err == nil {
		t.Error("expected error for missing mass entry")
	}
	if _, err := NewRunner(sys, pot, builder, []float64{0, -1}, nil); err == nil {
		t.Error("expected error for non-positive mass")
	}
}

type countingObserver struct{ steps int }

func (c *countingObserver) OnStep(int, float64, *system.System, float64, float64) { c.steps++ }

func TestObserverSeesEveryStep(t *testing.T) {
	sys, pot, builder := testSetup(t, [][3]float64{{0, 0, 0}, {1.5, 0, 0}})
	r, err := NewRunner(sys, pot, builder, []float64{0, 1.0}, nil)
	if err != nil {
		t.Fatalf("runner: %v", err)
	}
	obs := &countingObserver{}
	r.AddObserver(obs)

	if _, err := r.Run(context.Background(), Config{Dt: 0.001, Steps: 25}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if obs.steps != 25 {
		t.Errorf("expected 25 observations, got %d", obs.steps)
	}
}

func TestBerendsenPullsTowardTarget(t *testing.T) {
	sys, _, _ := testSetup(t, [][3]float64{
		{0, 0, 0}, {3, 0, 0}, {0, 3, 0}, {3, 3, 0},
	})
	mass := []float64{0, 1.0}
	// Hot start at T well above the 0.1 target.
	sys.VX[0], sys.VY[1], sys.VZ[2], sys.VX[3] = 2, -2, 2, -2

	th, err := NewThermostat("berendsen", 0.1, 0.01, 0)
	if err != nil {
		t.Fatalf("thermostat: %v", err)
	}

	before := Temperature(sys, mass)
	for i := 0; i < 50; i++ {
		th.Apply(sys, mass, 0.001)
	}
	after := Temperature(sys, mass)
	if after >= before {
		t.Errorf("temperature should drop toward target: %g -> %g", before, after)
	}
	if after < 0.1 {
		t.Errorf("temperature overshot target: %g", after)
	}
}

func TestLangevinThermalizes(t *testing.T) {
	sys, _, _ := testSetup(t, [][3]float64{
		{0, 0, 0}, {3, 0, 0}, {0, 3, 0}, {3, 3, 0},
	})
	mass := []float64{0, 1.0}

	th, err := NewThermostat("langevin", 0.5, 5.0, 42)
	if err != nil {
		t.Fatalf("thermostat: %v", err)
	}

	// From rest, the bath must inject kinetic energy.
	total := 0.0
	const rounds = 200
	for i := 0; i < rounds; i++ {
		th.Apply(sys, mass, 0.01)
		total += Temperature(sys, mass)
	}
	mean := total / rounds
	if mean < 0.1 || mean > 1.5 {
		t.Errorf("mean temperature %g far from target 0.5", mean)
	}
}

func TestUnknownThermostat(t *testing.T) {
	if _, err := NewThermostat("nose-hoover", 1, 1, 0); err == nil {
		t.Error("expected error for unknown thermostat")
	}
}

func TestInitVelocities(t *testing.T) {
	positions := make([][3]float64, 16)
	for i := range positions {
		positions[i] = [3]float64{float64(i) * 3, 0, 0}
	}
	sys, _, _ := testSetup(t, positions)
	mass := []float64{0, 2.0}

	InitVelocities(sys, mass, 0.75, 7)

	if temp := Temperature(sys, mass); math.Abs(temp-0.75) > 1e-12 {
		t.Errorf("temperature %g after rescale, want 0.75", temp)
	}
	var px, py, pz float64
	for i := 0; i < sys.N; i++ {
		px += mass[1] * sys.VX[i]
		py += mass[1] * sys.VY[i]
		pz += mass[1] * sys.VZ[i]
	}
	if math.Abs(px)+math.Abs(py)+math.Abs(pz) > 1e-9 {
		t.Errorf("net momentum (%g, %g, %g) not removed", px, py, pz)
	}
}

func TestInitVelocitiesZeroTarget(t *testing.T) {
	sys, _, _ := testSetup(t, [][3]float64{{0, 0, 0}, {1.5, 0, 0}})
	InitVelocities(sys, []float64{0, 1}, 0, 1)
	for i := 0; i < sys.N; i++ {
		if sys.VX[i] != 0 || sys.VY[i] != 0 || sys.VZ[i] != 0 {
			t.Fatalf("atom %d moving after zero-temperature init", i)
		}
	}
}
