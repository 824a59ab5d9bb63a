package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/tersim/internal/alearn"
	"github.com/san-kum/tersim/internal/analysis"
	"github.com/san-kum/tersim/internal/compute"
	"github.com/san-kum/tersim/internal/config"
	"github.com/san-kum/tersim/internal/geom"
	"github.com/san-kum/tersim/internal/neighbor"
	"github.com/san-kum/tersim/internal/potential"
	"github.com/san-kum/tersim/internal/sim"
	"github.com/san-kum/tersim/internal/store"
	"github.com/san-kum/tersim/internal/system"
	"github.com/san-kum/tersim/internal/viz"
)

var (
	configFile string
	numTypes   int
	threshold  float64
	rmax       float64
	bins       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tersim",
		Short: "bond-order molecular dynamics engine",
	}

	checkCmd := &cobra.Command{
		Use:   "check [table]",
		Short: "validate a potential parameter table",
		Args:  cobra.ExactArgs(1),
		RunE:  checkTable,
	}
	checkCmd.Flags().IntVar(&numTypes, "types", 1, "number of atom types")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run molecular dynamics",
		RunE:  runMD,
	}
	runCmd.Flags().StringVar(&configFile, "config", "tersim.yaml", "config file (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run molecular dynamics with a live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "tersim.yaml", "config file (yaml)")

	gradeCmd := &cobra.Command{
		Use:   "grade [model]",
		Short: "grade the start configuration against an active-set model",
		Args:  cobra.ExactArgs(1),
		RunE:  gradeStructure,
	}
	gradeCmd.Flags().StringVar(&configFile, "config", "tersim.yaml", "config file (yaml)")
	gradeCmd.Flags().Float64Var(&threshold, "threshold", 2.0, "extrapolation grade threshold")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [trajectory]",
		Short: "radial distribution and mean-square displacement of a trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeTrajectory,
	}
	analyzeCmd.Flags().StringVar(&configFile, "config", "tersim.yaml", "config file (yaml)")
	analyzeCmd.Flags().Float64Var(&rmax, "rmax", 0, "histogram range (0 selects half the shortest box edge)")
	analyzeCmd.Flags().IntVar(&bins, "bins", 100, "histogram bins")

	rootCmd.AddCommand(checkCmd, initCmd, runCmd, liveCmd, gradeCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func checkTable(cmd *cobra.Command, args []string) error {
	table, err := potential.LoadTableFile(args[0], numTypes)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d type(s), %d parameter set(s), outer cutoff %.4f\n\n",
		args[0], table.NumTypes(), numTypes*numTypes*numTypes, table.OuterCutoff())

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRIPLE\tA\tB\tLAMBDA\tMU\tBETA\tH\tR1\tR2")
	for t1 := 1; t1 <= table.NumTypes(); t1++ {
		for t2 := 1; t2 <= table.NumTypes(); t2++ {
			for t3 := 1; t3 <= table.NumTypes(); t3++ {
				p := table.Set(t1, t2, t3)
				fmt.Fprintf(w, "%d-%d-%d\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\n",
					t1, t2, t3, p.A, p.B, p.Lambda, p.Mu, p.Beta, p.H, p.R1, p.R2)
			}
		}
	}
	return w.Flush()
}

// setup holds everything a config-driven command needs.
type setup struct {
	cfg     *config.Config
	sys     *system.System
	pot     *potential.Tersoff
	builder *neighbor.Builder
}

func load(path string) (*setup, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	frame, err := store.ReadXYZ(cfg.Structure)
	if err != nil {
		return nil, err
	}
	sys, err := buildSystem(cfg, frame)
	if err != nil {
		return nil, err
	}

	table, err := potential.LoadTableFile(cfg.Potential, len(cfg.Species))
	if err != nil {
		return nil, err
	}
	pool := compute.NewPool(cfg.Workers)
	pot, err := potential.NewTersoff(table, sys.N, cfg.Neighbor.Cap, pool)
	if err != nil {
		return nil, err
	}
	builder, err := neighbor.NewBuilder(table.OuterCutoff(), cfg.Neighbor.Skin)
	if err != nil {
		return nil, err
	}
	return &setup{cfg: cfg, sys: sys, pot: pot, builder: builder}, nil
}

// buildSystem places a frame's atoms in the configured box.
func buildSystem(cfg *config.Config, frame *store.Frame) (*system.System, error) {
	box, err := buildBox(cfg)
	if err != nil {
		return nil, err
	}
	sys, err := system.New(len(frame.X), cfg.Neighbor.Cap, box)
	if err != nil {
		return nil, err
	}
	for i := range frame.X {
		ty, err := cfg.TypeOf(frame.Symbols[i])
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i, err)
		}
		sys.Type[i] = ty
		sys.X[i], sys.Y[i], sys.Z[i] = box.Wrap(frame.X[i], frame.Y[i], frame.Z[i])
	}
	return sys, nil
}

func buildBox(cfg *config.Config) (*geom.Box, error) {
	if len(cfg.Box.Vectors) == 3 {
		var a, b, c [3]float64
		copy(a[:], cfg.Box.Vectors[0])
		copy(b[:], cfg.Box.Vectors[1])
		copy(c[:], cfg.Box.Vectors[2])
		return geom.NewTriclinic(a, b, c, cfg.Box.Periodic)
	}
	return geom.NewOrthorhombic(cfg.Box.Lx, cfg.Box.Ly, cfg.Box.Lz, cfg.Box.Periodic)
}

func buildRunner(s *setup) (*sim.Runner, error) {
	md := s.cfg.MD
	th, err := sim.NewThermostat(md.Thermostat, md.Temperature, md.Coupling, md.Seed)
	if err != nil {
		return nil, err
	}
	runner, err := sim.NewRunner(s.sys, s.pot, s.builder, s.cfg.MassTable(), th)
	if err != nil {
		return nil, err
	}
	sim.InitVelocities(s.sys, s.cfg.MassTable(), md.Temperature, md.Seed)
	return runner, nil
}

func runMD(cmd *cobra.Command, args []string) error {
	s, err := load(configFile)
	if err != nil {
		return err
	}
	runner, err := buildRunner(s)
	if err != nil {
		return err
	}

	if s.cfg.Output.Trajectory != "" {
		symbols := append([]string{""}, s.cfg.Species...)
		tw, err := store.NewTrajectoryWriter(s.cfg.Output.Trajectory, symbols, s.cfg.Output.Every)
		if err != nil {
			return err
		}
		defer tw.Close()
		runner.AddObserver(tw)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("running %d atoms for %d steps (dt=%g, thermostat=%s)...\n",
		s.sys.N, s.cfg.MD.Steps, s.cfg.MD.Dt, s.cfg.MD.Thermostat)
	start := time.Now()

	result, err := runner.Run(ctx, sim.Config{
		Dt:           s.cfg.MD.Dt,
		Steps:        s.cfg.MD.Steps,
		SampleEvery:  s.cfg.MD.SampleEvery,
		RebuildEvery: s.cfg.Neighbor.RebuildEvery,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d steps in %v\n", result.StepsTaken, elapsed)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	if n := len(result.Times); n > 0 {
		fmt.Printf("final: pe=%.6f ke=%.6f T=%.4f\n",
			result.Potential[n-1], result.Kinetic[n-1], result.Temperature[n-1])
	}

	if len(result.Potential) > 1 {
		total := make([]float64, len(result.Potential))
		for i := range total {
			total[i] = result.Potential[i] + result.Kinetic[i]
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(total, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("Total energy")))
	}

	if s.cfg.Output.Results != "" {
		if err := store.ExportJSON(s.cfg.Output.Results, s.cfg.Potential, s.cfg.Structure,
			s.cfg.MD.Thermostat, s.cfg.MD.Dt, result); err != nil {
			return err
		}
		fmt.Printf("results written to %s\n", s.cfg.Output.Results)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := load(configFile)
	if err != nil {
		return err
	}
	runner, err := buildRunner(s)
	if err != nil {
		return err
	}
	if err := runner.Prime(); err != nil {
		return err
	}

	model := viz.NewModel(runner, "tersim", s.cfg.MD.Dt, s.cfg.Neighbor.RebuildEvery)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func gradeStructure(cmd *cobra.Command, args []string) error {
	s, err := load(configFile)
	if err != nil {
		return err
	}
	est, err := alearn.LoadFile(args[0])
	if err != nil {
		return err
	}
	if err := s.builder.Build(s.sys); err != nil {
		return err
	}
	// Descriptors read the bond-order buffers, so evaluate first.
	if err := s.pot.Compute(s.sys, make([]float64, s.sys.N)); err != nil {
		return err
	}
	features, err := s.pot.Descriptors(s.sys)
	if err != nil {
		return err
	}
	grades, err := est.Grades(features)
	if err != nil {
		return err
	}

	maxGrade, maxAtom := 0.0, 0
	for i, g := range grades {
		if g > maxGrade {
			maxGrade, maxAtom = g, i
		}
	}
	fmt.Printf("max grade %.4f (atom %d), threshold %.4f\n", maxGrade, maxAtom, threshold)

	flagged := alearn.Flag(grades, threshold)
	if len(flagged) == 0 {
		fmt.Println("configuration is within the fitted domain")
		return nil
	}
	fmt.Printf("%d atom(s) extrapolating:\n", len(flagged))
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ATOM\tTYPE\tGRADE")
	for _, i := range flagged {
		fmt.Fprintf(w, "%d\t%s\t%.4f\n", i, s.cfg.Species[s.sys.Type[i]-1], grades[i])
	}
	return w.Flush()
}

func analyzeTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	frames, err := store.ReadTrajectory(args[0])
	if err != nil {
		return err
	}

	sys, err := buildSystem(cfg, frames[0])
	if err != nil {
		return err
	}
	if rmax <= 0 {
		rmax = shortestEdge(sys.Box) / 2
	}
	rdf, err := analysis.NewRDF(rmax, bins)
	if err != nil {
		return err
	}
	msd, err := analysis.NewMSD(frames[0].X, frames[0].Y, frames[0].Z)
	if err != nil {
		return err
	}

	displacements := make([]float64, 0, len(frames))
	for _, frame := range frames {
		if len(frame.X) != sys.N {
			return fmt.Errorf("atom count changed mid-trajectory: %d != %d", len(frame.X), sys.N)
		}
		copy(sys.X, frame.X)
		copy(sys.Y, frame.Y)
		copy(sys.Z, frame.Z)
		rdf.Sample(sys)
		v, err := msd.Value(frame.X, frame.Y, frame.Z)
		if err != nil {
			return err
		}
		displacements = append(displacements, v)
	}

	_, g := rdf.Result(sys)
	fmt.Printf("%d frames, %d atoms\n\n", len(frames), sys.N)
	fmt.Println(asciigraph.Plot(g, asciigraph.Height(10), asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("g(r), r < %.2f", rmax))))
	if len(displacements) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(displacements, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("MSD per frame")))
	}
	return nil
}

func shortestEdge(b *geom.Box) float64 {
	edge := b.H[0][0]
	if b.H[1][1] < edge {
		edge = b.H[1][1]
	}
	if b.H[2][2] < edge {
		edge = b.H[2][2]
	}
	return edge
}
