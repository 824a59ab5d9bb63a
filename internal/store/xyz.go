// Package store reads and writes simulation artifacts: XYZ structures
// and trajectories (gzip-compressed when the filename ends in .gz) and
// JSON run results.
package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/san-kum/tersim/internal/system"
)

// Frame is one XYZ snapshot: element symbols and Cartesian coordinates.
type Frame struct {
	Comment string
	Symbols []string
	X, Y, Z []float64
}

// ReadXYZ reads the first frame of an XYZ file. A .gz suffix selects
// gzip decompression.
func ReadXYZ(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("store: %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	return readFrame(bufio.NewScanner(r))
}

// ReadTrajectory reads every frame of a multi-frame XYZ file.
func ReadTrajectory(path string) ([]*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("store: %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	scanner := bufio.NewScanner(r)
	var frames []*Frame
	for scanner.Scan() {
		frame, err := parseFrame(scanner, scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", len(frames), err)
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("store: %s: no frames", path)
	}
	return frames, scanner.Err()
}

func readFrame(scanner *bufio.Scanner) (*Frame, error) {
	if !scanner.Scan() {
		return nil, fmt.Errorf("store: missing atom count line")
	}
	return parseFrame(scanner, scanner.Text())
}

func parseFrame(scanner *bufio.Scanner, countLine string) (*Frame, error) {
	n, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("store: bad atom count %q", countLine)
	}
	if !scanner.Scan() {
		return nil, fmt.Errorf("store: missing comment line")
	}

	frame := &Frame{
		Comment: scanner.Text(),
		Symbols: make([]string, n),
		X:       make([]float64, n),
		Y:       make([]float64, n),
		Z:       make([]float64, n),
	}
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("store: expected %d atoms, file ends at %d", n, i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return nil, fmt.Errorf("store: atom %d: expected symbol and 3 coordinates, got %d fields", i, len(fields))
		}
		frame.Symbols[i] = fields[0]
		for c, dst := range []*float64{&frame.X[i], &frame.Y[i], &frame.Z[i]} {
			v, err := strconv.ParseFloat(fields[c+1], 64)
			if err != nil {
				return nil, fmt.Errorf("store: atom %d: %v", i, err)
			}
			*dst = v
		}
	}
	return frame, scanner.Err()
}

// TrajectoryWriter appends XYZ frames to a file, implementing the
// runner's Observer interface. Close flushes any compression trailer.
type TrajectoryWriter struct {
	f       *os.File
	zw      *gzip.Writer
	w       *bufio.Writer
	symbols []string
	every   int
}

// NewTrajectoryWriter opens path for frame output. symbols maps 1-based
// atom types to element names; every controls the dump cadence in steps.
func NewTrajectoryWriter(path string, symbols []string, every int) (*TrajectoryWriter, error) {
	if every <= 0 {
		every = 1
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	tw := &TrajectoryWriter{f: f, symbols: symbols, every: every}
	if strings.HasSuffix(path, ".gz") {
		tw.zw = gzip.NewWriter(f)
		tw.w = bufio.NewWriter(tw.zw)
	} else {
		tw.w = bufio.NewWriter(f)
	}
	return tw, nil
}

// OnStep dumps a frame on the writer's cadence.
func (t *TrajectoryWriter) OnStep(step int, time float64, sys *system.System, potE, kinE float64) {
	if step%t.every != 0 {
		return
	}
	t.WriteFrame(sys, fmt.Sprintf("step=%d time=%g pe=%g ke=%g", step, time, potE, kinE))
}

// WriteFrame appends one snapshot.
func (t *TrajectoryWriter) WriteFrame(sys *system.System, comment string) {
	fmt.Fprintf(t.w, "%d\n%s\n", sys.N, comment)
	for i := 0; i < sys.N; i++ {
		fmt.Fprintf(t.w, "%s %.10g %.10g %.10g\n", t.symbols[sys.Type[i]], sys.X[i], sys.Y[i], sys.Z[i])
	}
}

// Close flushes buffers and the gzip stream.
func (t *TrajectoryWriter) Close() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	if t.zw != nil {
		if err := t.zw.Close(); err != nil {
			return err
		}
	}
	return t.f.Close()
}
