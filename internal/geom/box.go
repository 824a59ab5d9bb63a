package geom

import (
	"fmt"
	"math"
)

// Box describes the simulation cell: three cell vectors stored as the
// columns of H, per-axis periodic flags, and a triclinic marker for
// non-orthogonal cells. Hinv is kept alongside H so that minimum-image
// resolution in fractional coordinates is a pair of matrix products.
type Box struct {
	H         [3][3]float64
	Hinv      [3][3]float64
	Periodic  [3]bool
	Triclinic bool
}

// NewOrthorhombic builds an axis-aligned box with edge lengths lx, ly, lz.
func NewOrthorhombic(lx, ly, lz float64, periodic [3]bool) (*Box, error) {
	if lx <= 0 || ly <= 0 || lz <= 0 {
		return nil, fmt.Errorf("geom: box edges must be positive, got (%g, %g, %g)", lx, ly, lz)
	}
	b := &Box{Periodic: periodic}
	b.H[0][0], b.H[1][1], b.H[2][2] = lx, ly, lz
	b.Hinv[0][0], b.Hinv[1][1], b.Hinv[2][2] = 1/lx, 1/ly, 1/lz
	return b, nil
}

// NewTriclinic builds a box from three cell vectors a, b, c (the columns
// of H). The cell must span a positive volume.
func NewTriclinic(a, b, c [3]float64, periodic [3]bool) (*Box, error) {
	box := &Box{Periodic: periodic, Triclinic: true}
	for i := 0; i < 3; i++ {
		box.H[i][0], box.H[i][1], box.H[i][2] = a[i], b[i], c[i]
	}
	det := box.det()
	if math.Abs(det) < 1e-12 {
		return nil, fmt.Errorf("geom: degenerate cell, |det H| = %g", math.Abs(det))
	}
	box.invert(det)
	return box, nil
}

func (b *Box) det() float64 {
	h := &b.H
	return h[0][0]*(h[1][1]*h[2][2]-h[1][2]*h[2][1]) -
		h[0][1]*(h[1][0]*h[2][2]-h[1][2]*h[2][0]) +
		h[0][2]*(h[1][0]*h[2][1]-h[1][1]*h[2][0])
}

func (b *Box) invert(det float64) {
	h := &b.H
	inv := &b.Hinv
	inv[0][0] = (h[1][1]*h[2][2] - h[1][2]*h[2][1]) / det
	inv[0][1] = (h[0][2]*h[2][1] - h[0][1]*h[2][2]) / det
	inv[0][2] = (h[0][1]*h[1][2] - h[0][2]*h[1][1]) / det
	inv[1][0] = (h[1][2]*h[2][0] - h[1][0]*h[2][2]) / det
	inv[1][1] = (h[0][0]*h[2][2] - h[0][2]*h[2][0]) / det
	inv[1][2] = (h[0][2]*h[1][0] - h[0][0]*h[1][2]) / det
	inv[2][0] = (h[1][0]*h[2][1] - h[1][1]*h[2][0]) / det
	inv[2][1] = (h[0][1]*h[2][0] - h[0][0]*h[2][1]) / det
	inv[2][2] = (h[0][0]*h[1][1] - h[0][1]*h[1][0]) / det
}

// Volume returns the cell volume.
func (b *Box) Volume() float64 {
	return math.Abs(b.det())
}

// MinimumImage maps a raw displacement (dx, dy, dz) onto its nearest
// periodic image. Non-periodic axes pass through unchanged. For
// orthorhombic cells each axis wraps independently; triclinic cells wrap
// in fractional coordinates.
func (b *Box) MinimumImage(dx, dy, dz float64) (float64, float64, float64) {
	if !b.Triclinic {
		if b.Periodic[0] {
			dx -= b.H[0][0] * math.Round(dx*b.Hinv[0][0])
		}
		if b.Periodic[1] {
			dy -= b.H[1][1] * math.Round(dy*b.Hinv[1][1])
		}
		if b.Periodic[2] {
			dz -= b.H[2][2] * math.Round(dz*b.Hinv[2][2])
		}
		return dx, dy, dz
	}

	sx := b.Hinv[0][0]*dx + b.Hinv[0][1]*dy + b.Hinv[0][2]*dz
	sy := b.Hinv[1][0]*dx + b.Hinv[1][1]*dy + b.Hinv[1][2]*dz
	sz := b.Hinv[2][0]*dx + b.Hinv[2][1]*dy + b.Hinv[2][2]*dz
	if b.Periodic[0] {
		sx -= math.Round(sx)
	}
	if b.Periodic[1] {
		sy -= math.Round(sy)
	}
	if b.Periodic[2] {
		sz -= math.Round(sz)
	}
	dx = b.H[0][0]*sx + b.H[0][1]*sy + b.H[0][2]*sz
	dy = b.H[1][0]*sx + b.H[1][1]*sy + b.H[1][2]*sz
	dz = b.H[2][0]*sx + b.H[2][1]*sy + b.H[2][2]*sz
	return dx, dy, dz
}

// Wrap maps an absolute position back into the primary cell on periodic axes.
func (b *Box) Wrap(x, y, z float64) (float64, float64, float64) {
	sx := b.Hinv[0][0]*x + b.Hinv[0][1]*y + b.Hinv[0][2]*z
	sy := b.Hinv[1][0]*x + b.Hinv[1][1]*y + b.Hinv[1][2]*z
	sz := b.Hinv[2][0]*x + b.Hinv[2][1]*y + b.Hinv[2][2]*z
	if b.Periodic[0] {
		sx -= math.Floor(sx)
	}
	if b.Periodic[1] {
		sy -= math.Floor(sy)
	}
	if b.Periodic[2] {
		sz -= math.Floor(sz)
	}
	x = b.H[0][0]*sx + b.H[0][1]*sy + b.H[0][2]*sz
	y = b.H[1][0]*sx + b.H[1][1]*sy + b.H[1][2]*sz
	z = b.H[2][0]*sx + b.H[2][1]*sy + b.H[2][2]*sz
	return x, y, z
}
