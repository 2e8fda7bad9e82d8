package field

import (
	"fmt"
	"math"

	"github.com/san-kum/partprop/internal/vec"
)

// Grid is a cubic, periodically continued lattice of field samples. Lattice
// node (ix, iy, iz) sits at origin + spacing*(ix, iy, iz); indices wrap modulo
// the sample count on every axis.
type Grid struct {
	origin  vec.Vector3
	spacing float64
	samples int
	data    []vec.Vector3
}

// NewGrid returns a grid over a copy of data, which holds samples^3 vectors
// indexed ((iz*samples)+iy)*samples+ix.
func NewGrid(origin vec.Vector3, samples int, spacing float64, data []vec.Vector3) (*Grid, error) {
	if err := validate(origin, samples, spacing); err != nil {
		return nil, err
	}
	if len(data) != samples*samples*samples {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDataLength, len(data), samples*samples*samples)
	}
	g := &Grid{origin: origin, spacing: spacing, samples: samples}
	g.data = make([]vec.Vector3, len(data))
	copy(g.data, data)
	return g, nil
}

// NewGridFunc returns a grid whose node (ix, iy, iz) holds fn(ix, iy, iz).
func NewGridFunc(origin vec.Vector3, samples int, spacing float64, fn func(ix, iy, iz int) vec.Vector3) (*Grid, error) {
	if err := validate(origin, samples, spacing); err != nil {
		return nil, err
	}
	g := &Grid{
		origin:  origin,
		spacing: spacing,
		samples: samples,
		data:    make([]vec.Vector3, samples*samples*samples),
	}
	for iz := 0; iz < samples; iz++ {
		for iy := 0; iy < samples; iy++ {
			for ix := 0; ix < samples; ix++ {
				g.data[g.idx(ix, iy, iz)] = fn(ix, iy, iz)
			}
		}
	}
	return g, nil
}

func validate(origin vec.Vector3, samples int, spacing float64) error {
	if samples <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSamples, samples)
	}
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidSpacing, spacing)
	}
	if !origin.IsFinite() {
		return fmt.Errorf("%w: got %v", ErrInvalidOrigin, origin)
	}
	return nil
}

func (g *Grid) Origin() vec.Vector3 { return g.origin }
func (g *Grid) Spacing() float64    { return g.spacing }
func (g *Grid) Samples() int        { return g.samples }

// Extent returns the edge length of one period, samples*spacing.
func (g *Grid) Extent() float64 { return float64(g.samples) * g.spacing }

func (g *Grid) idx(ix, iy, iz int) int {
	return (iz*g.samples+iy)*g.samples + ix
}

// Sample returns the stored vector at node (ix, iy, iz), wrapping indices
// periodically.
func (g *Grid) Sample(ix, iy, iz int) vec.Vector3 {
	n := g.samples
	return g.data[g.idx(pMod(ix, n), pMod(iy, n), pMod(iz, n))]
}

// Field returns the trilinearly interpolated field at pos.
func (g *Grid) Field(pos vec.Vector3) vec.Vector3 {
	ix, iX, fx, fX := periodicClamp(g.coord(pos.X, g.origin.X), g.samples)
	iy, iY, fy, fY := periodicClamp(g.coord(pos.Y, g.origin.Y), g.samples)
	iz, iZ, fz, fZ := periodicClamp(g.coord(pos.Z, g.origin.Z), g.samples)

	// The lower node on each axis is weighted by the complement of the
	// fractional offset, the upper node by the offset itself.
	var b vec.Vector3
	b = b.Add(g.data[g.idx(ix, iy, iz)].Scale(fX * fY * fZ))
	b = b.Add(g.data[g.idx(iX, iy, iz)].Scale(fx * fY * fZ))
	b = b.Add(g.data[g.idx(ix, iY, iz)].Scale(fX * fy * fZ))
	b = b.Add(g.data[g.idx(ix, iy, iZ)].Scale(fX * fY * fz))
	b = b.Add(g.data[g.idx(iX, iy, iZ)].Scale(fx * fY * fz))
	b = b.Add(g.data[g.idx(ix, iY, iZ)].Scale(fX * fy * fz))
	b = b.Add(g.data[g.idx(iX, iY, iz)].Scale(fx * fy * fZ))
	b = b.Add(g.data[g.idx(iX, iY, iZ)].Scale(fx * fy * fz))
	return b
}

// coord returns the lattice coordinate of p along an axis whose origin is o.
// When (p-o)/spacing overflows, both are first reduced modulo one period so
// every finite position maps to a finite coordinate.
func (g *Grid) coord(p, o float64) float64 {
	if r := (p - o) / g.spacing; !math.IsInf(r, 0) {
		return r
	}
	if ext := g.Extent(); !math.IsInf(ext, 0) {
		if r := (math.Mod(p, ext) - math.Mod(o, ext)) / g.spacing; !math.IsInf(r, 0) {
			return r
		}
	}
	// The period itself overflows, so spacing is large and p/spacing is small.
	return p/g.spacing - o/g.spacing
}

// RMS returns the root mean square of the stored sample magnitudes.
func (g *Grid) RMS() float64 {
	sum := 0.0
	for _, b := range g.data {
		sum += b.MagSq()
	}
	return math.Sqrt(sum / float64(len(g.data)))
}

// periodicClamp returns the lower and upper neighbour of grid coordinate x in
// a lattice of n nodes continued periodically, with the fractional offset
// from the lower node and its complement.
func periodicClamp(x float64, n int) (lo, hi int, frac, invFrac float64) {
	fl := math.Floor(x)
	nf := float64(n)
	lo = int(math.Mod(math.Mod(fl, nf)+nf, nf))
	hi = (lo + 1) % n
	frac = x - fl
	invFrac = 1 - frac
	return lo, hi, frac, invFrac
}

// pMod computes the positive modulo x % y.
func pMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
