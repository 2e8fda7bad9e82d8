// Package field provides magnetic field samplers for propagation modules.
//
// Every sampler is immutable once built and safe for concurrent reads.
package field

import "github.com/san-kum/partprop/internal/vec"

// MagneticField returns the field vector at a position in world coordinates.
type MagneticField interface {
	Field(pos vec.Vector3) vec.Vector3
}

// Uniform is a constant field.
type Uniform struct {
	B vec.Vector3
}

func NewUniform(b vec.Vector3) *Uniform {
	return &Uniform{B: b}
}

func (u *Uniform) Field(vec.Vector3) vec.Vector3 { return u.B }

// Profile samples f at n evenly spaced points from a to b inclusive and
// returns the field magnitudes.
func Profile(f MagneticField, a, b vec.Vector3, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = f.Field(a).Mag()
		return out
	}
	d := b.Sub(a).Scale(1 / float64(n-1))
	for i := range out {
		out[i] = f.Field(a.Add(d.Scale(float64(i)))).Mag()
	}
	return out
}
