package field

import (
	"math/rand"

	"github.com/san-kum/partprop/internal/vec"
)

// NewRandomGrid returns a grid of independent gaussian samples with zero mean,
// rescaled so the root mean square magnitude equals rms. The same seed always
// yields the same grid.
func NewRandomGrid(origin vec.Vector3, samples int, spacing, rms float64, seed int64) (*Grid, error) {
	if err := validate(origin, samples, spacing); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	n := samples * samples * samples
	data := make([]vec.Vector3, n)
	var mean vec.Vector3
	for i := range data {
		data[i] = vec.New(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64())
		mean = mean.Add(data[i])
	}
	mean = mean.Div(float64(n))

	g := &Grid{origin: origin, spacing: spacing, samples: samples, data: data}
	for i := range g.data {
		g.data[i] = g.data[i].Sub(mean)
	}
	if cur := g.RMS(); cur > 0 {
		scale := rms / cur
		for i := range g.data {
			g.data[i] = g.data[i].Scale(scale)
		}
	}
	return g, nil
}
