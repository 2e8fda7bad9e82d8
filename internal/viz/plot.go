package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
)

// Histogram bins values into n equal-width bins over [lo, hi]. Values
// outside the range and non-finite values are dropped.
func Histogram(values []float64, n int, lo, hi float64) []float64 {
	if n <= 0 {
		return nil
	}
	counts := make([]float64, n)
	width := (hi - lo) / float64(n)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
			continue
		}
		i := n - 1
		if width > 0 {
			i = min(int((v-lo)/width), n-1)
		}
		counts[i]++
	}
	return counts
}

// DecadeRange returns whole-number bounds covering the finite values, at
// least one unit apart.
func DecadeRange(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	lo, hi = math.Floor(lo), math.Ceil(hi)
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi, true
}

// EnergyHistogram plots the distribution of log10(E/unit).
func EnergyHistogram(energies []float64, unit float64, unitName string, bins, width, height int) string {
	if bins <= 0 {
		return Subtle.Render("no bins")
	}
	logs := make([]float64, 0, len(energies))
	for _, e := range energies {
		if e > 0 {
			logs = append(logs, math.Log10(e/unit))
		}
	}
	lo, hi, ok := DecadeRange(logs)
	if !ok {
		return Subtle.Render("no positive energies")
	}

	counts := Histogram(logs, bins, lo, hi)
	return asciigraph.Plot(counts,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("final energy, log10(E/%s) from %g to %g", unitName, lo, hi)),
	)
}

// FieldProfile plots |B| samples along a line.
func FieldProfile(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return Subtle.Render("no samples")
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
