// Package units holds the SI unit constants used for particle energies,
// distances and field strengths.
package units

import "fmt"

// Lengths.
const (
	Meter = 1.0
	Kpc   = 3.0856775807e19 * Meter
	Mpc   = 1e3 * Kpc
	Gpc   = 1e6 * Kpc
)

// Energies.
const (
	Joule = 1.0
	EV    = 1.602176487e-19 * Joule
	GeV   = 1e9 * EV
	EeV   = 1e18 * EV
)

// Magnetic field strengths.
const (
	Tesla      = 1.0
	Gauss      = 1e-4 * Tesla
	MicroGauss = 1e-6 * Gauss
	NanoGauss  = 1e-9 * Gauss
)

// Physical constants.
const (
	SpeedOfLight     = 299792458 * Meter
	ElementaryCharge = 1.602176487e-19
	Second           = 1.0
	Kilometer        = 1e3 * Meter
)

// Cosmology (flat LambdaCDM).
const (
	H0     = 67.3 * Kilometer / Second / Mpc
	OmegaM = 0.315
	OmegaL = 1 - OmegaM
)

// HubbleDistance is c/H0.
const HubbleDistance = SpeedOfLight / H0

// FormatLength renders a length in Mpc.
func FormatLength(l float64) string {
	return fmt.Sprintf("%g Mpc", l/Mpc)
}

// FormatEnergy renders an energy in EeV.
func FormatEnergy(e float64) string {
	return fmt.Sprintf("%g EeV", e/EeV)
}

// FormatField renders a field strength in nG.
func FormatField(b float64) string {
	return fmt.Sprintf("%g nG", b/NanoGauss)
}
