package candidate

import (
	"fmt"
	"math"

	"github.com/san-kum/partprop/internal/units"
	"github.com/san-kum/partprop/internal/vec"
)

// Particle ids follow the PDG numbering; nuclei use 100ZZZAAAI.
const (
	Electron = 11
	Positron = -11
	Photon   = 22
	Proton   = 1000010010
	Neutron  = 1000000010
)

// NucleusID returns the id of the nucleus with mass number a and charge
// number z.
func NucleusID(a, z int) int {
	return 1000000000 + z*10000 + a*10
}

// ParticleState is a point-in-time snapshot of one particle. It is a value
// type; assigning it copies all attributes.
type ParticleState struct {
	ID       int
	Position vec.Vector3
	Energy   float64
	Redshift float64

	direction vec.Vector3
}

// NewParticleState returns a state with the given species, energy, position
// and direction. The direction is normalised.
func NewParticleState(id int, energy float64, pos, dir vec.Vector3) ParticleState {
	p := ParticleState{ID: id, Energy: energy, Position: pos}
	p.SetDirection(dir)
	return p
}

// Direction returns the unit direction of motion.
func (p ParticleState) Direction() vec.Vector3 { return p.direction }

// SetDirection stores dir normalised. A zero vector stays zero.
func (p *ParticleState) SetDirection(dir vec.Vector3) { p.direction = dir.Unit() }

// IsNucleus reports whether the id uses the nucleus numbering scheme.
func (p ParticleState) IsNucleus() bool {
	return p.ID >= 1000000000
}

// MassNumber returns A for nuclei and 0 otherwise.
func (p ParticleState) MassNumber() int {
	if !p.IsNucleus() {
		return 0
	}
	return (p.ID / 10) % 1000
}

// ChargeNumber returns Z in units of the elementary charge.
func (p ParticleState) ChargeNumber() int {
	if p.IsNucleus() {
		return (p.ID / 10000) % 1000
	}
	switch p.ID {
	case Electron:
		return -1
	case Positron:
		return 1
	}
	return 0
}

// Charge returns the electric charge in Coulomb.
func (p ParticleState) Charge() float64 {
	return float64(p.ChargeNumber()) * units.ElementaryCharge
}

// Momentum returns the ultra-relativistic momentum vector E/c along the
// direction of motion.
func (p ParticleState) Momentum() vec.Vector3 {
	return p.direction.Scale(p.Energy / units.SpeedOfLight)
}

// Rigidity returns E/(Ze) in volt. Neutral particles have infinite rigidity.
func (p ParticleState) Rigidity() float64 {
	z := p.ChargeNumber()
	if z == 0 {
		return math.Inf(1)
	}
	return p.Energy / (math.Abs(float64(z)) * units.ElementaryCharge)
}

func (p ParticleState) String() string {
	return fmt.Sprintf("id=%d E=%s pos=%v dir=%v z=%g",
		p.ID, units.FormatEnergy(p.Energy), p.Position.Div(units.Mpc), p.direction, p.Redshift)
}
