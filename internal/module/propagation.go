package module

import (
	"fmt"
	"math"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/units"
)

// SimplePropagation moves a candidate in a straight line. It is the only
// module that raises the next step: after moving it proposes MaxStep, and
// modules later in the chain may only lower that proposal.
type SimplePropagation struct {
	maxStep float64
}

func NewSimplePropagation(maxStep float64) *SimplePropagation {
	return &SimplePropagation{maxStep: maxStep}
}

func (p *SimplePropagation) MaximumStep() float64 { return p.maxStep }

func (p *SimplePropagation) Description() string {
	return fmt.Sprintf("Simple propagation: maximum step %s", units.FormatLength(p.maxStep))
}

func (p *SimplePropagation) Process(c *candidate.Candidate) {
	if !c.IsActive() {
		return
	}
	step := c.NextStep()
	if step <= 0 || step > p.maxStep {
		step = p.maxStep
	}

	c.Next.Position = c.Next.Position.Add(c.Next.Direction().Scale(step))
	c.SetLastStep(step)
	c.SetTrajectoryLength(c.TrajectoryLength() + step)
	c.SetNextStep(p.maxStep)
}

// Redshift lowers the redshift of a candidate over the last step in a flat
// LambdaCDM universe and applies the matching adiabatic energy loss. It must
// run after the propagation module.
type Redshift struct {
	h0, omegaM, omegaL float64
}

func NewRedshift() *Redshift {
	return &Redshift{h0: units.H0, omegaM: units.OmegaM, omegaL: units.OmegaL}
}

// HubbleRate returns H(z).
func (r *Redshift) HubbleRate(z float64) float64 {
	zp := 1 + z
	return r.h0 * math.Sqrt(r.omegaM*zp*zp*zp+r.omegaL)
}

func (r *Redshift) Description() string {
	return fmt.Sprintf("Redshift: H0 = %g km/s/Mpc, OmegaM = %g, OmegaL = %g",
		r.h0/(units.Kilometer/units.Second/units.Mpc), r.omegaM, r.omegaL)
}

func (r *Redshift) Process(c *candidate.Candidate) {
	z := c.Next.Redshift
	if !c.IsActive() || z <= 0 {
		return
	}
	dz := (1 + z) * r.HubbleRate(z) / units.SpeedOfLight * c.LastStep()
	next := math.Max(z-dz, 0)

	c.Next.Energy *= (1 + next) / (1 + z)
	c.Next.Redshift = next
}
