package module

import (
	"fmt"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/units"
)

// MaximumTrajectoryLength deactivates a candidate once it has travelled the
// maximum length and limits its next step so the limit is never exceeded.
type MaximumTrajectoryLength struct {
	AbstractCondition
	maxLength float64
}

func NewMaximumTrajectoryLength(length float64) *MaximumTrajectoryLength {
	return &MaximumTrajectoryLength{AbstractCondition: newAbstractCondition(), maxLength: length}
}

func (m *MaximumTrajectoryLength) SetMaximumTrajectoryLength(length float64) { m.maxLength = length }

func (m *MaximumTrajectoryLength) MaximumTrajectoryLength() float64 { return m.maxLength }

func (m *MaximumTrajectoryLength) Description() string {
	return fmt.Sprintf("Maximum trajectory length: %s", units.FormatLength(m.maxLength))
}

func (m *MaximumTrajectoryLength) Process(c *candidate.Candidate) {
	if !c.IsActive() {
		return
	}
	length := c.TrajectoryLength()
	if length >= m.maxLength {
		m.Reject(c, candidate.ReachedMaxTime, m.Description())
		return
	}
	c.LimitNextStep(m.maxLength - length)
}

// MinimumEnergy deactivates a candidate whose energy drops below a minimum.
type MinimumEnergy struct {
	AbstractCondition
	minEnergy float64
}

func NewMinimumEnergy(energy float64) *MinimumEnergy {
	return &MinimumEnergy{AbstractCondition: newAbstractCondition(), minEnergy: energy}
}

func (m *MinimumEnergy) SetMinimumEnergy(energy float64) { m.minEnergy = energy }

func (m *MinimumEnergy) MinimumEnergy() float64 { return m.minEnergy }

func (m *MinimumEnergy) Description() string {
	return fmt.Sprintf("Minimum energy: %s", units.FormatEnergy(m.minEnergy))
}

func (m *MinimumEnergy) Process(c *candidate.Candidate) {
	if c.IsActive() && c.Next.Energy < m.minEnergy {
		m.Reject(c, candidate.BelowEnergyThreshold, m.Description())
	}
}

// MinimumRedshift deactivates a candidate whose redshift drops below a
// minimum.
type MinimumRedshift struct {
	AbstractCondition
	zmin float64
}

func NewMinimumRedshift(zmin float64) *MinimumRedshift {
	return &MinimumRedshift{AbstractCondition: newAbstractCondition(), zmin: zmin}
}

func (m *MinimumRedshift) SetMinimumRedshift(z float64) { m.zmin = z }

func (m *MinimumRedshift) MinimumRedshift() float64 { return m.zmin }

func (m *MinimumRedshift) Description() string {
	return fmt.Sprintf("Minimum redshift: %g", m.zmin)
}

func (m *MinimumRedshift) Process(c *candidate.Candidate) {
	if c.IsActive() && c.Next.Redshift < m.zmin {
		m.Reject(c, candidate.ReachedMaxTime, m.Description())
	}
}
