package experiment

import (
	"time"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/field"
	"github.com/san-kum/partprop/internal/module"
	"github.com/san-kum/partprop/internal/vec"
)

// Record is the final state of one candidate. Field is |B| at the final
// position, zero when the run has no field.
type Record struct {
	Index            int              `json:"index"`
	ParticleID       int              `json:"particle_id"`
	Status           candidate.Status `json:"status"`
	Steps            int              `json:"steps"`
	TrajectoryLength float64          `json:"trajectory"`
	InitialEnergy    float64          `json:"energy_initial"`
	FinalEnergy      float64          `json:"energy_final"`
	FinalRedshift    float64          `json:"redshift_final"`
	Position         vec.Vector3      `json:"position"`
	Field            float64          `json:"field"`
	DeactivatedBy    string           `json:"deactivated_by,omitempty"`
}

func NewRecord(index int, c *candidate.Candidate, f field.MagneticField) Record {
	r := Record{
		Index:            index,
		ParticleID:       c.Next.ID,
		Status:           c.Status(),
		Steps:            c.Steps(),
		TrajectoryLength: c.TrajectoryLength(),
		InitialEnergy:    c.Initial().Energy,
		FinalEnergy:      c.Next.Energy,
		FinalRedshift:    c.Next.Redshift,
		Position:         c.Next.Position,
	}
	if f != nil {
		r.Field = f.Field(c.Next.Position).Mag()
	}
	r.DeactivatedBy, _ = c.Property(module.DeactivatedFlag)
	return r
}

type Result struct {
	Records []Record
	Summary module.Summary
	Modules []string
	Elapsed time.Duration
}

// SummarizeRecords counts the final statuses of records.
func SummarizeRecords(records []Record) module.Summary {
	s := make(module.Summary)
	for _, r := range records {
		s[r.Status]++
	}
	return s
}
