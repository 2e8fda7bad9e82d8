package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/field"
	"github.com/san-kum/partprop/internal/logging"
	"github.com/san-kum/partprop/internal/module"
	"github.com/san-kum/partprop/internal/vec"
)

var ErrNotSetup = errors.New("experiment: not set up")

// Source describes where candidates start. Quantities are SI.
type Source struct {
	ID        int
	Energy    float64
	Position  vec.Vector3
	Direction vec.Vector3
	Isotropic bool
	Redshift  float64
}

type FieldConfig struct {
	Kind      string
	Origin    vec.Vector3
	Samples   int
	Spacing   float64
	Strength  float64
	Direction vec.Vector3
	Seed      int64
}

// Config holds a run in SI units. Non-positive thresholds disable the
// matching condition.
type Config struct {
	Name          string
	Seed          int64
	Workers       int
	Count         int
	MaxSteps      int
	Source        Source
	Step          float64
	Redshift      bool
	MaxTrajectory float64
	MinEnergy     float64
	MinRedshift   float64
	Field         FieldConfig
}

type Experiment struct {
	cfg        Config
	registry   *Registry
	modules    *module.List
	field      field.MagneticField
	randSource *rand.Rand
	log        *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Experiment {
	return &Experiment{
		cfg:        cfg,
		registry:   NewRegistry(),
		randSource: rand.New(rand.NewSource(cfg.Seed)),
		log:        logging.OrDiscard(logger),
	}
}

func (e *Experiment) Config() Config { return e.cfg }

// Registry exposes the field builders so callers can add their own kinds
// before Setup.
func (e *Experiment) Registry() *Registry { return e.registry }

// Setup builds the field and the module chain: conditions first, then
// propagation, then redshift.
func (e *Experiment) Setup() error {
	if e.cfg.Count <= 0 {
		return fmt.Errorf("experiment: candidate count must be positive, got %d", e.cfg.Count)
	}
	if e.cfg.Step <= 0 {
		return fmt.Errorf("experiment: step must be positive, got %g", e.cfg.Step)
	}
	if !e.cfg.Source.Isotropic && e.cfg.Source.Direction.MagSq() == 0 {
		return fmt.Errorf("experiment: fixed source needs a direction")
	}

	f, err := e.registry.CreateField(e.cfg.Field)
	if err != nil {
		return fmt.Errorf("experiment: field: %w", err)
	}
	e.field = f

	l := module.NewList()
	if e.cfg.MaxTrajectory > 0 {
		l.Add(module.NewMaximumTrajectoryLength(e.cfg.MaxTrajectory))
	}
	if e.cfg.MinEnergy > 0 {
		l.Add(module.NewMinimumEnergy(e.cfg.MinEnergy))
	}
	if e.cfg.MinRedshift > 0 {
		l.Add(module.NewMinimumRedshift(e.cfg.MinRedshift))
	}
	l.Add(module.NewSimplePropagation(e.cfg.Step))
	if e.cfg.Redshift {
		l.Add(module.NewRedshift())
	}
	l.SetMaxSteps(e.cfg.MaxSteps)
	e.modules = l

	for _, m := range l.Modules() {
		e.log.Debug("module configured", "module", m.Description())
	}
	return nil
}

// Modules returns the module chain for adding observers. It is nil before
// Setup.
func (e *Experiment) Modules() *module.List { return e.modules }

// Field returns the configured field, or nil when the run has none.
func (e *Experiment) Field() field.MagneticField { return e.field }

// Run creates the candidates and drives them to completion. When some
// candidates fail the partial result is returned along with the joined error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.modules == nil {
		return nil, ErrNotSetup
	}

	cs := e.newCandidates()
	e.log.Info("run started",
		"name", e.cfg.Name,
		"candidates", len(cs),
		"workers", e.cfg.Workers,
		"seed", e.cfg.Seed,
		"field", e.cfg.Field.Kind)

	start := time.Now()
	summary, runErr := e.modules.RunAll(ctx, cs, e.cfg.Workers)
	elapsed := time.Since(start)

	res := &Result{
		Records: make([]Record, len(cs)),
		Summary: summary,
		Elapsed: elapsed,
	}
	for _, m := range e.modules.Modules() {
		res.Modules = append(res.Modules, m.Description())
	}
	for i, c := range cs {
		res.Records[i] = NewRecord(i, c, e.field)
	}
	if e.log.Enabled(ctx, logging.LevelTrace) {
		for _, r := range res.Records {
			e.log.Log(ctx, logging.LevelTrace, "candidate finished",
				"index", r.Index,
				"status", r.Status.String(),
				"trajectory", r.TrajectoryLength,
				"energy", r.FinalEnergy)
		}
	}

	if runErr != nil {
		e.log.Warn("run incomplete", "error", runErr, "summary", summary.String())
		return res, fmt.Errorf("experiment: %w", runErr)
	}
	e.log.Info("run finished", "summary", summary.String(), "elapsed", elapsed)
	return res, nil
}

func (e *Experiment) newCandidates() []*candidate.Candidate {
	src := e.cfg.Source
	cs := make([]*candidate.Candidate, e.cfg.Count)
	for i := range cs {
		dir := src.Direction
		if src.Isotropic {
			dir = RandomDirection(e.randSource)
		}
		s := candidate.NewParticleState(src.ID, src.Energy, src.Position, dir)
		s.Redshift = src.Redshift
		cs[i] = candidate.New(s)
	}
	return cs
}

// RandomDirection draws a unit vector uniformly distributed on the sphere.
func RandomDirection(rng *rand.Rand) vec.Vector3 {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	return vec.New(r*math.Cos(phi), r*math.Sin(phi), z)
}
