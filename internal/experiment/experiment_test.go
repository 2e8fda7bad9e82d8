package experiment

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/field"
	"github.com/san-kum/partprop/internal/module"
	"github.com/san-kum/partprop/internal/units"
	"github.com/san-kum/partprop/internal/vec"
)

func baseConfig() Config {
	return Config{
		Name:    "test",
		Seed:    42,
		Workers: 4,
		Count:   20,
		Source: Source{
			ID:        candidate.Proton,
			Energy:    10 * units.EeV,
			Direction: vec.New(1, 0, 0),
		},
		Step:          3 * units.Mpc,
		MaxTrajectory: 10 * units.Mpc,
		Field:         FieldConfig{Kind: "none"},
	}
}

func run(t *testing.T, cfg Config) *Result {
	t.Helper()
	exp := New(cfg, nil)
	if err := exp.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestRun_FixedSource(t *testing.T) {
	cfg := baseConfig()
	res := run(t, cfg)

	if len(res.Records) != cfg.Count {
		t.Fatalf("got %d records, want %d", len(res.Records), cfg.Count)
	}
	if res.Summary[candidate.ReachedMaxTime] != cfg.Count {
		t.Errorf("Summary = %v, want all reached_max_time", res.Summary)
	}
	for _, r := range res.Records {
		if r.TrajectoryLength != cfg.MaxTrajectory {
			t.Errorf("record %d: TrajectoryLength = %g, want %g", r.Index, r.TrajectoryLength, cfg.MaxTrajectory)
		}
		if !r.Position.ApproxEqual(vec.New(cfg.MaxTrajectory, 0, 0), 1e-6*units.Mpc) {
			t.Errorf("record %d: Position = %v", r.Index, r.Position)
		}
		if !strings.HasPrefix(r.DeactivatedBy, "Maximum trajectory length") {
			t.Errorf("record %d: DeactivatedBy = %q", r.Index, r.DeactivatedBy)
		}
		if r.FinalEnergy != r.InitialEnergy {
			t.Errorf("record %d: energy changed without losses", r.Index)
		}
	}
	if len(res.Modules) != 2 {
		t.Errorf("Modules = %v, want condition and propagation", res.Modules)
	}
}

func TestRun_IsotropicDeterministic(t *testing.T) {
	cfg := baseConfig()
	cfg.Source.Isotropic = true

	a := run(t, cfg)
	b := run(t, cfg)
	for i := range a.Records {
		if a.Records[i].Position != b.Records[i].Position {
			t.Fatalf("record %d differs between runs with the same seed", i)
		}
	}

	cfg.Seed++
	c := run(t, cfg)
	if c.Records[0].Position == a.Records[0].Position {
		t.Error("different seeds produced the same direction")
	}

	for _, r := range a.Records {
		if d := math.Abs(r.Position.Mag() - cfg.MaxTrajectory); d > 1e-9*cfg.MaxTrajectory {
			t.Errorf("record %d: distance from source = %g, want %g", r.Index, r.Position.Mag(), cfg.MaxTrajectory)
		}
	}
}

func TestRun_BelowEnergyThreshold(t *testing.T) {
	cfg := baseConfig()
	cfg.MinEnergy = 20 * units.EeV
	res := run(t, cfg)

	for _, r := range res.Records {
		if r.Status != candidate.BelowEnergyThreshold {
			t.Errorf("record %d: Status = %v", r.Index, r.Status)
		}
		if r.TrajectoryLength != 0 {
			t.Errorf("record %d: moved %g after rejection", r.Index, r.TrajectoryLength)
		}
	}
}

func TestRun_UniformField(t *testing.T) {
	cfg := baseConfig()
	cfg.Field = FieldConfig{Kind: "uniform", Strength: units.NanoGauss, Direction: vec.New(0, 0, 2)}
	res := run(t, cfg)

	for _, r := range res.Records {
		if math.Abs(r.Field-units.NanoGauss) > 1e-12*units.NanoGauss {
			t.Errorf("record %d: Field = %g, want %g", r.Index, r.Field, units.NanoGauss)
		}
	}
}

func TestRun_RandomField(t *testing.T) {
	cfg := baseConfig()
	cfg.Field = FieldConfig{Kind: "random", Samples: 8, Spacing: units.Mpc, Strength: units.NanoGauss, Seed: 3}
	res := run(t, cfg)

	for _, r := range res.Records {
		if r.Field <= 0 || math.IsNaN(r.Field) {
			t.Errorf("record %d: Field = %g", r.Index, r.Field)
		}
	}
}

func TestRun_Redshift(t *testing.T) {
	cfg := baseConfig()
	cfg.Source.Redshift = 0.1
	cfg.Redshift = true
	cfg.MaxTrajectory = 100 * units.Mpc
	cfg.Step = 10 * units.Mpc
	res := run(t, cfg)

	for _, r := range res.Records {
		if r.FinalRedshift >= 0.1 {
			t.Errorf("record %d: redshift did not decrease", r.Index)
		}
		if r.FinalEnergy >= r.InitialEnergy {
			t.Errorf("record %d: no adiabatic loss", r.Index)
		}
	}
}

func TestRun_StepLimit(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxTrajectory = 0
	cfg.MaxSteps = 3

	exp := New(cfg, nil)
	if err := exp.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	res, err := exp.Run(context.Background())
	if !errors.Is(err, module.ErrStepLimit) {
		t.Fatalf("Run() error = %v, want ErrStepLimit", err)
	}
	if res == nil || res.Summary[candidate.Active] != cfg.Count {
		t.Errorf("expected partial result with active candidates, got %+v", res)
	}
}

func TestRun_Observer(t *testing.T) {
	exp := New(baseConfig(), nil)
	if err := exp.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	n := 0
	exp.Modules().AddObserver(module.ObserverFunc(func(*candidate.Candidate) { n++ }))

	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != baseConfig().Count {
		t.Errorf("observer saw %d candidates, want %d", n, baseConfig().Count)
	}
}

func TestRun_NotSetup(t *testing.T) {
	if _, err := New(baseConfig(), nil).Run(context.Background()); !errors.Is(err, ErrNotSetup) {
		t.Errorf("Run() error = %v, want ErrNotSetup", err)
	}
}

func TestSetup_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero count", func(c *Config) { c.Count = 0 }},
		{"zero step", func(c *Config) { c.Step = 0 }},
		{"no direction", func(c *Config) { c.Source.Direction = vec.Vector3{} }},
		{"unknown field", func(c *Config) { c.Field.Kind = "dipole" }},
		{"bad grid", func(c *Config) { c.Field = FieldConfig{Kind: "random", Samples: 0, Spacing: 1} }},
		{"uniform without direction", func(c *Config) { c.Field = FieldConfig{Kind: "uniform", Strength: 1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			if err := New(cfg, nil).Setup(); err == nil {
				t.Error("Setup() = nil, want error")
			}
		})
	}
}

func TestRandomDirection(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var mean vec.Vector3
	const n = 10000
	for i := 0; i < n; i++ {
		d := RandomDirection(rng)
		if math.Abs(d.Mag()-1) > 1e-12 {
			t.Fatalf("direction %v is not a unit vector", d)
		}
		mean = mean.Add(d)
	}
	if m := mean.Div(n).Mag(); m > 0.05 {
		t.Errorf("mean direction magnitude = %g, want near zero", m)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	want := []string{"none", "random", "uniform"}
	got := r.ListFields()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ListFields() = %v, want %v", got, want)
	}

	f, err := r.CreateField(FieldConfig{Kind: "none"})
	if err != nil || f != nil {
		t.Errorf("CreateField(none) = %v, %v", f, err)
	}
	if _, err := r.CreateField(FieldConfig{Kind: "missing"}); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestRegistry_Register(t *testing.T) {
	cfg := baseConfig()
	cfg.Field = FieldConfig{Kind: "constant", Strength: units.NanoGauss}

	e := New(cfg, nil)
	e.Registry().Register("constant", func(fc FieldConfig) (field.MagneticField, error) {
		return field.NewUniform(vec.New(0, 0, fc.Strength)), nil
	})
	if err := e.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if e.Field() == nil {
		t.Fatal("Field() = nil after registering a custom kind")
	}
	if got := e.Field().Field(vec.Vector3{}).Z; got != units.NanoGauss {
		t.Errorf("Field().Z = %g, want %g", got, units.NanoGauss)
	}
}
