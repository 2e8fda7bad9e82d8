package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/experiment"
	"github.com/san-kum/partprop/internal/units"
	"github.com/san-kum/partprop/internal/vec"
)

const (
	DefaultCandidates      = 100
	DefaultEnergyEeV       = 100.0
	DefaultStepMpc         = 1.0
	DefaultMaxTrajectory   = 100.0
	DefaultMinEnergyEeV    = 1.0
	DefaultFieldSamples    = 32
	DefaultFieldSpacing    = 0.25
	DefaultFieldStrengthNG = 1.0
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name        string            `yaml:"name"`
	Seed        int64             `yaml:"seed"`
	Workers     int               `yaml:"workers"`
	Candidates  int               `yaml:"candidates"`
	MaxSteps    int               `yaml:"max_steps"`
	Source      SourceConfig      `yaml:"source"`
	Propagation PropagationConfig `yaml:"propagation"`
	Conditions  ConditionConfig   `yaml:"conditions"`
	Field       FieldConfig       `yaml:"field"`
}

type SourceConfig struct {
	Particle    string     `yaml:"particle"`
	ID          int        `yaml:"id"`
	EnergyEeV   float64    `yaml:"energy_eev"`
	PositionMpc [3]float64 `yaml:"position_mpc"`
	Direction   [3]float64 `yaml:"direction"`
	Isotropic   bool       `yaml:"isotropic"`
	Redshift    float64    `yaml:"redshift"`
}

type PropagationConfig struct {
	StepMpc  float64 `yaml:"step_mpc"`
	Redshift bool    `yaml:"redshift"`
}

type ConditionConfig struct {
	MaxTrajectoryMpc float64 `yaml:"max_trajectory_mpc"`
	MinEnergyEeV     float64 `yaml:"min_energy_eev"`
	MinRedshift      float64 `yaml:"min_redshift"`
}

type FieldConfig struct {
	Kind       string     `yaml:"kind"`
	OriginMpc  [3]float64 `yaml:"origin_mpc"`
	Samples    int        `yaml:"samples"`
	SpacingMpc float64    `yaml:"spacing_mpc"`
	StrengthNG float64    `yaml:"strength_ng"`
	Direction  [3]float64 `yaml:"direction"`
	Seed       int64      `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "run",
		Seed:       1,
		Candidates: DefaultCandidates,
		Source: SourceConfig{
			Particle:  "proton",
			EnergyEeV: DefaultEnergyEeV,
			Direction: [3]float64{1, 0, 0},
		},
		Propagation: PropagationConfig{StepMpc: DefaultStepMpc},
		Conditions: ConditionConfig{
			MaxTrajectoryMpc: DefaultMaxTrajectory,
			MinEnergyEeV:     DefaultMinEnergyEeV,
		},
		Field: FieldConfig{
			Kind:       "none",
			Samples:    DefaultFieldSamples,
			SpacingMpc: DefaultFieldSpacing,
			StrengthNG: DefaultFieldStrengthNG,
			Direction:  [3]float64{0, 0, 1},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var particles = map[string]int{
	"proton":   candidate.Proton,
	"neutron":  candidate.Neutron,
	"helium":   candidate.NucleusID(4, 2),
	"nitrogen": candidate.NucleusID(14, 7),
	"silicon":  candidate.NucleusID(28, 14),
	"iron":     candidate.NucleusID(56, 26),
	"electron": candidate.Electron,
	"positron": candidate.Positron,
	"photon":   candidate.Photon,
}

// ParticleID resolves the source species. An explicit id wins over the
// particle name.
func (s SourceConfig) ParticleID() (int, error) {
	if s.ID != 0 {
		return s.ID, nil
	}
	id, ok := particles[strings.ToLower(s.Particle)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown particle %q", ErrInvalidConfig, s.Particle)
	}
	return id, nil
}

// Validate rejects configurations that cannot produce a terminating run.
func (c *Config) Validate() error {
	if c.Candidates <= 0 {
		return fmt.Errorf("%w: candidates must be positive, got %d", ErrInvalidConfig, c.Candidates)
	}
	if c.Propagation.StepMpc <= 0 {
		return fmt.Errorf("%w: step_mpc must be positive, got %g", ErrInvalidConfig, c.Propagation.StepMpc)
	}
	if c.Conditions.MaxTrajectoryMpc <= 0 && c.MaxSteps <= 0 {
		return fmt.Errorf("%w: need max_trajectory_mpc or max_steps to bound the run", ErrInvalidConfig)
	}
	if _, err := c.Source.ParticleID(); err != nil {
		return err
	}
	switch c.Field.Kind {
	case "", "none", "uniform":
	case "random":
		if c.Field.Samples <= 0 || c.Field.SpacingMpc <= 0 {
			return fmt.Errorf("%w: random field needs positive samples and spacing_mpc", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown field kind %q", ErrInvalidConfig, c.Field.Kind)
	}
	return nil
}

func toVec(a [3]float64) vec.Vector3 { return vec.New(a[0], a[1], a[2]) }

// ToExperiment converts the file units (Mpc, EeV, nG) to SI.
func (c *Config) ToExperiment() (experiment.Config, error) {
	if err := c.Validate(); err != nil {
		return experiment.Config{}, err
	}
	id, _ := c.Source.ParticleID()

	fieldSeed := c.Field.Seed
	if fieldSeed == 0 {
		fieldSeed = c.Seed
	}
	kind := c.Field.Kind
	if kind == "" {
		kind = "none"
	}

	return experiment.Config{
		Name:     c.Name,
		Seed:     c.Seed,
		Workers:  c.Workers,
		Count:    c.Candidates,
		MaxSteps: c.MaxSteps,
		Source: experiment.Source{
			ID:        id,
			Energy:    c.Source.EnergyEeV * units.EeV,
			Position:  toVec(c.Source.PositionMpc).Scale(units.Mpc),
			Direction: toVec(c.Source.Direction),
			Isotropic: c.Source.Isotropic,
			Redshift:  c.Source.Redshift,
		},
		Step:          c.Propagation.StepMpc * units.Mpc,
		Redshift:      c.Propagation.Redshift,
		MaxTrajectory: c.Conditions.MaxTrajectoryMpc * units.Mpc,
		MinEnergy:     c.Conditions.MinEnergyEeV * units.EeV,
		MinRedshift:   c.Conditions.MinRedshift,
		Field: experiment.FieldConfig{
			Kind:      kind,
			Origin:    toVec(c.Field.OriginMpc).Scale(units.Mpc),
			Samples:   c.Field.Samples,
			Spacing:   c.Field.SpacingMpc * units.Mpc,
			Strength:  c.Field.StrengthNG * units.NanoGauss,
			Direction: toVec(c.Field.Direction),
			Seed:      fieldSeed,
		},
	}, nil
}
