package config

import "sort"

var Presets = map[string]map[string]*Config{
	"proton": {
		"straight": {
			Name:        "proton-straight",
			Seed:        1,
			Candidates:  100,
			Source:      SourceConfig{Particle: "proton", EnergyEeV: 100, Direction: [3]float64{1, 0, 0}},
			Propagation: PropagationConfig{StepMpc: 1},
			Conditions:  ConditionConfig{MaxTrajectoryMpc: 100, MinEnergyEeV: 1},
			Field:       FieldConfig{Kind: "none"},
		},
		"uniform": {
			Name:        "proton-uniform",
			Seed:        1,
			Candidates:  500,
			Source:      SourceConfig{Particle: "proton", EnergyEeV: 50, Isotropic: true},
			Propagation: PropagationConfig{StepMpc: 0.5},
			Conditions:  ConditionConfig{MaxTrajectoryMpc: 20, MinEnergyEeV: 1},
			Field:       FieldConfig{Kind: "uniform", StrengthNG: 1, Direction: [3]float64{0, 0, 1}},
		},
	},
	"nucleus": {
		"iron-turbulent": {
			Name:        "iron-turbulent",
			Seed:        7,
			Candidates:  1000,
			Source:      SourceConfig{Particle: "iron", EnergyEeV: 300, Isotropic: true},
			Propagation: PropagationConfig{StepMpc: 0.1},
			Conditions:  ConditionConfig{MaxTrajectoryMpc: 10, MinEnergyEeV: 1},
			Field: FieldConfig{
				Kind:       "random",
				OriginMpc:  [3]float64{-4, -4, -4},
				Samples:    32,
				SpacingMpc: 0.25,
				StrengthNG: 1,
			},
		},
		"helium-straight": {
			Name:        "helium-straight",
			Seed:        1,
			Candidates:  100,
			Source:      SourceConfig{Particle: "helium", EnergyEeV: 20, Direction: [3]float64{0, 1, 0}},
			Propagation: PropagationConfig{StepMpc: 1},
			Conditions:  ConditionConfig{MaxTrajectoryMpc: 50},
			Field:       FieldConfig{Kind: "none"},
		},
	},
	"cosmology": {
		"redshift": {
			Name:        "cosmology-redshift",
			Seed:        1,
			Candidates:  200,
			Source:      SourceConfig{Particle: "proton", EnergyEeV: 100, Isotropic: true, Redshift: 0.5},
			Propagation: PropagationConfig{StepMpc: 10, Redshift: true},
			Conditions:  ConditionConfig{MaxTrajectoryMpc: 5000, MinEnergyEeV: 1, MinRedshift: 0.01},
			Field:       FieldConfig{Kind: "none"},
		},
		"local": {
			Name:        "cosmology-local",
			Seed:        1,
			Candidates:  200,
			Source:      SourceConfig{Particle: "proton", EnergyEeV: 10, Isotropic: true, Redshift: 0.02},
			Propagation: PropagationConfig{StepMpc: 1, Redshift: true},
			Conditions:  ConditionConfig{MaxTrajectoryMpc: 1000, MinEnergyEeV: 1},
			Field:       FieldConfig{Kind: "none"},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(group, preset string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
