package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/partprop/internal/field"
)

// FieldBuilder constructs a field from its configuration. A nil field with a
// nil error means the run has no field.
type FieldBuilder func(cfg FieldConfig) (field.MagneticField, error)

type Registry struct {
	fields map[string]FieldBuilder
}

func NewRegistry() *Registry {
	r := &Registry{
		fields: make(map[string]FieldBuilder),
	}

	r.fields["none"] = func(FieldConfig) (field.MagneticField, error) { return nil, nil }
	r.fields["uniform"] = func(cfg FieldConfig) (field.MagneticField, error) {
		dir := cfg.Direction.Unit()
		if dir.MagSq() == 0 {
			return nil, fmt.Errorf("uniform field needs a direction")
		}
		return field.NewUniform(dir.Scale(cfg.Strength)), nil
	}
	r.fields["random"] = func(cfg FieldConfig) (field.MagneticField, error) {
		g, err := field.NewRandomGrid(cfg.Origin, cfg.Samples, cfg.Spacing, cfg.Strength, cfg.Seed)
		if err != nil {
			return nil, err
		}
		return g, nil
	}

	return r
}

func (r *Registry) Register(kind string, b FieldBuilder) {
	r.fields[kind] = b
}

func (r *Registry) CreateField(cfg FieldConfig) (field.MagneticField, error) {
	fn, ok := r.fields[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", cfg.Kind)
	}
	return fn(cfg)
}

func (r *Registry) ListFields() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
