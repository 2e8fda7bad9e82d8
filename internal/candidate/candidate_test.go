package candidate

import (
	"math"
	"testing"

	"github.com/san-kum/partprop/internal/units"
	"github.com/san-kum/partprop/internal/vec"
)

func testState() ParticleState {
	return NewParticleState(Proton, 10*units.EeV, vec.New(1, 2, 3), vec.New(2, 0, 0))
}

func TestNew(t *testing.T) {
	s := testState()
	c := New(s)

	if c.Status() != Active {
		t.Errorf("Status() = %v, want active", c.Status())
	}
	if c.Initial() != s || c.Last() != s || c.Next != s {
		t.Error("initial, last and next should all equal the creation state")
	}
	if c.TrajectoryLength() != 0 || c.LastStep() != 0 || c.NextStep() != 0 || c.Steps() != 0 {
		t.Error("new candidate should start with zero length and steps")
	}
	if c.Parent() != nil {
		t.Error("primary candidate should have no parent")
	}
}

func TestSetStatus_Terminal(t *testing.T) {
	c := New(testState())

	if !c.SetStatus(BelowEnergyThreshold) {
		t.Fatal("first transition should succeed")
	}
	if c.SetStatus(Detected) {
		t.Error("terminal candidate accepted a second transition")
	}
	if c.SetStatus(Active) {
		t.Error("terminal candidate was reactivated")
	}
	if c.Status() != BelowEnergyThreshold {
		t.Errorf("Status() = %v, want below_energy_threshold", c.Status())
	}
}

func TestSetStatus_ActiveIsNotATransition(t *testing.T) {
	c := New(testState())
	if c.SetStatus(Active) {
		t.Error("setting active on an active candidate should report no change")
	}
}

func TestLimitNextStep(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		limit float64
		want  float64
	}{
		{"shrinks", 10, 4, 4},
		{"never grows", 4, 10, 4},
		{"equal", 5, 5, 5},
		{"negative limit", 5, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(testState())
			c.SetNextStep(tt.start)
			c.LimitNextStep(tt.limit)
			if got := c.NextStep(); got != tt.want {
				t.Errorf("NextStep() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetTrajectoryLength_Monotone(t *testing.T) {
	c := New(testState())
	c.SetTrajectoryLength(5)
	c.SetTrajectoryLength(3)
	if got := c.TrajectoryLength(); got != 5 {
		t.Errorf("TrajectoryLength() = %v, want 5", got)
	}
}

func TestBeginStep(t *testing.T) {
	c := New(testState())
	c.Next.Energy = 1
	c.BeginStep()

	if c.Last().Energy != 1 {
		t.Errorf("Last().Energy = %v, want 1", c.Last().Energy)
	}
	if c.Steps() != 1 {
		t.Errorf("Steps() = %d, want 1", c.Steps())
	}
	if c.Initial().Energy != 10*units.EeV {
		t.Error("initial state changed")
	}

	c.Next.Energy = 0.5
	if c.Last().Energy != 1 {
		t.Error("last state shares storage with next")
	}
}

func TestNewSecondary(t *testing.T) {
	primary := New(testState())
	primary.Next.Position = vec.New(9, 9, 9)

	sec := primary.NewSecondary(Photon, units.EeV)
	if sec.Parent() != primary {
		t.Error("secondary parent not set")
	}
	if sec.Initial().ID != Photon || sec.Initial().Energy != units.EeV {
		t.Errorf("secondary initial = %v", sec.Initial())
	}
	if sec.Initial().Position != primary.Next.Position {
		t.Error("secondary should start at the parent's next position")
	}

	tertiary := sec.NewSecondary(Electron, units.GeV)
	if got := tertiary.Generation(); got != 2 {
		t.Errorf("Generation() = %d, want 2", got)
	}
	if got := primary.Generation(); got != 0 {
		t.Errorf("primary Generation() = %d, want 0", got)
	}
}

func TestProperties(t *testing.T) {
	c := New(testState())
	if c.HasProperty("Deactivated") {
		t.Error("fresh candidate has properties")
	}

	c.SetProperty("b", "2")
	c.SetProperty("a", "1")
	if v, ok := c.Property("a"); !ok || v != "1" {
		t.Errorf("Property(a) = %q, %v", v, ok)
	}
	keys := c.PropertyKeys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("PropertyKeys() = %v, want [a b]", keys)
	}

	c.RemoveProperty("a")
	if c.HasProperty("a") {
		t.Error("RemoveProperty did not remove key")
	}
}

func TestStatus_String(t *testing.T) {
	for _, s := range Statuses() {
		parsed, ok := ParseStatus(s.String())
		if !ok || parsed != s {
			t.Errorf("ParseStatus(%q) = %v, %v", s.String(), parsed, ok)
		}
	}
	if got := Status(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestStatus_Text(t *testing.T) {
	text, _ := BelowEnergyThreshold.MarshalText()
	if string(text) != "below_energy_threshold" {
		t.Errorf("MarshalText() = %q", text)
	}

	var s Status
	if err := s.UnmarshalText([]byte("decayed")); err != nil || s != Decayed {
		t.Errorf("UnmarshalText(decayed) = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("lost")); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestParticleState_Species(t *testing.T) {
	tests := []struct {
		name   string
		id     int
		a, z   int
		charge int
	}{
		{"proton", Proton, 1, 1, 1},
		{"neutron", Neutron, 1, 0, 0},
		{"iron", NucleusID(56, 26), 56, 26, 26},
		{"electron", Electron, 0, -1, -1},
		{"photon", Photon, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParticleState{ID: tt.id}
			if got := p.MassNumber(); got != tt.a {
				t.Errorf("MassNumber() = %d, want %d", got, tt.a)
			}
			if got := p.ChargeNumber(); got != tt.charge {
				t.Errorf("ChargeNumber() = %d, want %d", got, tt.charge)
			}
		})
	}
}

func TestParticleState_Direction(t *testing.T) {
	p := testState()
	if got := p.Direction(); got != vec.New(1, 0, 0) {
		t.Errorf("Direction() = %v, want normalised (1, 0, 0)", got)
	}

	p.SetDirection(vec.Vector3{})
	if got := p.Direction(); got != (vec.Vector3{}) {
		t.Errorf("zero direction = %v, want zero", got)
	}
}

func TestParticleState_Rigidity(t *testing.T) {
	p := NewParticleState(Photon, units.EeV, vec.Vector3{}, vec.New(0, 0, 1))
	if !math.IsInf(p.Rigidity(), 1) {
		t.Errorf("neutral Rigidity() = %v, want +Inf", p.Rigidity())
	}

	iron := NewParticleState(NucleusID(56, 26), 26*units.EeV, vec.Vector3{}, vec.New(0, 0, 1))
	if got := iron.Rigidity(); math.Abs(got-1e18)/1e18 > 1e-9 {
		t.Errorf("iron Rigidity() = %g, want 1e18 V", got)
	}
}
