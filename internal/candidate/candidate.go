package candidate

import (
	"fmt"
	"sort"
)

// Status is the propagation status of a candidate.
type Status int

const (
	Active Status = iota
	Detected
	ReachedMaxTime
	BelowEnergyThreshold
	Decayed
	ObserverNotReachable
	UserDefined
)

var statusNames = [...]string{
	Active:               "active",
	Detected:             "detected",
	ReachedMaxTime:       "reached_max_time",
	BelowEnergyThreshold: "below_energy_threshold",
	Decayed:              "decayed",
	ObserverNotReachable: "observer_not_reachable",
	UserDefined:          "user_defined",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// IsTerminal reports whether s ends propagation.
func (s Status) IsTerminal() bool { return s != Active }

// Statuses lists every status in declaration order.
func Statuses() []Status {
	out := make([]Status, len(statusNames))
	for i := range out {
		out[i] = Status(i)
	}
	return out
}

// ParseStatus returns the status named name.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return Active, false
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	st, ok := ParseStatus(string(text))
	if !ok {
		return fmt.Errorf("candidate: unknown status %q", text)
	}
	*s = st
	return nil
}

// Candidate is one simulated particle tracked through its propagation
// history.
type Candidate struct {
	// Next is the state being computed by the current step's module chain.
	Next ParticleState

	last    ParticleState
	initial ParticleState
	parent  *Candidate

	trajectoryLength float64
	lastStep         float64
	nextStep         float64
	steps            int
	status           Status
	properties       map[string]string
}

// New returns an active candidate whose initial, last and next states all
// equal state.
func New(state ParticleState) *Candidate {
	return &Candidate{
		Next:    state,
		last:    state,
		initial: state,
		status:  Active,
	}
}

// NewSecondary returns a candidate spawned by c with species id and energy.
// Its initial state is c's next state with the id and energy replaced.
func (c *Candidate) NewSecondary(id int, energy float64) *Candidate {
	state := c.Next
	state.ID = id
	state.Energy = energy
	s := New(state)
	s.parent = c
	return s
}

// Initial returns the state the candidate was created with.
func (c *Candidate) Initial() ParticleState { return c.initial }

// Last returns the state at the start of the current step.
func (c *Candidate) Last() ParticleState { return c.last }

// Parent returns the candidate that spawned c, or nil for a primary.
func (c *Candidate) Parent() *Candidate { return c.parent }

// Generation returns the number of ancestors of c.
func (c *Candidate) Generation() int {
	n := 0
	for p := c.parent; p != nil; p = p.parent {
		n++
	}
	return n
}

func (c *Candidate) TrajectoryLength() float64 { return c.trajectoryLength }

// SetTrajectoryLength sets the travelled path length. Values below the
// current length are ignored so the length never decreases.
func (c *Candidate) SetTrajectoryLength(l float64) {
	if l < c.trajectoryLength {
		return
	}
	c.trajectoryLength = l
}

func (c *Candidate) LastStep() float64     { return c.lastStep }
func (c *Candidate) SetLastStep(s float64) { c.lastStep = s }

func (c *Candidate) NextStep() float64 { return c.nextStep }

// SetNextStep sets the step proposal unconditionally. Only the propagation
// module that owns step proposals calls it; every other module uses
// LimitNextStep.
func (c *Candidate) SetNextStep(s float64) { c.nextStep = s }

// LimitNextStep lowers the proposed next step to s if s is smaller.
func (c *Candidate) LimitNextStep(s float64) {
	if s < c.nextStep {
		c.nextStep = s
	}
}

// Steps returns the number of steps begun on c.
func (c *Candidate) Steps() int { return c.steps }

// BeginStep snapshots the next state into last and counts the step.
func (c *Candidate) BeginStep() {
	c.last = c.Next
	c.steps++
}

func (c *Candidate) Status() Status { return c.status }

func (c *Candidate) IsActive() bool { return c.status == Active }

// SetStatus moves an active candidate to s and reports whether it changed.
// Terminal candidates keep their status.
func (c *Candidate) SetStatus(s Status) bool {
	if c.status.IsTerminal() || s == Active {
		return false
	}
	c.status = s
	return true
}

func (c *Candidate) SetProperty(key, value string) {
	if c.properties == nil {
		c.properties = make(map[string]string)
	}
	c.properties[key] = value
}

func (c *Candidate) Property(key string) (string, bool) {
	v, ok := c.properties[key]
	return v, ok
}

func (c *Candidate) HasProperty(key string) bool {
	_, ok := c.properties[key]
	return ok
}

func (c *Candidate) RemoveProperty(key string) {
	delete(c.properties, key)
}

// PropertyKeys returns the property keys in sorted order.
func (c *Candidate) PropertyKeys() []string {
	keys := make([]string, 0, len(c.properties))
	for k := range c.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
