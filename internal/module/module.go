package module

import "github.com/san-kum/partprop/internal/candidate"

// Module processes one candidate for one propagation step. Process may read
// any field, write the next state, lower the next step and set a terminal
// status on an active candidate. It must not block and never fails; on a
// terminal candidate it does nothing.
type Module interface {
	Process(c *candidate.Candidate)
	Description() string
}

// Observer is notified once a candidate run by a List has left Active.
type Observer interface {
	Observe(c *candidate.Candidate)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(c *candidate.Candidate)

func (f ObserverFunc) Observe(c *candidate.Candidate) { f(c) }
