package module

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/san-kum/partprop/internal/candidate"
)

var (
	// ErrStepLimit indicates a candidate still active after the step limit.
	ErrStepLimit = errors.New("module: candidate still active after step limit")

	// ErrEmptyList indicates a run over a list with no modules.
	ErrEmptyList = errors.New("module: list has no modules")
)

// StepError wraps a driver failure with the state of the candidate.
type StepError struct {
	Step             int
	TrajectoryLength float64
	Wrapped          error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (length=%g): %v", e.Step, e.TrajectoryLength, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

// List is an ordered module chain. Every step runs all modules in order on
// one candidate; candidates run independently of each other.
type List struct {
	modules   []Module
	observers []Observer
	maxSteps  int
	mu        sync.Mutex
}

func NewList(modules ...Module) *List {
	return &List{modules: append([]Module(nil), modules...)}
}

func (l *List) Add(m Module)           { l.modules = append(l.modules, m) }
func (l *List) AddObserver(o Observer) { l.observers = append(l.observers, o) }

// SetMaxSteps bounds the number of steps per candidate. Zero disables the
// bound.
func (l *List) SetMaxSteps(n int) { l.maxSteps = n }

// Modules returns the chain in processing order.
func (l *List) Modules() []Module {
	out := make([]Module, len(l.modules))
	copy(out, l.modules)
	return out
}

func (l *List) Description() string {
	var sb strings.Builder
	sb.WriteString("ModuleList\n")
	for _, m := range l.modules {
		sb.WriteString("  ")
		sb.WriteString(m.Description())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Process runs every module once on c, in order.
func (l *List) Process(c *candidate.Candidate) {
	for _, m := range l.modules {
		m.Process(c)
	}
}

// Step begins a new step on c and processes it. A candidate that has never
// received a step proposal starts with an unbounded one, which conditions
// and the propagation module then narrow.
func (l *List) Step(c *candidate.Candidate) {
	if c.Steps() == 0 && c.NextStep() <= 0 {
		c.SetNextStep(math.Inf(1))
	}
	c.BeginStep()
	l.Process(c)
}

// Run steps c until it leaves Active. The context is checked between steps.
func (l *List) Run(ctx context.Context, c *candidate.Candidate) error {
	if len(l.modules) == 0 {
		return ErrEmptyList
	}
	for c.IsActive() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if l.maxSteps > 0 && c.Steps() >= l.maxSteps {
			return &StepError{Step: c.Steps(), TrajectoryLength: c.TrajectoryLength(), Wrapped: ErrStepLimit}
		}
		l.Step(c)
	}
	l.notify(c)
	return nil
}

func (l *List) notify(c *candidate.Candidate) {
	if len(l.observers) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.observers {
		o.Observe(c)
	}
}

// RunAll runs every candidate to completion across workers goroutines. Each
// candidate is owned by exactly one worker. A non-positive worker count uses
// one worker per CPU.
func (l *List) RunAll(ctx context.Context, cs []*candidate.Candidate, workers int) (Summary, error) {
	if len(l.modules) == 0 {
		return nil, ErrEmptyList
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	errs := make([]error, len(cs))
	parallelFor(len(cs), workers, func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = l.Run(ctx, cs[i])
		}
	})

	return Summarize(cs), errors.Join(errs...)
}

// parallelFor splits [0, n) into one contiguous chunk per worker.
func parallelFor(n, workers int, fn func(start, end int)) {
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// Summary counts candidates per status.
type Summary map[candidate.Status]int

// Summarize counts the statuses of cs.
func Summarize(cs []*candidate.Candidate) Summary {
	s := make(Summary)
	for _, c := range cs {
		s[c.Status()]++
	}
	return s
}

func (s Summary) Total() int {
	n := 0
	for _, v := range s {
		n += v
	}
	return n
}

// ByName returns the counts keyed by status name.
func (s Summary) ByName() map[string]int {
	out := make(map[string]int, len(s))
	for st, n := range s {
		out[st.String()] = n
	}
	return out
}

func (s Summary) String() string {
	keys := make([]candidate.Status, 0, len(s))
	for st := range s {
		keys = append(keys, st)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	parts := make([]string, len(keys))
	for i, st := range keys {
		parts[i] = fmt.Sprintf("%s=%d", st, s[st])
	}
	return strings.Join(parts, " ")
}
