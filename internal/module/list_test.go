package module_test

import (
	"context"
	"errors"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/module"
	"github.com/san-kum/partprop/internal/units"
	"github.com/san-kum/partprop/internal/vec"
)

func proton(energy, redshift float64) *candidate.Candidate {
	s := candidate.NewParticleState(candidate.Proton, energy, vec.Vector3{}, vec.New(0, 0, 1))
	s.Redshift = redshift
	return candidate.New(s)
}

type stepCounter struct{ n atomic.Int64 }

func (s *stepCounter) Process(*candidate.Candidate) { s.n.Add(1) }
func (s *stepCounter) Description() string          { return "step counter" }

var _ = Describe("List", func() {
	var (
		ctx context.Context
		l   *module.List
	)

	BeforeEach(func() {
		ctx = context.Background()
		l = module.NewList()
	})

	Describe("Run", func() {
		It("stops exactly at the maximum trajectory length", func() {
			l.Add(module.NewMaximumTrajectoryLength(10))
			l.Add(module.NewSimplePropagation(3))
			c := proton(units.EeV, 0)

			Expect(l.Run(ctx, c)).To(Succeed())

			Expect(c.Status()).To(Equal(candidate.ReachedMaxTime))
			Expect(c.TrajectoryLength()).To(Equal(10.0))
			Expect(c.Next.Position).To(Equal(vec.New(0, 0, 10)))
			Expect(c.LastStep()).To(Equal(1.0))
			// Four moves of 3, 3, 3, 1 plus the step that detects the limit.
			Expect(c.Steps()).To(Equal(5))
			flag, _ := c.Property(module.DeactivatedFlag)
			Expect(flag).To(ContainSubstring("Maximum trajectory length"))
		})

		It("never overshoots when the limit is shorter than one step", func() {
			l.Add(module.NewMaximumTrajectoryLength(0.5))
			l.Add(module.NewSimplePropagation(3))
			c := proton(units.EeV, 0)

			Expect(l.Run(ctx, c)).To(Succeed())
			Expect(c.TrajectoryLength()).To(Equal(0.5))
		})

		It("keeps the initial state and tracks the last state", func() {
			l.Add(module.NewMaximumTrajectoryLength(4))
			l.Add(module.NewSimplePropagation(2))
			c := proton(units.EeV, 0)

			Expect(l.Run(ctx, c)).To(Succeed())
			Expect(c.Initial().Position).To(Equal(vec.Vector3{}))
			Expect(c.Last().Position).To(Equal(c.Next.Position))
		})

		It("leaves a candidate that is already terminal untouched", func() {
			counter := &stepCounter{}
			l.Add(counter)
			c := proton(units.EeV, 0)
			c.SetStatus(candidate.Detected)

			Expect(l.Run(ctx, c)).To(Succeed())
			Expect(counter.n.Load()).To(BeZero())
			Expect(c.Steps()).To(BeZero())
		})

		It("reports the step limit", func() {
			l.Add(module.NewSimplePropagation(1))
			l.SetMaxSteps(3)
			c := proton(units.EeV, 0)

			err := l.Run(ctx, c)
			Expect(err).To(MatchError(module.ErrStepLimit))

			var stepErr *module.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal(3))
			Expect(stepErr.TrajectoryLength).To(Equal(3.0))
		})

		It("stops between steps when the context is canceled", func() {
			l.Add(module.NewSimplePropagation(1))
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			Expect(l.Run(canceled, proton(units.EeV, 0))).To(MatchError(context.Canceled))
		})

		It("rejects an empty chain", func() {
			Expect(l.Run(ctx, proton(units.EeV, 0))).To(MatchError(module.ErrEmptyList))
		})

		It("runs modules in configured order", func() {
			var order []string
			record := func(name string) module.Module {
				return &namedModule{name: name, fn: func(*candidate.Candidate) { order = append(order, name) }}
			}
			l.Add(record("a"))
			l.Add(record("b"))
			l.Add(module.NewMaximumTrajectoryLength(0))

			Expect(l.Run(ctx, proton(units.EeV, 0))).To(Succeed())
			Expect(order).To(Equal([]string{"a", "b"}))
		})
	})

	Describe("Redshift", func() {
		It("lowers redshift and energy until the minimum redshift is reached", func() {
			l.Add(module.NewMinimumRedshift(0.01))
			l.Add(module.NewSimplePropagation(10 * units.Mpc))
			l.Add(module.NewRedshift())
			c := proton(10*units.EeV, 0.05)

			Expect(l.Run(ctx, c)).To(Succeed())

			Expect(c.Status()).To(Equal(candidate.ReachedMaxTime))
			Expect(c.Next.Redshift).To(BeNumerically("<", 0.01))
			Expect(c.Next.Energy).To(BeNumerically("<", 10*units.EeV))
			Expect(c.Next.Energy / c.Initial().Energy).To(BeNumerically("~", (1+c.Next.Redshift)/1.05, 1e-9))
		})

		It("does nothing at zero redshift", func() {
			c := proton(units.EeV, 0)
			c.SetLastStep(units.Gpc)
			module.NewRedshift().Process(c)

			Expect(c.Next.Redshift).To(BeZero())
			Expect(c.Next.Energy).To(Equal(units.EeV))
		})

		It("matches the Hubble constant today", func() {
			Expect(module.NewRedshift().HubbleRate(0)).To(BeNumerically("~", units.H0, units.H0*1e-12))
		})
	})

	Describe("RunAll", func() {
		It("drives every candidate to a terminal status in parallel", func() {
			l.Add(module.NewMinimumEnergy(4.5 * units.EeV))
			l.Add(module.NewMaximumTrajectoryLength(50))
			l.Add(module.NewSimplePropagation(7))

			cs := make([]*candidate.Candidate, 100)
			for i := range cs {
				cs[i] = proton(float64(i%10)*units.EeV, 0)
			}

			var observed atomic.Int64
			l.AddObserver(module.ObserverFunc(func(c *candidate.Candidate) {
				if !c.IsActive() {
					observed.Add(1)
				}
			}))

			summary, err := l.RunAll(ctx, cs, 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Total()).To(Equal(100))
			Expect(summary[candidate.BelowEnergyThreshold]).To(Equal(50))
			Expect(summary[candidate.ReachedMaxTime]).To(Equal(50))
			Expect(summary[candidate.Active]).To(BeZero())
			Expect(observed.Load()).To(Equal(int64(100)))

			for _, c := range cs {
				if c.Status() == candidate.ReachedMaxTime {
					Expect(c.TrajectoryLength()).To(Equal(50.0))
				}
			}
		})

		It("joins per-candidate errors", func() {
			l.Add(module.NewSimplePropagation(1))
			l.SetMaxSteps(2)

			_, err := l.RunAll(ctx, []*candidate.Candidate{proton(1, 0), proton(1, 0)}, 0)
			Expect(err).To(MatchError(module.ErrStepLimit))
		})

		It("handles an empty batch", func() {
			l.Add(module.NewSimplePropagation(1))
			summary, err := l.RunAll(ctx, nil, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Total()).To(BeZero())
		})
	})

	Describe("Summary", func() {
		It("formats counts in status order", func() {
			s := module.Summary{candidate.ReachedMaxTime: 2, candidate.Detected: 1}
			Expect(s.String()).To(Equal("detected=1 reached_max_time=2"))
			Expect(s.ByName()).To(HaveKeyWithValue("reached_max_time", 2))
		})
	})

	Describe("Description", func() {
		It("lists every module", func() {
			l.Add(module.NewSimplePropagation(units.Mpc))
			l.Add(module.NewMinimumEnergy(units.EeV))
			Expect(l.Description()).To(ContainSubstring("Simple propagation"))
			Expect(l.Description()).To(ContainSubstring("Minimum energy: 1 EeV"))
			Expect(l.Modules()).To(HaveLen(2))
		})
	})
})

type namedModule struct {
	name string
	fn   func(*candidate.Candidate)
}

func (n *namedModule) Process(c *candidate.Candidate) { n.fn(c) }
func (n *namedModule) Description() string            { return n.name }
