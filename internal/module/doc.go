// Package module defines the per-step processing contract and the break
// conditions built on it.
//
//   - [Module]: inspects and mutates one candidate per step
//   - [AbstractCondition]: shared rejection behaviour for break conditions
//   - [MaximumTrajectoryLength], [MinimumEnergy], [MinimumRedshift]
//   - [SimplePropagation], [Redshift]: step proposal and state advance
//   - [List]: ordered chain that drives candidates until they leave Active
//
// # Example
//
//	l := module.NewList()
//	l.Add(module.NewMaximumTrajectoryLength(100 * units.Mpc))
//	l.Add(module.NewSimplePropagation(1 * units.Mpc))
//	summary, err := l.RunAll(ctx, candidates, 4)
//
// # Thread Safety
//
// Modules are shared by every worker of a [List] and must not mutate
// themselves in Process. Threshold setters are configuration-time only.
package module
