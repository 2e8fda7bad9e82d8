// Package candidate defines the unit of simulation: a particle candidate and
// the physical snapshots it carries through propagation.
//
//   - [ParticleState]: value snapshot of position, direction, energy, species
//     and redshift
//   - [Candidate]: initial, last and next states plus step bookkeeping and a
//     one-way [Status]
//
// A candidate starts [Active]. The first module that sets a different status
// makes it terminal; later writes are ignored. Modules propose smaller steps
// through [Candidate.LimitNextStep], which never grows the proposal.
//
// # Ownership
//
// A candidate is owned by one goroutine at a time. The parent link of a
// secondary is read-only and parents keep no references to their children, so
// lineage is a tree walked from leaf to root.
package candidate
