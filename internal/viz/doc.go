// Package viz renders propagation results in the terminal.
//
//   - [SummaryTable]: lipgloss table of final statuses
//   - [EnergyHistogram], [FieldProfile]: asciigraph plots
//   - [ScatterMap]: Braille map of final positions on a [Plane]
//   - [Progress]: Bubble Tea view that follows a running batch
//
// # Key Bindings
//
//	q / Esc - Close the progress view
package viz
