// Package analysis tracks the plankton aggregate across a run.
//
// Under periodic boundary conditions the density peak drifts and wraps
// around the domain; recentering hides that motion in plots. The helpers
// here recover it:
//
//   - [PeakIndices]: first-maximum index per recorded step
//   - [Drift]: unwrapped peak displacement and mean velocity
package analysis
