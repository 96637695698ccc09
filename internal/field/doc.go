// Package field provides the periodic grid and snapshot primitives used to
// post-process chemical/plankton field histories.
//
// The package defines:
//
//   - [Grid]: N equally spaced samples on a periodic interval [Left, Right)
//   - [Snapshot]: the chemical and density fields at one recorded time step
//   - [Recenter]: cyclic rotation that moves the density peak to the grid's
//     midpoint index
//
// # Example
//
//	g := field.Grid{N: 256, Left: 0, Right: 10}
//	centered, err := g.Recenter(field.Snapshot{Chemical: c, Density: p})
//	if err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// All functions are pure. Recenter never mutates its inputs and always
// returns freshly allocated slices, so it may be called from any number of
// goroutines.
package field
