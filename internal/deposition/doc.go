// Package deposition provides the concentration-dependent deposition rate
// responses used by the plankton forcing term.
//
// Three closed-form shapes are available:
//
//   - [Constant]: a fixed rate, independent of concentration
//   - [SoftSwitch]: a tanh approximation of a step that switches deposition
//     off above the threshold
//   - [LinearSoftSwitch]: the same envelope scaled linearly with concentration
//
// Evaluation follows IEEE semantics: a zero transition width or threshold
// yields NaN or Inf rather than an error. Use [Params.Validate] to reject such
// parameters up front.
package deposition
