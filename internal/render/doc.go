// Package render exports run figures and animations.
//
// Figures are drawn with gonum/plot and written in the format implied by the
// file extension (png, jpg, svg, pdf, eps). Animations are MJPEG AVI files,
// one frame per recorded step. Every combined chemical/plankton figure and
// every animation frame is recentered on the density peak before drawing.
package render
