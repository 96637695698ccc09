// Package viz renders run data in the terminal.
//
// Charts are drawn with asciigraph; [Player] is a Bubble Tea model that
// steps through the recentered frames of a run.
//
// # Controls
//
//	Space   pause/resume
//	[ ]     step back/forward
//	r       restart
//	t       cycle theme
//	q       quit
package viz
