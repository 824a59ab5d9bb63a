// Package viz provides a terminal live view of a running simulation.
//
// Atoms are projected onto the xy-plane and drawn on a braille canvas
// next to a stats pane with an energy trace. The view drives the
// integrator itself, a few steps per frame, so it can be paused and
// resumed interactively.
package viz
