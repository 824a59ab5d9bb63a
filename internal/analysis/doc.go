// Package analysis provides structural observables over MD trajectories.
//
// The package works on recorded frames rather than live systems:
//
//   - [RDF]: radial distribution function g(r) from atom positions
//   - [MSD]: mean-square displacement over a sequence of frames
//
// A solid shows sharp RDF peaks and a bounded MSD; a melt shows broad
// peaks and a linearly growing MSD.
package analysis
