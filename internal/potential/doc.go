// Package potential implements a smooth bond-order (Tersoff-family)
// interatomic potential.
//
// Evaluation is a two-pass algorithm over directed bonds:
//
//   - pass 1 computes a bond-order factor b and its derivative for every
//     (atom, neighbor-slot) pair from a three-body sum
//   - pass 2 assembles per-bond partial forces and per-atom energies from
//     the completed bond-order buffers
//
// Pass 2 must not start until pass 1 has finished for every atom in the
// local range: the three-body force on bond (i,j) reads the bond-order
// derivative stored at bond (i,k) for every third neighbor k. Both passes
// run as independent per-atom units on a [compute.Pool], whose Run call
// provides the required barrier.
//
// Per-bond results live in a fixed-capacity arena sized at construction
// (atoms × neighbor cap) and reused every step; a configuration needing a
// larger cap requires constructing a new potential.
package potential
