// Package sim drives molecular-dynamics runs: it reduces directed-bond
// partial forces to per-atom forces and a virial, integrates the
// equations of motion with velocity Verlet, and applies an optional
// thermostat.
//
// Units are reduced: the Boltzmann constant is 1, so temperature is
// energy and the kinetic temperature of N atoms is 2*KE/(3N).
package sim
