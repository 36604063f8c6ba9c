// Package analysis computes angular statistics of exit times.
//
// A fan of exit times sampled over evenly spaced directions is a
// periodic signal in the launch angle, so its discrete Fourier transform
// separates the isotropic part (harmonic 0) from the shape's symmetry. A
// circle sampled at its centre has no harmonics above 0. A square sampled at
// its centre peaks at harmonic 4.
package analysis
