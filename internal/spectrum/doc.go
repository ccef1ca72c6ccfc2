// Package spectrum implements the spectral tools applied between the
// filterbank and the quantizer: temporal noise shaping, mid/side and
// intensity stereo, and perceptual noise substitution.
//
// Every analysis function has an inverse with decoder semantics, used by
// the reference decoder to check that the transmitted side information
// reconstructs the input spectrum.
package spectrum
