// Package psy implements the psychoacoustic analysis of the encoder:
// attack detection for block switching, short window grouping, and the
// masking models that give the quantizer an allowed noise energy per
// scalefactor band.
//
// Two models are available. The tonal model spreads band energies over
// the Bark scale, chooses the signal-to-mask offset from the spectral
// flatness of each band, applies the absolute threshold of hearing and
// limits pre-echo between long frames. The fixed model uses a constant
// signal-to-mask ratio.
package psy
