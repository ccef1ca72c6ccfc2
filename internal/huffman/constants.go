// Package huffman implements the AAC Huffman codebooks used by the encoder:
// the unsigned pair codebooks 8 and 11, the escape sequences of codebook 11
// and the scalefactor codebook, with bit counting and the matching
// decoders.
package huffman

// Codebook represents a Huffman codebook identifier as coded in sect_cb.
type Codebook uint8

// Huffman Codebook identifiers.
const (
	ZeroHCB       Codebook = 0  // No spectral data
	PairHCB       Codebook = 8  // Unsigned pairs, |q| <= 7
	EscHCB        Codebook = 11 // Unsigned pairs, |q| <= 15 plus escape
	NoiseHCB      Codebook = 13 // Perceptual Noise Substitution
	IntensityHCB2 Codebook = 14 // Intensity stereo (out of phase)
	IntensityHCB  Codebook = 15 // Intensity stereo (in phase)
)

// MaxPairValue is the largest magnitude codebook 8 can represent.
const MaxPairValue = 7

// Codebook 11 limits.
const (
	EscValue    = 16   // Codebook 11 symbol announcing an escape sequence
	MaxEscValue = 8191 // Largest magnitude an escape sequence codes
	escBias     = 4    // An escape of n ones carries an (n+4)-bit word
)

// PairLen is the number of coefficients per pair codeword.
const PairLen = 2

// Scalefactor codebook limits.
const (
	SFDeltaMax  = 60 // Largest |delta| the scalefactor codebook codes
	sfIndexBias = 60
)
