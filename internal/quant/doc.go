// Package quant implements the quantizer and bit allocation: the
// non-uniform quantizer, the per band scalefactor search against the
// allowed noise, the scalefactor delta constraints of the bitstream, the
// global noise offset search against a bit budget, and the bit reservoir.
package quant
