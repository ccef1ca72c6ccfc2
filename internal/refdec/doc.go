// Package refdec is a small AAC-LC decoder for 1024-sample frames with sine
// windows. It reads ADTS or raw streams and supports every tool the
// encoder emits: M/S and intensity stereo, PNS and TNS.
//
// The decoder shares the bitstream parser and the spectral reconstruction
// with the encoder packages but runs its own synthesis filterbank, so round
// trip tests check the analysis side independently.
package refdec
