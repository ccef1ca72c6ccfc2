// Package tables holds the constant AAC tables shared by the encoder and
// the stream parser: sampling frequency indices, scalefactor band offsets
// and TNS band limits.
package tables
