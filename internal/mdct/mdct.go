// Package mdct implements the forward MDCT used by the AAC analysis
// filterbank and the inverse MDCT of the reference decoder.
package mdct

import (
	"math"

	"github.com/llehouerou/go-aacenc/internal/fft"
)

// MDCT holds state for a Modified Discrete Cosine Transform of a fixed
// size.
//
// The transform computes
//
//	X[k] = 2 * sum_{n=0}^{N-1} x[n] * cos(2*pi/N * (n + n0) * (k + 1/2))
//
// for k < N/2 with n0 = (N/2 + 1) / 2, which is the ISO/IEC 14496-3 forward
// MDCT. The standard IMDCT with its 2/N factor inverts it.
type MDCT struct {
	N      int           // Transform size (256 or 2048 for AAC)
	N2     int           // N/2
	N4     int           // N/4
	cfft   *fft.CFFT     // Complex FFT of size N/4
	sincos []fft.Complex // Twiddles e^(i*2*pi*(k+1/8)/N), N/4 entries

	u   []float64     // Folded input, N/2
	buf []fft.Complex // FFT work buffer, N/4
}

// NewMDCT creates an MDCT for transform size n. n must be a power of two
// >= 16.
func NewMDCT(n int) *MDCT {
	if n < 16 || n&(n-1) != 0 {
		panic("mdct: size must be a power of two >= 16")
	}

	m := &MDCT{
		N:      n,
		N2:     n >> 1,
		N4:     n >> 2,
		cfft:   fft.NewCFFT(n >> 2),
		sincos: make([]fft.Complex, n>>2),
		u:      make([]float64, n>>1),
		buf:    make([]fft.Complex, n>>2),
	}
	for k := range m.sincos {
		s, c := math.Sincos(2 * math.Pi * (float64(k) + 0.125) / float64(n))
		m.sincos[k] = fft.Complex{Re: c, Im: s}
	}
	return m
}

// Forward transforms N windowed time samples in into N/2 spectral lines
// written to out.
func (m *MDCT) Forward(in, out []float64) {
	if len(in) < m.N || len(out) < m.N2 {
		panic("mdct: buffer too short")
	}
	n2, n4 := m.N2, m.N4
	u := m.u

	// Fold the N inputs into N/2 values so that the MDCT becomes a DCT-IV.
	for n := 0; n < n4; n++ {
		u[n] = -in[3*n4-1-n] - in[3*n4+n]
		u[n4+n] = in[n] - in[n2-1-n]
	}

	m.dct4(u, out, 2)
}

// Inverse transforms N/2 spectral lines in into N time samples written to
// out:
//
//	y[n] = 2/N * sum_{k=0}^{N/2-1} X[k] * cos(2*pi/N * (n + n0) * (k + 1/2))
//
// The output still carries the time domain aliasing; windowing and
// overlap-add of consecutive blocks cancel it.
func (m *MDCT) Inverse(in, out []float64) {
	if len(in) < m.N2 || len(out) < m.N {
		panic("mdct: buffer too short")
	}
	n2, n4 := m.N2, m.N4
	v := m.u
	m.dct4(in[:n2], v, 2/float64(m.N))

	// Unfold, the transpose of the folding in Forward.
	for n := 0; n < n4; n++ {
		out[3*n4-1-n] = -v[n]
		out[3*n4+n] = -v[n]
		out[n] = v[n4+n]
		out[n2-1-n] = -v[n4+n]
	}
}

// dct4 computes the scaled DCT-IV of the N/2 values in through the N/4
// point complex FFT. The input is fully consumed before out is written, so
// in and out may alias.
func (m *MDCT) dct4(in, out []float64, scale float64) {
	n2, n4 := m.N2, m.N4

	// Pre-twiddle into N/4 complex values.
	for k := 0; k < n4; k++ {
		tw := m.sincos[k]
		re, im := fft.ComplexMult(in[2*k], in[n2-1-2*k], tw.Re, tw.Im)
		m.buf[k] = fft.Complex{Re: re, Im: im}
	}

	m.cfft.Forward(m.buf)

	// Post-twiddle and interleave.
	for k := 0; k < n4; k++ {
		tw := m.sincos[k]
		re, im := fft.ComplexMult(m.buf[k].Re, m.buf[k].Im, tw.Re, tw.Im)
		out[2*k] = scale * re
		out[n2-1-2*k] = -scale * im
	}
}
