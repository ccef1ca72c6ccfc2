// Package fft implements an in-place radix-2 complex FFT.
package fft

import (
	"math"
	"math/bits"
)

// CFFT holds the precomputed state for a complex FFT of a fixed
// power-of-two size.
type CFFT struct {
	N   int       // FFT size
	rev []int     // Bit-reversal permutation
	Tab []Complex // Twiddle factors e^(-i*2*pi*k/N), k < N/2
}

// NewCFFT creates a CFFT for size n. n must be a power of two >= 2.
func NewCFFT(n int) *CFFT {
	if n < 2 || n&(n-1) != 0 {
		panic("fft: size must be a power of two")
	}

	c := &CFFT{
		N:   n,
		rev: make([]int, n),
		Tab: make([]Complex, n/2),
	}

	shift := bits.UintSize - bits.TrailingZeros(uint(n))
	for i := range c.rev {
		c.rev[i] = int(bits.Reverse(uint(i)) >> shift)
	}
	for k := range c.Tab {
		s, co := math.Sincos(-2 * math.Pi * float64(k) / float64(n))
		c.Tab[k] = Complex{Re: co, Im: s}
	}
	return c
}

// Forward computes X[k] = sum x[n] * e^(-i*2*pi*n*k/N) in place.
func (c *CFFT) Forward(x []Complex) {
	c.transform(x, false)
}

// Backward computes x[n] = sum X[k] * e^(+i*2*pi*n*k/N) in place.
// The result is not scaled by 1/N.
func (c *CFFT) Backward(x []Complex) {
	c.transform(x, true)
}

func (c *CFFT) transform(x []Complex, inverse bool) {
	n := c.N
	if len(x) != n {
		panic("fft: buffer length does not match size")
	}

	for i, j := range c.rev {
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				w := c.Tab[k*step]
				if inverse {
					w.Im = -w.Im
				}
				a := x[start+k]
				b := Mul(x[start+k+half], w)
				x[start+k] = Complex{Re: a.Re + b.Re, Im: a.Im + b.Im}
				x[start+k+half] = Complex{Re: a.Re - b.Re, Im: a.Im - b.Im}
			}
		}
	}
}
