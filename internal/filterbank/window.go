package filterbank

import "math"

// Window shape constants, as coded in the window_shape bit.
const (
	// SineWindow is the sine window shape (index 0). It is the only shape
	// the encoder emits.
	SineWindow = 0

	// KBDWindow is the Kaiser-Bessel Derived window shape (index 1).
	KBDWindow = 1
)

// Window size constants for 1024-sample frames.
const (
	// LongWindowSize is the number of spectral lines of a long window.
	LongWindowSize = 1024

	// ShortWindowSize is the number of spectral lines of a short window.
	ShortWindowSize = 128

	// NumShortWindows is the number of short windows in EIGHT_SHORT.
	NumShortWindows = 8
)

// Offset of the first short window inside the 2048-sample block, and the
// layout of the LONG_START / LONG_STOP transition windows built from it.
const (
	shortOffset = (LongWindowSize - ShortWindowSize) / 2 // 448
	flatEnd     = LongWindowSize + shortOffset           // 1472
)

var (
	sineLong  = sineWindow(LongWindowSize)
	sineShort = sineWindow(ShortWindowSize)
)

// sineWindow returns the rising half of a sine window of length 2n:
// w[i] = sin(pi * (i + 0.5) / (2n)). The falling half is w[n-1-i].
func sineWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = math.Sin(math.Pi * (float64(i) + 0.5) / float64(2*n))
	}
	return w
}

// LongWindow returns the rising half of the long sine window (1024 values).
// The slice must not be modified.
func LongWindow() []float64 {
	return sineLong
}

// ShortWindow returns the rising half of the short sine window (128 values).
// The slice must not be modified.
func ShortWindow() []float64 {
	return sineShort
}
