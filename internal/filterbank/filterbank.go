// Package filterbank implements the AAC analysis filterbank: windowing of a
// 2048-sample block with one of the four window sequences followed by the
// forward MDCT.
package filterbank

import (
	"github.com/llehouerou/go-aacenc/internal/mdct"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// FilterBank holds the MDCT instances and scratch buffers for analysis.
// A FilterBank is not safe for concurrent use.
type FilterBank struct {
	mdct256  *mdct.MDCT // For short blocks (256-sample MDCT)
	mdct2048 *mdct.MDCT // For long blocks (2048-sample MDCT)

	windowed []float64 // 2*LongWindowSize windowed input
}

// NewFilterBank creates a FilterBank for 1024-sample frames.
func NewFilterBank() *FilterBank {
	return &FilterBank{
		mdct256:  mdct.NewMDCT(2 * ShortWindowSize),
		mdct2048: mdct.NewMDCT(2 * LongWindowSize),
		windowed: make([]float64, 2*LongWindowSize),
	}
}

// Analyze windows the 2048-sample block and writes 1024 spectral lines to
// spec. For EIGHT_SHORT the lines are stored window-major: window w owns
// spec[w*128 : (w+1)*128].
func (fb *FilterBank) Analyze(seq syntax.WindowSequence, block, spec []float64) {
	const n = LongWindowSize
	if len(block) < 2*n || len(spec) < n {
		panic("filterbank: buffer too short")
	}

	if seq == syntax.EightShortSequence {
		fb.analyzeShort(block, spec)
		return
	}

	x := fb.windowed
	switch seq {
	case syntax.OnlyLongSequence:
		for i := 0; i < n; i++ {
			x[i] = block[i] * sineLong[i]
			x[n+i] = block[n+i] * sineLong[n-1-i]
		}
	case syntax.LongStartSequence:
		for i := 0; i < n; i++ {
			x[i] = block[i] * sineLong[i]
		}
		copy(x[n:flatEnd], block[n:flatEnd])
		for i := 0; i < ShortWindowSize; i++ {
			x[flatEnd+i] = block[flatEnd+i] * sineShort[ShortWindowSize-1-i]
		}
		clear(x[flatEnd+ShortWindowSize:])
	case syntax.LongStopSequence:
		clear(x[:shortOffset])
		for i := 0; i < ShortWindowSize; i++ {
			x[shortOffset+i] = block[shortOffset+i] * sineShort[i]
		}
		copy(x[shortOffset+ShortWindowSize:n], block[shortOffset+ShortWindowSize:n])
		for i := 0; i < n; i++ {
			x[n+i] = block[n+i] * sineLong[n-1-i]
		}
	default:
		panic("filterbank: invalid window sequence")
	}

	fb.mdct2048.Forward(x, spec)
}

func (fb *FilterBank) analyzeShort(block, spec []float64) {
	const s = ShortWindowSize
	x := fb.windowed[:2*s]
	for w := 0; w < NumShortWindows; w++ {
		seg := block[shortOffset+w*s:]
		for i := 0; i < s; i++ {
			x[i] = seg[i] * sineShort[i]
			x[s+i] = seg[s+i] * sineShort[s-1-i]
		}
		fb.mdct256.Forward(x, spec[w*s:(w+1)*s])
	}
}
