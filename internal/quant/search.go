package quant

import (
	"errors"
	"math"
)

// ErrFrameTooLarge indicates that no noise offset brings a frame within
// its bit limit.
var ErrFrameTooLarge = errors.New("quant: frame exceeds the bit limit")

// Offset search range in dB of allowed noise.
const (
	minOffsetDB   = -30.0
	maxOffsetDB   = 90.0
	offsetStepsDB = 0.5 // Search resolution
)

// NoiseScale converts a noise offset in dB to an allowed noise factor.
func NoiseScale(offsetDB float64) float64 {
	return math.Pow(10, offsetDB/10)
}

// Measure quantizes and sizes a whole access unit with the allowed noise
// scaled by the given factor and returns its size in bits.
type Measure func(noiseScale float64) (int, error)

// SearchOffset finds the lowest noise offset in dB at which the access
// unit needs at most budget bits and returns it with the matching size.
// The frame is left quantized at the returned offset. A budget the
// largest offset cannot meet yields ErrFrameTooLarge with the frame
// quantized at that offset.
//
// The size is taken as non-increasing in the offset.
func SearchOffset(measure Measure, budget int) (float64, int, error) {
	bits, err := measure(NoiseScale(minOffsetDB))
	if err != nil || bits <= budget {
		return minOffsetDB, bits, err
	}

	lo, hi := minOffsetDB, maxOffsetDB
	hiBits, err := measure(NoiseScale(hi))
	if err != nil {
		return hi, hiBits, err
	}
	if hiBits > budget {
		return hi, hiBits, ErrFrameTooLarge
	}

	// lo fails the budget and hi meets it.
	last := hi
	for hi-lo > offsetStepsDB {
		mid := (lo + hi) / 2
		b, err := measure(NoiseScale(mid))
		if err != nil {
			return mid, b, err
		}
		last = mid
		if b <= budget {
			hi, hiBits = mid, b
		} else {
			lo = mid
		}
	}

	if last != hi {
		// Leave the frame quantized at hi.
		hiBits, err = measure(NoiseScale(hi))
	}
	return hi, hiBits, err
}
