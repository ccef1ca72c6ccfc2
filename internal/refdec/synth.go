package refdec

import (
	"github.com/llehouerou/go-aacenc/internal/filterbank"
	"github.com/llehouerou/go-aacenc/internal/mdct"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

const (
	longSize  = filterbank.LongWindowSize
	shortSize = filterbank.ShortWindowSize

	shortStart = (longSize - shortSize) / 2 // First short window in the block
)

// synthWindows holds the 2048-sample synthesis window of each long
// sequence, indexed by WindowSequence.
var synthWindows = func() [4][]float64 {
	rise, short := filterbank.LongWindow(), filterbank.ShortWindow()
	var ws [4][]float64
	for _, seq := range []syntax.WindowSequence{syntax.OnlyLongSequence, syntax.LongStartSequence, syntax.LongStopSequence} {
		w := make([]float64, 2*longSize)
		for i := 0; i < longSize; i++ {
			w[i] = rise[i]
			w[longSize+i] = rise[longSize-1-i]
		}
		switch seq {
		case syntax.LongStartSequence:
			for i := longSize; i < 2*longSize; i++ {
				w[i] = 0
			}
			for i := longSize; i < longSize+shortStart; i++ {
				w[i] = 1
			}
			for i := 0; i < shortSize; i++ {
				w[longSize+shortStart+i] = short[shortSize-1-i]
			}
		case syntax.LongStopSequence:
			for i := 0; i < longSize; i++ {
				w[i] = 0
			}
			for i := 0; i < shortSize; i++ {
				w[shortStart+i] = short[i]
			}
			for i := shortStart + shortSize; i < longSize; i++ {
				w[i] = 1
			}
		}
		ws[seq] = w
	}
	return ws
}()

// synthesis is the inverse filterbank state of one channel.
type synthesis struct {
	long, short *mdct.MDCT

	block   []float64 // 2*longSize
	tmp     []float64 // 2*longSize
	overlap []float64 // longSize
}

func newSynthesis() *synthesis {
	return &synthesis{
		long:    mdct.NewMDCT(2 * longSize),
		short:   mdct.NewMDCT(2 * shortSize),
		block:   make([]float64, 2*longSize),
		tmp:     make([]float64, 2*longSize),
		overlap: make([]float64, longSize),
	}
}

// run transforms one frame of spectral lines back to time, overlaps it
// with the previous frame and writes longSize samples to out.
func (s *synthesis) run(seq syntax.WindowSequence, spec, out []float64) {
	b := s.block
	if seq == syntax.EightShortSequence {
		clear(b)
		win := filterbank.ShortWindow()
		y := s.tmp[:2*shortSize]
		for w := 0; w < filterbank.NumShortWindows; w++ {
			s.short.Inverse(spec[w*shortSize:(w+1)*shortSize], y)
			dst := b[shortStart+w*shortSize:]
			for i := 0; i < shortSize; i++ {
				dst[i] += y[i] * win[i]
				dst[shortSize+i] += y[shortSize+i] * win[shortSize-1-i]
			}
		}
	} else {
		s.long.Inverse(spec, b)
		win := synthWindows[seq]
		for i := range b {
			b[i] *= win[i]
		}
	}

	for i := 0; i < longSize; i++ {
		out[i] = s.overlap[i] + b[i]
	}
	copy(s.overlap, b[longSize:])
}

func (s *synthesis) reset() {
	clear(s.overlap)
}
