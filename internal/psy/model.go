package psy

import (
	"errors"
	"math"

	"github.com/llehouerou/go-aacenc/internal/syntax"
	"github.com/llehouerou/go-aacenc/internal/tables"
)

// Model indices, in the order of Names.
const (
	ModelTonal = 0
	ModelFixed = 1
)

// Names lists the available models by index.
var Names = []string{
	"Tonal spreading psychoacoustic model",
	"Fixed SMR psychoacoustic model",
}

// ErrUnknownModel indicates a model index outside Names.
var ErrUnknownModel = errors.New("psy: unknown model")

// ErrSampleRate indicates a rate without a band table.
var ErrSampleRate = errors.New("psy: unsupported sample rate")

// Result is the analysis of one channel and frame. Entries are indexed by
// window and band; long frames use window 0.
type Result struct {
	Energy    [syntax.MaxWindows][syntax.MaxSFB]float64
	Threshold [syntax.MaxWindows][syntax.MaxSFB]float64 // Allowed noise energy

	// PE is the perceptual entropy of the frame in bits.
	PE float64
}

// Model computes per band masking thresholds of one channel. A Model
// keeps state across frames and must be fed the frames of one channel in
// order.
type Model interface {
	// Analyze fills res for the window-major spectrum spec laid out as
	// ics describes. Only the window sequence and the band offsets of ics
	// are used.
	Analyze(ics *syntax.ICStream, spec []float64, res *Result)
}

// layouts holds the band constants for the long and short windows of one
// sample rate.
type layouts struct {
	long, short *bandInfo
}

func newLayouts(sampleRate int) (*layouts, error) {
	srIndex, ok := tables.SRIndex(uint32(sampleRate))
	if !ok {
		return nil, ErrSampleRate
	}
	return &layouts{
		long:  newBandInfo(tables.SWBOffsets(srIndex, false), syntax.FrameLength, sampleRate),
		short: newBandInfo(tables.SWBOffsets(srIndex, true), syntax.ShortLength, sampleRate),
	}, nil
}

func (l *layouts) forSequence(seq syntax.WindowSequence) (*bandInfo, int, int) {
	if seq == syntax.EightShortSequence {
		return l.short, syntax.MaxWindows, syntax.ShortLength
	}
	return l.long, 1, syntax.FrameLength
}

// New returns model idx for one channel at sampleRate.
func New(idx, sampleRate int) (Model, error) {
	l, err := newLayouts(sampleRate)
	if err != nil {
		return nil, err
	}
	switch idx {
	case ModelTonal:
		return &tonalModel{layouts: l}, nil
	case ModelFixed:
		return &fixedModel{layouts: l}, nil
	default:
		return nil, ErrUnknownModel
	}
}

// bandEnergies fills energy with the band energies of one window.
func bandEnergies(bi *bandInfo, x []float64, energy []float64) {
	for b := range bi.width {
		e := 0.0
		for _, v := range x[bi.offsets[b]:bi.offsets[b+1]] {
			e += v * v
		}
		energy[b] = e
	}
}

// perceptualEntropy estimates the bits needed to code energies with the
// given allowed noise: half a bit per line and doubling of the
// signal-to-noise ratio.
func perceptualEntropy(bi *bandInfo, energy, thr []float64) float64 {
	pe := 0.0
	for b, w := range bi.width {
		if energy[b] > thr[b] && thr[b] > 0 {
			pe += w * 0.5 * math.Log2(energy[b]/thr[b])
		}
	}
	return pe
}
