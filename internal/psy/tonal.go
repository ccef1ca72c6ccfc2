package psy

import (
	"math"

	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// Tonal model parameters, in dB.
const (
	tonalOffsetBase = 14.5 // Tone masking noise offset, plus one dB per Bark
	noiseOffset     = 5.5  // Noise masking tone offset
	flatnessTonal   = -60  // Flatness of a pure tone
	preEchoGrowth   = 2.0  // Allowed threshold growth between long frames
)

// tonalModel is the spreading model with tonality-dependent offsets.
type tonalModel struct {
	*layouts
	prevThr  [syntax.MaxSFB]float64
	prevLong bool
}

// tonality returns the tonality of the lines of a band in [0, 1] from
// their spectral flatness: 0 for noise, 1 for a pure tone.
func tonality(x []float64) float64 {
	if len(x) < 2 {
		return 0.5
	}
	sumLog, sum := 0.0, 0.0
	for _, v := range x {
		e := v*v + 1e-3
		sumLog += math.Log(e)
		sum += e
	}
	n := float64(len(x))
	sfm := math.Exp(sumLog/n) / (sum / n)
	sfmDB := 10 * math.Log10(sfm)
	return math.Min(sfmDB/flatnessTonal, 1)
}

func (m *tonalModel) Analyze(ics *syntax.ICStream, spec []float64, res *Result) {
	bi, nwin, winLen := m.forSequence(ics.WindowSequence)
	n := len(bi.width)
	res.PE = 0

	for w := 0; w < nwin; w++ {
		x := spec[w*winLen : (w+1)*winLen]
		energy := res.Energy[w][:n]
		thr := res.Threshold[w][:n]
		bandEnergies(bi, x, energy)

		for b := 0; b < n; b++ {
			spread := 0.0
			for j, g := range bi.spread[b] {
				spread += g * energy[j]
			}
			alpha := tonality(x[bi.offsets[b]:bi.offsets[b+1]])
			offset := alpha*(tonalOffsetBase+bi.bark[b]) + (1-alpha)*noiseOffset
			t := spread * math.Pow(10, -offset/10)

			if m.prevLong && nwin == 1 {
				t = math.Min(t, preEchoGrowth*m.prevThr[b])
			}
			thr[b] = math.Max(t, bi.ath[b])
		}
		res.PE += perceptualEntropy(bi, energy, thr)
	}

	m.prevLong = nwin == 1
	if m.prevLong {
		copy(m.prevThr[:], res.Threshold[0][:n])
	}
}
