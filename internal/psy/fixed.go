package psy

import (
	"math"

	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// fixedSMR is the signal-to-mask ratio of the fixed model in dB.
const fixedSMR = 18.0

// fixedModel allows a constant fraction of each band energy as noise,
// bounded below by the threshold of hearing.
type fixedModel struct {
	*layouts
}

func (m *fixedModel) Analyze(ics *syntax.ICStream, spec []float64, res *Result) {
	bi, nwin, winLen := m.forSequence(ics.WindowSequence)
	n := len(bi.width)
	gain := math.Pow(10, -fixedSMR/10)
	res.PE = 0

	for w := 0; w < nwin; w++ {
		energy := res.Energy[w][:n]
		thr := res.Threshold[w][:n]
		bandEnergies(bi, spec[w*winLen:(w+1)*winLen], energy)
		for b := range thr {
			thr[b] = math.Max(energy[b]*gain, bi.ath[b])
		}
		res.PE += perceptualEntropy(bi, energy, thr)
	}
}
