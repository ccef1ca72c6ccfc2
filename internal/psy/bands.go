package psy

import "math"

// Spreading slopes in dB per Bark. A masker spreads further towards higher
// frequencies than towards lower ones.
const (
	spreadUpper = 10.0
	spreadLower = 25.0
	spreadFloor = -60.0 // Spreading below this level is ignored
)

// bandInfo holds the per-band constants of one window layout.
type bandInfo struct {
	offsets []int
	width   []float64
	bark    []float64
	ath     []float64   // Absolute threshold as band energy
	spread  [][]float64 // spread[maskee][masker], linear energy gain
}

// bark returns the critical band rate of f Hz.
func bark(f float64) float64 {
	return 13*math.Atan(0.00076*f) + 3.5*math.Atan((f/7500)*(f/7500))
}

// athDB returns the absolute threshold of hearing at f Hz in dB SPL.
func athDB(f float64) float64 {
	k := math.Max(f, 20) / 1000
	return 3.64*math.Pow(k, -0.8) - 6.5*math.Exp(-0.6*(k-3.3)*(k-3.3)) + 1e-3*math.Pow(k, 4)
}

// athLevel is the line energy the lowest point of the threshold of hearing
// maps to, for a window of winLen lines: the energy a sine of half a 16-bit
// step leaves in one line.
func athLevel(winLen int) float64 {
	a := 0.5 * float64(winLen) / 2
	return a * a
}

// athMinDB is the lowest value of athDB, near 3.3 kHz.
var athMinDB = func() float64 {
	m := math.Inf(1)
	for f := 1000.0; f < 6000; f += 10 {
		m = math.Min(m, athDB(f))
	}
	return m
}()

// newBandInfo builds the band constants for band offsets of a window of
// winLen lines.
func newBandInfo(offsets []int, winLen, sampleRate int) *bandInfo {
	n := len(offsets) - 1
	bi := &bandInfo{
		offsets: offsets,
		width:   make([]float64, n),
		bark:    make([]float64, n),
		ath:     make([]float64, n),
		spread:  make([][]float64, n),
	}
	lineHz := float64(sampleRate) / float64(2*winLen)
	level := athLevel(winLen)

	for b := 0; b < n; b++ {
		lo, hi := offsets[b], offsets[b+1]
		bi.width[b] = float64(hi - lo)
		bi.bark[b] = bark(float64(lo+hi) / 2 * lineHz)

		// The band threshold is the quietest line of the band times its
		// width.
		minDB := math.Inf(1)
		for i := lo; i < hi; i++ {
			minDB = math.Min(minDB, athDB((float64(i)+0.5)*lineHz))
		}
		bi.ath[b] = bi.width[b] * level * math.Pow(10, (minDB-athMinDB)/10)
	}

	for maskee := 0; maskee < n; maskee++ {
		bi.spread[maskee] = make([]float64, n)
		for masker := 0; masker < n; masker++ {
			dz := bi.bark[maskee] - bi.bark[masker]
			var db float64
			if dz >= 0 {
				db = -spreadUpper * dz
			} else {
				db = spreadLower * dz
			}
			if db >= spreadFloor {
				bi.spread[maskee][masker] = math.Pow(10, db/10)
			}
		}
	}
	return bi
}
