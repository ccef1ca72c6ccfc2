package spectrum

import (
	"math"

	"github.com/llehouerou/go-aacenc/internal/syntax"
	"github.com/llehouerou/go-aacenc/internal/tables"
)

// TNS analysis parameters.
const (
	tnsStartHz       = 1400 // Lowest frequency a filter covers
	tnsOrderLong     = 12
	tnsOrderShort    = 7
	tnsMinPredGain   = 1.4 // Prediction gain below which no filter is sent
	tnsCoefRes       = 1   // 4-bit coefficients
	tnsMinRangeLines = 16
)

// tnsDecodeCoef converts transmitted TNS coefficients to LPC filter coefficients.
// Uses Levinson-Durbin recursion to convert reflection coefficients to direct form.
//
// Parameters:
//   - order: filter order (0-20)
//   - coefRes: coefficient resolution (0=3-bit, 1=4-bit)
//   - coefCompress: compression flag (0 or 1)
//   - coef: transmitted coefficient indices
//   - lpc: output LPC coefficients (must be len >= order+1)
func tnsDecodeCoef(order uint8, coefRes uint8, coefCompress uint8, coef []uint8, lpc []float64) {
	tnsCoef := getTNSCoefTable(coefCompress, coefRes)

	var k [TNSMaxOrder]float64
	for i := uint8(0); i < order; i++ {
		k[i] = tnsCoef[coef[i]]
	}

	lpc[0] = 1.0

	var b [TNSMaxOrder + 1]float64
	for m := uint8(1); m <= order; m++ {
		lpc[m] = k[m-1]
		for i := uint8(1); i < m; i++ {
			b[i] = lpc[i] + lpc[m]*lpc[m-i]
		}
		for i := uint8(1); i < m; i++ {
			lpc[i] = b[i]
		}
	}
}

// tnsBandRange returns the first and end scalefactor band a filter may
// cover, following the limits a decoder applies: the TNS band limit of the
// sample rate and max_sfb.
func tnsBandRange(ics *syntax.ICStream, srIndex int) (start, end int) {
	short := ics.WindowSequence == syntax.EightShortSequence
	end = min(ics.NumSWB, tables.MaxTNSSFB(srIndex, short), ics.MaxSFB)

	sampleRate := int(tables.SampleRate(srIndex))
	for start < end && bandStartHz(ics, start, sampleRate) < tnsStartHz {
		start++
	}
	return start, end
}

// autocorrelation sets r[i] to the lag-i autocorrelation of x.
func autocorrelation(x, r []float64) {
	for lag := range r {
		acc := 0.0
		for n := lag; n < len(x); n++ {
			acc += x[n] * x[n-lag]
		}
		r[lag] = acc
	}
}

// levinson computes the reflection coefficients of the prediction error
// filter for the autocorrelation r and returns the prediction gain.
// k receives len(r)-1 coefficients.
func levinson(r, k []float64) float64 {
	order := len(r) - 1
	var a, tmp [TNSMaxOrder + 1]float64
	a[0] = 1

	errPow := r[0]
	for m := 1; m <= order; m++ {
		acc := r[m]
		for i := 1; i < m; i++ {
			acc += a[i] * r[m-i]
		}
		km := -acc / errPow
		k[m-1] = km

		for i := 1; i < m; i++ {
			tmp[i] = a[i] + km*a[m-i]
		}
		copy(a[1:m], tmp[1:m])
		a[m] = km

		errPow *= 1 - km*km
		if errPow <= r[0]*1e-12 {
			clear(k[m:])
			return r[0] / (r[0] * 1e-12)
		}
	}
	return r[0] / errPow
}

// quantizeReflection maps reflection coefficients to signed 4-bit indices
// and returns the order left after trailing zero indices are dropped.
func quantizeReflection(k []float64, index []int) int {
	n := 0
	for i, v := range k {
		var q int
		if v >= 0 {
			q = int(math.Floor(math.Asin(v)*tnsIQFac + 0.5))
		} else {
			q = int(math.Ceil(math.Asin(v)*tnsIQFacM - 0.5))
		}
		index[i] = min(max(q, -8), 7)
		if index[i] != 0 {
			n = i + 1
		}
	}
	return n
}

// AnalyzeTNS decides the TNS filters of a frame and applies them to spec,
// which is the window-major spectrum ics describes. The window layout and
// max_sfb must be set. ics.TNS and ics.TNSDataPresent are overwritten.
// It reports whether any filter was applied.
func AnalyzeTNS(ics *syntax.ICStream, spec []float64, srIndex int) bool {
	ics.TNS = syntax.TNSInfo{}
	ics.TNSDataPresent = false

	start, end := tnsBandRange(ics, srIndex)
	if start >= end {
		return false
	}
	lo, hi := ics.SWBOffset[start], ics.SWBOffset[end]
	maxOrder := tnsOrderLong
	if ics.WindowSequence == syntax.EightShortSequence {
		maxOrder = tnsOrderShort
	}
	if hi-lo < max(tnsMinRangeLines, 2*maxOrder) {
		return false
	}

	var (
		r     [TNSMaxOrder + 1]float64
		k     [TNSMaxOrder]float64
		index [TNSMaxOrder]int
		lpc   [TNSMaxOrder + 1]float64
	)
	tns := &ics.TNS
	winLen := ics.WindowLength()

	for w := 0; w < ics.NumWindows; w++ {
		x := spec[w*winLen+lo : w*winLen+hi]
		autocorrelation(x, r[:maxOrder+1])
		if r[0] == 0 {
			continue
		}
		if levinson(r[:maxOrder+1], k[:maxOrder]) < tnsMinPredGain {
			continue
		}
		order := quantizeReflection(k[:maxOrder], index[:maxOrder])
		if order == 0 {
			continue
		}

		// Indices in [-4, 3] fit 3 bits: send them compressed.
		compress := uint8(1)
		for _, q := range index[:order] {
			if q < -4 || q > 3 {
				compress = 0
				break
			}
		}
		mask := 0xF >> compress
		for i, q := range index[:order] {
			tns.Coef[w][0][i] = uint8(q & mask)
		}

		tns.NFilt[w] = 1
		tns.CoefRes[w] = tnsCoefRes
		tns.Length[w][0] = uint8(ics.NumSWB - start)
		tns.Order[w][0] = uint8(order)
		tns.Direction[w][0] = 0
		tns.CoefCompress[w][0] = compress

		tnsDecodeCoef(uint8(order), tnsCoefRes, compress, tns.Coef[w][0][:], lpc[:])
		tnsMAFilter(x, lpc[:order+1])
		ics.TNSDataPresent = true
	}
	return ics.TNSDataPresent
}

// tnsMAFilter applies the all-zero analysis filter in place, upward:
// y[n] = x[n] + sum lpc[i]*x[n-i].
func tnsMAFilter(x, lpc []float64) {
	order := len(lpc) - 1
	for n := len(x) - 1; n >= 0; n-- {
		acc := x[n]
		for i := 1; i <= order && i <= n; i++ {
			acc += lpc[i] * x[n-i]
		}
		x[n] = acc
	}
}

// tnsARFilter applies the all-pole synthesis filter, the inverse of
// tnsMAFilter, to size lines starting at spec[start] and stepping by inc.
func tnsARFilter(spec []float64, start, size, inc int, lpc []float64) {
	order := len(lpc) - 1
	var state [TNSMaxOrder]float64
	k := start
	for n := 0; n < size; n++ {
		y := spec[k]
		for j := 0; j < order; j++ {
			y -= state[j] * lpc[j+1]
		}
		for j := order - 1; j > 0; j-- {
			state[j] = state[j-1]
		}
		if order > 0 {
			state[0] = y
		}
		spec[k] = y
		k += inc
	}
}

// TNSDecode undoes the TNS filters signalled in ics on the window-major
// spectrum spec.
func TNSDecode(ics *syntax.ICStream, spec []float64, srIndex int) {
	if !ics.TNSDataPresent {
		return
	}
	short := ics.WindowSequence == syntax.EightShortSequence
	maxTNS := min(tables.MaxTNSSFB(srIndex, short), ics.MaxSFB)
	winLen := ics.WindowLength()
	tns := &ics.TNS

	var lpc [TNSMaxOrder + 1]float64
	for w := 0; w < ics.NumWindows; w++ {
		bottom := ics.NumSWB
		for f := 0; f < int(tns.NFilt[w]); f++ {
			top := bottom
			bottom = max(top-int(tns.Length[w][f]), 0)
			order := min(tns.Order[w][f], TNSMaxOrder)
			if order == 0 {
				continue
			}
			tnsDecodeCoef(order, tns.CoefRes[w], tns.CoefCompress[w][f], tns.Coef[w][f][:], lpc[:])

			start := ics.SWBOffset[min(bottom, maxTNS)]
			end := ics.SWBOffset[min(top, maxTNS)]
			size := end - start
			if size <= 0 {
				continue
			}
			inc := 1
			if tns.Direction[w][f] != 0 {
				inc = -1
				start = end - 1
			}
			tnsARFilter(spec[w*winLen:(w+1)*winLen], start, size, inc, lpc[:order+1])
		}
	}
}
