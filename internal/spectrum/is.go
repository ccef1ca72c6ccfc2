package spectrum

import (
	"math"

	"github.com/llehouerou/go-aacenc/internal/huffman"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// Intensity stereo parameters.
const (
	isStartHz        = 6000
	isMinCorrelation = 0.9
	isMaxPosition    = 30 // Keeps every position delta codable
)

// ISEncode codes the strongly correlated bands above 6 kHz of a common
// window channel pair with intensity stereo. The left spectrum of such a
// band is replaced by the energy-preserving combination of both channels,
// the right spectrum is cleared, and the right stream receives the
// intensity codebook and position. It reports whether any band was coded.
func ISEncode(left, right *syntax.ICStream, lSpec, rSpec []float64, sampleRate int) bool {
	right.IsUsed = false
	for g := 0; g < left.NumWindowGroups; g++ {
		first := left.GroupStart(g)
		last := first + left.WindowGroupLength[g]
		for sfb := 0; sfb < left.MaxSFB; sfb++ {
			if bandStartHz(left, sfb, sampleRate) < isStartHz {
				continue
			}

			var eL, eR, cross float64
			for w := first; w < last; w++ {
				l := bandLines(left, lSpec, w, sfb)
				r := bandLines(left, rSpec, w, sfb)
				for i := range l {
					eL += l[i] * l[i]
					eR += r[i] * r[i]
					cross += l[i] * r[i]
				}
			}
			if eL == 0 || eR == 0 {
				continue
			}
			corr := cross / math.Sqrt(eL*eR)
			if math.Abs(corr) < isMinCorrelation {
				continue
			}

			sign := 1.0
			cb := huffman.IntensityHCB
			if corr < 0 {
				sign = -1
				cb = huffman.IntensityHCB2
			}

			// The decoder scales the left lines by 2^(-pos/4) for the right
			// channel, so the position is twice the log2 energy ratio.
			pos := int(math.Round(2 * math.Log2(eL/eR)))
			pos = min(max(pos, -isMaxPosition), isMaxPosition)

			eSum := 0.0
			for w := first; w < last; w++ {
				l := bandLines(left, lSpec, w, sfb)
				r := bandLines(left, rSpec, w, sfb)
				for i := range l {
					l[i] += sign * r[i]
					eSum += l[i] * l[i]
				}
				clear(r)
			}
			gain := math.Sqrt(eL / eSum)
			for w := first; w < last; w++ {
				l := bandLines(left, lSpec, w, sfb)
				for i := range l {
					l[i] *= gain
				}
			}

			right.SFBCB[g][sfb] = cb
			right.ScaleFactors[g][sfb] = pos
			right.IsUsed = true
		}
	}
	return right.IsUsed
}

// invertIntensity returns -1 when the M/S mask of left flips the intensity
// direction of a band.
func invertIntensity(left *syntax.ICStream, g, sfb int) float64 {
	if left.MSMaskPresent == 1 && left.MSUsed[g][sfb] {
		return -1
	}
	return 1
}

// ISDecode applies intensity stereo decoding to spectral coefficients.
// The right channel spectrum is reconstructed from the left channel
// for bands coded with intensity stereo (INTENSITY_HCB or INTENSITY_HCB2).
//
// The left channel is NOT modified; only the right channel is written.
func ISDecode(left, right *syntax.ICStream, lSpec, rSpec []float64) {
	for g := 0; g < right.NumWindowGroups; g++ {
		first := right.GroupStart(g)
		for sfb := 0; sfb < right.MaxSFB; sfb++ {
			dir := IsIntensity(right.SFBCB[g][sfb])
			if dir == 0 {
				continue
			}
			scale := math.Pow(0.5, 0.25*float64(right.ScaleFactors[g][sfb]))
			scale *= float64(dir) * invertIntensity(left, g, sfb)

			for w := first; w < first+right.WindowGroupLength[g]; w++ {
				l := bandLines(right, lSpec, w, sfb)
				r := bandLines(right, rSpec, w, sfb)
				for i := range r {
					r[i] = l[i] * scale
				}
			}
		}
	}
}
