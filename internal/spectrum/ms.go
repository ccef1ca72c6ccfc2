package spectrum

import "github.com/llehouerou/go-aacenc/internal/syntax"

// msMaxRatio is the largest ratio between the weaker and the stronger of
// the mid and side energies at which a band is coded as M/S.
const msMaxRatio = 0.3

// MSEncode decides the M/S mask of a common window channel pair and
// transforms the selected bands in place to M = (L+R)/2 and S = (L-R)/2.
// Bands the right channel codes with intensity stereo stay untouched.
// The mask is stored in left; ms_mask_present becomes 2 when every other
// band uses M/S.
func MSEncode(left, right *syntax.ICStream, lSpec, rSpec []float64) {
	left.MSMaskPresent = 0
	left.MSUsed = [syntax.MaxWindowGroups][syntax.MaxSFB]bool{}

	used, candidates := 0, 0
	for g := 0; g < left.NumWindowGroups; g++ {
		first := left.GroupStart(g)
		for sfb := 0; sfb < left.MaxSFB; sfb++ {
			if IsIntensity(right.SFBCB[g][sfb]) != 0 {
				continue
			}
			candidates++

			var eM, eS float64
			for w := first; w < first+left.WindowGroupLength[g]; w++ {
				l := bandLines(left, lSpec, w, sfb)
				r := bandLines(left, rSpec, w, sfb)
				for i := range l {
					m := (l[i] + r[i]) / 2
					s := (l[i] - r[i]) / 2
					eM += m * m
					eS += s * s
				}
			}
			if eM+eS == 0 || min(eM, eS) > msMaxRatio*max(eM, eS) {
				continue
			}

			left.MSUsed[g][sfb] = true
			used++
			for w := first; w < first+left.WindowGroupLength[g]; w++ {
				l := bandLines(left, lSpec, w, sfb)
				r := bandLines(left, rSpec, w, sfb)
				for i := range l {
					l[i], r[i] = (l[i]+r[i])/2, (l[i]-r[i])/2
				}
			}
		}
	}

	switch {
	case used == 0:
		left.MSMaskPresent = 0
	case used == candidates:
		left.MSMaskPresent = 2
	default:
		left.MSMaskPresent = 1
	}
}

// MSDecode applies Mid/Side stereo decoding to spectral coefficients in-place.
// Converts M/S encoded bands back to L/R: L = M + S, R = M - S
//
// M/S decoding is skipped for:
// - Bands where ms_mask_present = 0
// - Intensity stereo bands (handled by ISDecode)
// - Noise bands (handled by PNSDecode)
func MSDecode(left, right *syntax.ICStream, lSpec, rSpec []float64) {
	if left.MSMaskPresent < 1 {
		return
	}

	for g := 0; g < left.NumWindowGroups; g++ {
		first := left.GroupStart(g)
		for sfb := 0; sfb < left.MaxSFB; sfb++ {
			msEnabled := left.MSUsed[g][sfb] || left.MSMaskPresent == 2
			if !msEnabled || IsIntensity(right.SFBCB[g][sfb]) != 0 || IsNoise(left.SFBCB[g][sfb]) {
				continue
			}
			for w := first; w < first+left.WindowGroupLength[g]; w++ {
				l := bandLines(left, lSpec, w, sfb)
				r := bandLines(left, rSpec, w, sfb)
				for i := range l {
					l[i], r[i] = l[i]+r[i], l[i]-r[i]
				}
			}
		}
	}
}
