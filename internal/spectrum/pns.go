package spectrum

import (
	"math"

	"github.com/llehouerou/go-aacenc/internal/huffman"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// Noise substitution parameters.
const (
	pnsMaxLevel     = 10
	pnsMinLines     = 8     // Lines per group below which a band is never substituted
	pnsBaseHz       = 4000  // Start frequency at the highest level
	pnsHzPerLevel   = 1000  // Start frequency increase per level below the highest
	pnsBaseFlatness = 0.30  // Flatness threshold at level 0
	pnsFlatPerLevel = 0.015 // Threshold decrease per level
	pnsEnergyLimit  = 120   // Largest noise energy magnitude a decoder accepts
)

// spectralFlatness returns the ratio between the geometric and the
// arithmetic mean of the line energies of band sfb in group g, in [0, 1].
// Gaussian noise gives about 0.28, a pure tone close to 0.
func spectralFlatness(ics *syntax.ICStream, spec []float64, g, sfb int) float64 {
	first := ics.GroupStart(g)
	sumLog, sum := 0.0, 0.0
	n := 0
	for w := first; w < first+ics.WindowGroupLength[g]; w++ {
		for _, v := range bandLines(ics, spec, w, sfb) {
			e := v*v + 1e-9
			sumLog += math.Log(e)
			sum += e
			n++
		}
	}
	if n == 0 || sum == 0 {
		return 0
	}
	mean := sum / float64(n)
	return math.Exp(sumLog/float64(n)) / mean
}

// PNSEncode replaces noise-like bands above the level-dependent start
// frequency with a noise energy. Bands that already carry a special
// codebook, and bands coded as M/S in ms (the left stream of the pair, nil
// for single channels), are kept. Substituted bands get NoiseHCB, their
// energy in ScaleFactors and cleared lines in spec.
// It reports whether any band was substituted.
func PNSEncode(ics *syntax.ICStream, spec []float64, sampleRate, level int, ms *syntax.ICStream) bool {
	ics.NoiseUsed = false
	if level <= 0 {
		return false
	}
	level = min(level, pnsMaxLevel)
	startHz := pnsBaseHz + (pnsMaxLevel-level)*pnsHzPerLevel
	threshold := pnsBaseFlatness - pnsFlatPerLevel*float64(level)

	for g := 0; g < ics.NumWindowGroups; g++ {
		nwin := ics.WindowGroupLength[g]
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			if bandStartHz(ics, sfb, sampleRate) < startHz {
				continue
			}
			if ics.SFBCB[g][sfb] != huffman.ZeroHCB {
				continue
			}
			if ms != nil && ms.MSMaskPresent > 0 && (ms.MSMaskPresent == 2 || ms.MSUsed[g][sfb]) {
				continue
			}
			if ics.BandWidth(sfb)*nwin < pnsMinLines {
				continue
			}
			if spectralFlatness(ics, spec, g, sfb) < threshold {
				continue
			}

			e := groupEnergy(ics, spec, g, sfb) / float64(nwin)
			if e == 0 {
				continue
			}
			// A decoder generates lines of energy 2^(sf/2) per window.
			sf := int(math.Round(2 * math.Log2(e)))
			sf = min(max(sf, -pnsEnergyLimit), pnsEnergyLimit)

			first := ics.GroupStart(g)
			for w := first; w < first+nwin; w++ {
				clear(bandLines(ics, spec, w, sfb))
			}
			ics.SFBCB[g][sfb] = huffman.NoiseHCB
			ics.ScaleFactors[g][sfb] = sf
			ics.NoiseUsed = true
		}
	}
	return ics.NoiseUsed
}

// genRandVector fills spec with noise of energy 2^(scaleFactor/2).
func genRandVector(spec []float64, scaleFactor int, noise *Noise) {
	if len(spec) == 0 {
		return
	}
	sf := min(max(scaleFactor, -pnsEnergyLimit), pnsEnergyLimit)

	energy := 0.0
	for i := range spec {
		tmp := float64(int32(noise.Next()))
		spec[i] = tmp
		energy += tmp * tmp
	}
	if energy == 0 {
		return
	}
	scale := math.Pow(2.0, 0.25*float64(sf)) / math.Sqrt(energy)
	for i := range spec {
		spec[i] *= scale
	}
}

// PNSDecode generates the noise of the PNS bands of one stream, or of a
// common window channel pair when right is non-nil. A band that is noise in both
// channels of a pair with M/S set receives the same noise in both.
func PNSDecode(left, right *syntax.ICStream, lSpec, rSpec []float64, noise *Noise) {
	for g := 0; g < left.NumWindowGroups; g++ {
		first := left.GroupStart(g)
		for w := first; w < first+left.WindowGroupLength[g]; w++ {
			for sfb := 0; sfb < left.MaxSFB; sfb++ {
				if IsNoise(left.SFBCB[g][sfb]) {
					genRandVector(bandLines(left, lSpec, w, sfb), left.ScaleFactors[g][sfb], noise)
				}
				if right == nil || !IsNoise(right.SFBCB[g][sfb]) {
					continue
				}
				correlated := IsNoise(left.SFBCB[g][sfb]) &&
					(left.MSMaskPresent == 2 || (left.MSMaskPresent == 1 && left.MSUsed[g][sfb]))
				r := bandLines(right, rSpec, w, sfb)
				if correlated {
					l := bandLines(left, lSpec, w, sfb)
					scale := math.Pow(2.0, 0.25*float64(right.ScaleFactors[g][sfb]-left.ScaleFactors[g][sfb]))
					for i := range r {
						r[i] = l[i] * scale
					}
					continue
				}
				genRandVector(r, right.ScaleFactors[g][sfb], noise)
			}
		}
	}
}
