package quant

import (
	"math"

	"github.com/llehouerou/go-aacenc/internal/huffman"
	"github.com/llehouerou/go-aacenc/internal/spectrum"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// Quantizer constants.
const (
	// roundingBias is the rounding offset of the x^(3/4) quantizer, chosen
	// to minimise the error after |q|^(4/3) reconstruction.
	roundingBias = 0.4054

	MinScaleFactor = 0
	MaxScaleFactor = 255

	// MaxDelta is the largest scalefactor difference between two coded
	// bands.
	MaxDelta = huffman.SFDeltaMax

	sfSearchSpan = 120 // Scalefactors above the finest legal one to search
)

// Allowed holds the allowed noise energy per group and band.
type Allowed [syntax.MaxWindowGroups][syntax.MaxSFB]float64

// Channel is the quantizer input of one channel stream: the layout and
// side information in ICS, the spectrum to code in Spec (window-major) and
// the allowed noise per band.
type Channel struct {
	ICS     *syntax.ICStream
	Spec    []float64
	Allowed *Allowed
}

// quantizeLine returns the quantized magnitude of |x| / gain.
func quantizeLine(a, invGain float64) int {
	return int(math.Pow(a*invGain, 0.75) + roundingBias)
}

// band is the view on one group band the search works on.
type band struct {
	lines [][]float64 // One slice per window of the group
	quant [][]int16
}

func (b *band) maxAbs() float64 {
	m := 0.0
	for _, l := range b.lines {
		for _, v := range l {
			m = math.Max(m, math.Abs(v))
		}
	}
	return m
}

func (b *band) energy() float64 {
	e := 0.0
	for _, l := range b.lines {
		for _, v := range l {
			e += v * v
		}
	}
	return e
}

// noise returns the error energy and the largest magnitude of quantizing
// the band at scalefactor sf.
func (b *band) noise(sf int) (float64, int) {
	gain := spectrum.StepGain(sf)
	inv := 1 / gain
	n := 0.0
	maxQ := 0
	for _, l := range b.lines {
		for _, v := range l {
			a := math.Abs(v)
			q := quantizeLine(a, inv)
			maxQ = max(maxQ, q)
			d := a - spectrum.Pow43(q)*gain
			n += d * d
		}
	}
	return n, maxQ
}

// quantize writes the band at scalefactor sf and reports whether any line
// is non-zero. Magnitudes are clamped to the escape range.
func (b *band) quantize(sf int) bool {
	inv := 1 / spectrum.StepGain(sf)
	nonZero := false
	for w, l := range b.lines {
		for i, v := range l {
			q := quantizeLine(math.Abs(v), inv)
			q = min(q, huffman.MaxEscValue)
			if v < 0 {
				q = -q
			}
			b.quant[w][i] = int16(q)
			nonZero = nonZero || q != 0
		}
	}
	return nonZero
}

func (b *band) clear() {
	for _, q := range b.quant {
		clear(q)
	}
}

// bitCost returns the spectral bits of the quantized band in cb, or -1 when
// a line is outside the range of cb.
func (b *band) bitCost(cb huffman.Codebook) int {
	n := 0
	for _, q := range b.quant {
		k, err := huffman.SpectralBits(cb, q)
		if err != nil {
			return -1
		}
		n += k
	}
	return n
}

// codebook returns the cheaper of codebooks 8 and 11 for the quantized
// band.
func (b *band) codebook() huffman.Codebook {
	if n8 := b.bitCost(huffman.PairHCB); n8 >= 0 && n8 <= b.bitCost(huffman.EscHCB) {
		return huffman.PairHCB
	}
	return huffman.EscHCB
}

// minScaleFactor returns the finest scalefactor at which no line of the
// band exceeds the codebook range.
func (b *band) minScaleFactor() int {
	xmax := b.maxAbs()
	if xmax == 0 {
		return MinScaleFactor
	}
	limit := math.Pow(huffman.MaxEscValue+1-roundingBias, 4.0/3.0)
	sf := int(math.Floor(spectrum.ScaleFactorOffset + 4*math.Log2(xmax/limit)))
	sf = max(sf, MinScaleFactor)
	for sf < MaxScaleFactor && quantizeLine(xmax, 1/spectrum.StepGain(sf)) > huffman.MaxEscValue {
		sf++
	}
	return sf
}

// searchScaleFactor returns the coarsest scalefactor whose quantization
// noise stays below allowed, or the finest legal one when none does.
// The noise is taken as non-decreasing in sf.
func (b *band) searchScaleFactor(allowed float64) int {
	lo := b.minScaleFactor()
	if n, _ := b.noise(lo); n > allowed {
		return lo
	}
	hi := min(lo+sfSearchSpan, MaxScaleFactor)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if n, _ := b.noise(mid); n <= allowed {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func groupBand(ics *syntax.ICStream, spec []float64, g, sfb int, b *band) {
	b.lines = b.lines[:0]
	b.quant = b.quant[:0]
	first := ics.GroupStart(g)
	base := ics.WindowLength()
	for w := first; w < first+ics.WindowGroupLength[g]; w++ {
		lo, hi := w*base+ics.SWBOffset[sfb], w*base+ics.SWBOffset[sfb+1]
		b.lines = append(b.lines, spec[lo:hi])
		b.quant = append(b.quant, ics.Quant[lo:hi])
	}
}

// isCoded reports whether cb carries spectral data.
func isCoded(cb huffman.Codebook) bool {
	return huffman.MaxValue(cb) != 0
}

// isFixed reports whether the band codebook was set by a spectral tool.
func isFixed(cb huffman.Codebook) bool {
	return spectrum.IsNoise(cb) || spectrum.IsIntensity(cb) != 0
}

// Quantize chooses the scalefactors of the spectral bands of ch with the
// allowed noise multiplied by noiseScale, quantizes the spectrum and sets
// the codebooks. Bands the spectral tools coded as noise or intensity keep
// their codebook and value. Lines above max_sfb are cleared.
//
// Each band takes the cheaper of codebooks 8 and 11, and runs of codebook 8
// are folded into neighbouring codebook 11 sections when that saves bits.
//
// The scalefactors are then fitted to the bitstream: no coded band is
// below the largest by more than MaxDelta, global_gain is the first coded
// scalefactor, and noise energies are kept within what their differential
// coding can carry.
func Quantize(ch *Channel, noiseScale float64) {
	ics := ch.ICS
	clear(ics.Quant[:])

	var b band
	top := math.MinInt
	for g := 0; g < ics.NumWindowGroups; g++ {
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			if isFixed(ics.SFBCB[g][sfb]) {
				continue
			}
			ics.SFBCB[g][sfb] = huffman.ZeroHCB
			ics.ScaleFactors[g][sfb] = 0

			groupBand(ics, ch.Spec, g, sfb, &b)
			allowed := ch.Allowed[g][sfb] * noiseScale
			if e := b.energy(); e == 0 || e <= allowed {
				continue
			}
			sf := b.searchScaleFactor(allowed)
			if !b.quantize(sf) {
				continue
			}
			ics.SFBCB[g][sfb] = b.codebook()
			ics.ScaleFactors[g][sfb] = sf
			top = max(top, sf)
		}
	}

	if top != math.MinInt {
		limitSpread(ch, top)
	}
	mergeSections(ch)
	setGlobalGain(ics)
	fitNoiseEnergies(ics)
}

// limitSpread raises every coded scalefactor below top-MaxDelta to that
// floor and requantizes the band, which keeps all deltas codable. Raising
// never pushes a line out of the codebook range.
func limitSpread(ch *Channel, top int) {
	ics := ch.ICS
	floor := top - MaxDelta
	var b band
	for g := 0; g < ics.NumWindowGroups; g++ {
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			if !isCoded(ics.SFBCB[g][sfb]) || ics.ScaleFactors[g][sfb] >= floor {
				continue
			}
			groupBand(ics, ch.Spec, g, sfb, &b)
			if b.quantize(floor) {
				ics.SFBCB[g][sfb] = b.codebook()
				ics.ScaleFactors[g][sfb] = floor
			} else {
				b.clear()
				ics.SFBCB[g][sfb] = huffman.ZeroHCB
				ics.ScaleFactors[g][sfb] = 0
			}
		}
	}
}

// mergeSections recodes a run of codebook 8 bands with codebook 11 when the
// bits this adds are fewer than the section headers it saves.
func mergeSections(ch *Channel) {
	ics := ch.ICS
	header := syntax.SectionHeaderBits(ics)
	var b band
	for g := 0; g < ics.NumWindowGroups; g++ {
		cbs := &ics.SFBCB[g]
		for sfb := 0; sfb < ics.MaxSFB; {
			if cbs[sfb] != huffman.PairHCB {
				sfb++
				continue
			}
			end := sfb + 1
			for end < ics.MaxSFB && cbs[end] == huffman.PairHCB {
				end++
			}
			saved := 0
			if sfb > 0 && cbs[sfb-1] == huffman.EscHCB {
				saved += header
			}
			if end < ics.MaxSFB && cbs[end] == huffman.EscHCB {
				saved += header
			}
			extra := 0
			for k := sfb; k < end && extra < saved; k++ {
				groupBand(ics, ch.Spec, g, k, &b)
				extra += b.bitCost(huffman.EscHCB) - b.bitCost(huffman.PairHCB)
			}
			if extra < saved {
				for k := sfb; k < end; k++ {
					cbs[k] = huffman.EscHCB
				}
			}
			sfb = end
		}
	}
}

// setGlobalGain sets global_gain to the first coded scalefactor. Without
// spectral bands it is chosen so that the first noise energy is codable.
func setGlobalGain(ics *syntax.ICStream) {
	firstNoise, haveNoise := 0, false
	for g := 0; g < ics.NumWindowGroups; g++ {
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			switch cb := ics.SFBCB[g][sfb]; {
			case isCoded(cb):
				ics.GlobalGain = ics.ScaleFactors[g][sfb]
				return
			case spectrum.IsNoise(cb) && !haveNoise:
				firstNoise, haveNoise = ics.ScaleFactors[g][sfb], true
			}
		}
	}
	if haveNoise {
		ics.GlobalGain = min(max(firstNoise+syntax.NoiseOffset, MinScaleFactor), MaxScaleFactor)
		return
	}
	ics.GlobalGain = spectrum.ScaleFactorOffset
}

// fitNoiseEnergies clamps the first noise energy into the 9-bit range
// around global_gain and every following one to within MaxDelta of its
// predecessor.
func fitNoiseEnergies(ics *syntax.ICStream) {
	prev := ics.GlobalGain - syntax.NoiseOffset
	first := true
	for g := 0; g < ics.NumWindowGroups; g++ {
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			if !spectrum.IsNoise(ics.SFBCB[g][sfb]) {
				continue
			}
			v := ics.ScaleFactors[g][sfb]
			if first {
				v = min(max(v, prev-256), prev+255)
				first = false
			} else {
				v = min(max(v, prev-MaxDelta), prev+MaxDelta)
			}
			ics.ScaleFactors[g][sfb] = v
			prev = v
		}
	}
}
