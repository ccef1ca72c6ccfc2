package syntax

import (
	"github.com/llehouerou/go-aacenc/internal/bits"
	"github.com/llehouerou/go-aacenc/internal/huffman"
)

// scaleFactorDeltas walks the bands in bitstream order and reports, for
// every coded band, the value to code: a Huffman delta or, for the first
// PNS band, the 9-bit PCM value (pcm set).
//
// The three running values are kept apart: scalefactors start at
// global_gain, intensity positions at 0 and noise energies at
// global_gain - 90.
func scaleFactorDeltas(ics *ICStream, emit func(v int, pcm bool) error) error {
	scaleFactor := ics.GlobalGain
	isPosition := 0
	noiseEnergy := ics.GlobalGain - NoiseOffset
	noisePCM := true

	for g := 0; g < ics.NumWindowGroups; g++ {
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			v := ics.ScaleFactors[g][sfb]
			var err error

			switch ics.SFBCB[g][sfb] {
			case huffman.ZeroHCB:
				continue
			case huffman.IntensityHCB, huffman.IntensityHCB2:
				err = emit(v-isPosition, false)
				isPosition = v
			case huffman.NoiseHCB:
				if noisePCM {
					noisePCM = false
					t := v - noiseEnergy + 256
					if t < 0 || t > 511 {
						return ErrNoiseEnergyRange
					}
					err = emit(t, true)
				} else {
					err = emit(v-noiseEnergy, false)
				}
				noiseEnergy = v
			default:
				if v < 0 || v > 255 {
					return ErrScaleFactorRange
				}
				err = emit(v-scaleFactor, false)
				scaleFactor = v
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteScaleFactorData writes scale_factor_data().
func WriteScaleFactorData(w *bits.Writer, ics *ICStream) error {
	return scaleFactorDeltas(ics, func(v int, pcm bool) error {
		if pcm {
			w.PutBits(uint32(v), 9)
			return nil
		}
		if err := huffman.WriteScaleFactor(w, v); err != nil {
			return ErrScaleFactorDelta
		}
		return nil
	})
}

// ScaleFactorDataBits returns the size of scale_factor_data() in bits.
func ScaleFactorDataBits(ics *ICStream) (int, error) {
	total := 0
	err := scaleFactorDeltas(ics, func(v int, pcm bool) error {
		if pcm {
			total += 9
			return nil
		}
		if v < -huffman.SFDeltaMax || v > huffman.SFDeltaMax {
			return ErrScaleFactorDelta
		}
		total += huffman.ScaleFactorBits(v)
		return nil
	})
	return total, err
}

// DecodeScaleFactors decodes scale factors from the bitstream.
// Scale factors are differentially coded relative to the global gain.
//
// The algorithm maintains three separate running totals:
//   - scaleFactor: for spectral codebooks
//   - isPosition: for intensity stereo codebooks (14, 15)
//   - noiseEnergy: for noise (PNS) codebook (13)
//
// Zero codebook (0) results in scale factor 0.
func DecodeScaleFactors(r *bits.Reader, ics *ICStream) error {
	scaleFactor := ics.GlobalGain
	isPosition := 0
	noisePCMFlag := true
	noiseEnergy := ics.GlobalGain - NoiseOffset

	for g := 0; g < ics.NumWindowGroups; g++ {
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			switch ics.SFBCB[g][sfb] {
			case huffman.ZeroHCB:
				ics.ScaleFactors[g][sfb] = 0

			case huffman.IntensityHCB, huffman.IntensityHCB2:
				delta, err := huffman.ScaleFactor(r)
				if err != nil {
					return err
				}
				isPosition += delta
				ics.ScaleFactors[g][sfb] = isPosition

			case huffman.NoiseHCB:
				if noisePCMFlag {
					noisePCMFlag = false
					noiseEnergy += int(r.GetBits(9)) - 256
				} else {
					delta, err := huffman.ScaleFactor(r)
					if err != nil {
						return err
					}
					noiseEnergy += delta
				}
				ics.ScaleFactors[g][sfb] = noiseEnergy

			default:
				delta, err := huffman.ScaleFactor(r)
				if err != nil {
					return err
				}
				scaleFactor += delta
				if scaleFactor < 0 || scaleFactor > 255 {
					return ErrScaleFactorRange
				}
				ics.ScaleFactors[g][sfb] = scaleFactor
			}
		}
	}

	if r.Error() {
		return ErrBitstreamRead
	}
	return nil
}
