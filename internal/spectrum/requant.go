package spectrum

import (
	"errors"
	"math"

	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// ErrQuantRange indicates a quantized value above the 8191 a decoder
// accepts.
var ErrQuantRange = errors.New("spectrum: quantized value out of range")

// ScaleFactorOffset is the scalefactor at which the quantizer step is 1.
const ScaleFactorOffset = 100

// maxQuant is the largest quantized magnitude.
const maxQuant = 8191

// pow43 caches |q|^(4/3) for the values the Huffman codebooks produce.
var pow43 = func() [16]float64 {
	var t [16]float64
	for i := range t {
		t[i] = math.Pow(float64(i), 4.0/3.0)
	}
	return t
}()

// Pow43 returns |q|^(4/3) with the sign of q.
func Pow43(q int) float64 {
	a := q
	if a < 0 {
		a = -a
	}
	var v float64
	if a < len(pow43) {
		v = pow43[a]
	} else {
		v = math.Pow(float64(a), 4.0/3.0)
	}
	if q < 0 {
		return -v
	}
	return v
}

// StepGain returns 2^((sf-100)/4), the amplitude of one quantizer step at
// scalefactor sf.
func StepGain(sf int) float64 {
	return math.Exp2(0.25 * float64(sf-ScaleFactorOffset))
}

// Dequantize converts the quantized spectrum of ics into spec:
// spec[i] = sign(q) * |q|^(4/3) * 2^((sf-100)/4). Lines of bands without
// spectral data are set to zero.
func Dequantize(ics *syntax.ICStream, spec []float64) error {
	clear(spec[:syntax.FrameLength])
	for g := 0; g < ics.NumWindowGroups; g++ {
		first := ics.GroupStart(g)
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			cb := ics.SFBCB[g][sfb]
			if cb == 0 || IsNoise(cb) || IsIntensity(cb) != 0 {
				continue
			}
			gain := StepGain(ics.ScaleFactors[g][sfb])
			for w := first; w < first+ics.WindowGroupLength[g]; w++ {
				q := ics.Band(w, sfb)
				out := bandLines(ics, spec, w, sfb)
				for i, v := range q {
					if v > maxQuant || v < -maxQuant {
						return ErrQuantRange
					}
					out[i] = Pow43(int(v)) * gain
				}
			}
		}
	}
	return nil
}
