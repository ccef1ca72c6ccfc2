package spectrum

import "github.com/llehouerou/go-aacenc/internal/syntax"

// Reconstruct turns a parsed SCE or LFE stream back into spectral lines
// ready for the synthesis filterbank.
//
// Processing order:
// 1. Inverse quantization and scalefactors
// 2. PNS (noise substitution)
// 3. TNS (temporal noise shaping)
func Reconstruct(ics *syntax.ICStream, spec []float64, srIndex int, noise *Noise) error {
	if err := Dequantize(ics, spec); err != nil {
		return err
	}
	if ics.NoiseUsed {
		PNSDecode(ics, nil, spec, nil, noise)
	}
	TNSDecode(ics, spec, srIndex)
	return nil
}

// ReconstructPair is the CPE counterpart of Reconstruct. M/S and
// intensity stereo are only possible with a common window.
//
// Processing order:
// 1. Inverse quantization and scalefactors of both channels
// 2. PNS
// 3. M/S stereo
// 4. Intensity stereo
// 5. TNS per channel
func ReconstructPair(e *syntax.Element, lSpec, rSpec []float64, srIndex int, noise *Noise) error {
	left, right := &e.ICS1, &e.ICS2
	if err := Dequantize(left, lSpec); err != nil {
		return err
	}
	if err := Dequantize(right, rSpec); err != nil {
		return err
	}

	if e.CommonWindow {
		if left.NoiseUsed || right.NoiseUsed {
			PNSDecode(left, right, lSpec, rSpec, noise)
		}
		MSDecode(left, right, lSpec, rSpec)
		ISDecode(left, right, lSpec, rSpec)
	} else {
		if left.NoiseUsed {
			PNSDecode(left, nil, lSpec, nil, noise)
		}
		if right.NoiseUsed {
			PNSDecode(right, nil, rSpec, nil, noise)
		}
	}

	TNSDecode(left, lSpec, srIndex)
	TNSDecode(right, rSpec, srIndex)
	return nil
}
