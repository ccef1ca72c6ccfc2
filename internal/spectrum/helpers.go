package spectrum

import (
	"github.com/llehouerou/go-aacenc/internal/huffman"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// IsIntensity returns the intensity stereo direction for a codebook.
// Returns 1 for in-phase (INTENSITY_HCB), -1 for out-of-phase (INTENSITY_HCB2), 0 otherwise.
func IsIntensity(cb huffman.Codebook) int {
	switch cb {
	case huffman.IntensityHCB:
		return 1
	case huffman.IntensityHCB2:
		return -1
	default:
		return 0
	}
}

// IsNoise returns true if the codebook indicates a PNS (noise) band.
func IsNoise(cb huffman.Codebook) bool {
	return cb == huffman.NoiseHCB
}

// bandLines returns the lines of band sfb in window w of a window-major
// spectrum.
func bandLines(ics *syntax.ICStream, spec []float64, w, sfb int) []float64 {
	base := w * ics.WindowLength()
	return spec[base+ics.SWBOffset[sfb] : base+ics.SWBOffset[sfb+1]]
}

// groupEnergy returns the energy of band sfb summed over the windows of
// group g.
func groupEnergy(ics *syntax.ICStream, spec []float64, g, sfb int) float64 {
	e := 0.0
	first := ics.GroupStart(g)
	for w := first; w < first+ics.WindowGroupLength[g]; w++ {
		for _, v := range bandLines(ics, spec, w, sfb) {
			e += v * v
		}
	}
	return e
}

// bandStartHz returns the lower edge frequency of band sfb.
func bandStartHz(ics *syntax.ICStream, sfb, sampleRate int) int {
	return ics.SWBOffset[sfb] * sampleRate / (2 * ics.WindowLength())
}
