package syntax

import (
	"github.com/llehouerou/go-aacenc/internal/bits"
	"github.com/llehouerou/go-aacenc/internal/huffman"
)

// isSpectral reports whether bands coded with cb carry spectral data.
func isSpectral(cb huffman.Codebook) bool {
	switch cb {
	case huffman.ZeroHCB, huffman.NoiseHCB, huffman.IntensityHCB, huffman.IntensityHCB2:
		return false
	default:
		return true
	}
}

// WriteSpectralData writes spectral_data(). Within a group the bands are
// coded in order and each band is coded window by window, which is the
// interleaving the section offsets of a grouped frame describe.
func WriteSpectralData(w *bits.Writer, ics *ICStream) error {
	for g := 0; g < ics.NumWindowGroups; g++ {
		first := ics.GroupStart(g)
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			cb := ics.SFBCB[g][sfb]
			if !isSpectral(cb) {
				continue
			}
			if huffman.MaxValue(cb) == 0 {
				return ErrUnsupportedCodebook
			}
			for win := first; win < first+ics.WindowGroupLength[g]; win++ {
				if err := huffman.WriteSpectral(w, cb, ics.Band(win, sfb)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// SpectralDataBits returns the size of spectral_data() in bits.
func SpectralDataBits(ics *ICStream) (int, error) {
	total := 0
	for g := 0; g < ics.NumWindowGroups; g++ {
		first := ics.GroupStart(g)
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			cb := ics.SFBCB[g][sfb]
			if !isSpectral(cb) {
				continue
			}
			for win := first; win < first+ics.WindowGroupLength[g]; win++ {
				n, err := huffman.SpectralBits(cb, ics.Band(win, sfb))
				if err == huffman.ErrCodebook {
					return 0, ErrUnsupportedCodebook
				}
				if err != nil {
					return 0, err
				}
				total += n
			}
		}
	}
	return total, nil
}

// ParseSpectralData decodes spectral coefficients into ics.Quant. Lines of
// bands without spectral data are left at zero.
func ParseSpectralData(r *bits.Reader, ics *ICStream) error {
	clear(ics.Quant[:])

	for g := 0; g < ics.NumWindowGroups; g++ {
		first := ics.GroupStart(g)
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			cb := ics.SFBCB[g][sfb]
			if !isSpectral(cb) {
				continue
			}
			if huffman.MaxValue(cb) == 0 {
				return ErrUnsupportedCodebook
			}
			for win := first; win < first+ics.WindowGroupLength[g]; win++ {
				if err := huffman.SpectralData(r, cb, ics.Band(win, sfb)); err != nil {
					return ErrBitstreamRead
				}
			}
		}
	}

	if r.Error() {
		return ErrBitstreamRead
	}
	return nil
}
