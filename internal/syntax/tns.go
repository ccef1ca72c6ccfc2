package syntax

import "github.com/llehouerou/go-aacenc/internal/bits"

// TNSInfo contains Temporal Noise Shaping filter data.
// Up to 4 filters can be applied per window (1 for short windows).
type TNSInfo struct {
	NFilt        [MaxWindows]uint8                             // Number of filters per window (0-3 long, 0-1 short)
	CoefRes      [MaxWindows]uint8                             // Coefficient resolution (0: 3 bits, 1: 4 bits)
	Length       [MaxWindows][MaxTNSFilters]uint8              // Filter length in bands
	Order        [MaxWindows][MaxTNSFilters]uint8              // Filter order
	Direction    [MaxWindows][MaxTNSFilters]uint8              // Filter direction (0=upward, 1=downward)
	CoefCompress [MaxWindows][MaxTNSFilters]uint8              // Coefficient compression flag
	Coef         [MaxWindows][MaxTNSFilters][MaxTNSOrder]uint8 // Transmitted coefficient indices
}

// tnsFieldBits returns the n_filt, length and order field widths.
func tnsFieldBits(ics *ICStream) (nFiltBits, lengthBits, orderBits uint) {
	if ics.WindowSequence == EightShortSequence {
		return 1, 4, 3
	}
	return 2, 6, 5
}

// WriteTNSData writes tns_data().
//
// Bit widths depend on window type:
//   - Long windows: nFiltBits=2, lengthBits=6, orderBits=5
//   - Short windows: nFiltBits=1, lengthBits=4, orderBits=3
func WriteTNSData(w *bits.Writer, ics *ICStream, tns *TNSInfo) {
	nFiltBits, lengthBits, orderBits := tnsFieldBits(ics)

	for win := 0; win < ics.NumWindows; win++ {
		w.PutBits(uint32(tns.NFilt[win]), nFiltBits)
		if tns.NFilt[win] == 0 {
			continue
		}
		w.PutBits(uint32(tns.CoefRes[win]), 1)
		startCoefBits := uint(3 + tns.CoefRes[win])

		for f := 0; f < int(tns.NFilt[win]); f++ {
			w.PutBits(uint32(tns.Length[win][f]), lengthBits)
			w.PutBits(uint32(tns.Order[win][f]), orderBits)
			if tns.Order[win][f] == 0 {
				continue
			}
			w.PutBits(uint32(tns.Direction[win][f]), 1)
			w.PutBits(uint32(tns.CoefCompress[win][f]), 1)
			coefBits := startCoefBits - uint(tns.CoefCompress[win][f])
			for i := 0; i < int(tns.Order[win][f]); i++ {
				w.PutBits(uint32(tns.Coef[win][f][i]), coefBits)
			}
		}
	}
}

// ParseTNSData parses tns_data().
//
// Coefficient precision depends on coef_res and coef_compress:
//   - coef_res=0: start with 3-bit coefficients
//   - coef_res=1: start with 4-bit coefficients
//   - coef_compress=1: reduce coefficient bits by 1
func ParseTNSData(r *bits.Reader, ics *ICStream, tns *TNSInfo) error {
	nFiltBits, lengthBits, orderBits := tnsFieldBits(ics)

	for w := 0; w < ics.NumWindows; w++ {
		startCoefBits := uint(3)

		tns.NFilt[w] = uint8(r.GetBits(nFiltBits))

		if tns.NFilt[w] != 0 {
			tns.CoefRes[w] = r.Get1Bit()
			if tns.CoefRes[w] != 0 {
				startCoefBits = 4
			}
		}

		for filt := 0; filt < int(tns.NFilt[w]); filt++ {
			tns.Length[w][filt] = uint8(r.GetBits(lengthBits))
			tns.Order[w][filt] = uint8(r.GetBits(orderBits))
			if tns.Order[w][filt] > MaxTNSOrder {
				return ErrTNSOrder
			}

			if tns.Order[w][filt] != 0 {
				tns.Direction[w][filt] = r.Get1Bit()
				tns.CoefCompress[w][filt] = r.Get1Bit()

				coefBits := startCoefBits - uint(tns.CoefCompress[w][filt])
				for i := 0; i < int(tns.Order[w][filt]); i++ {
					tns.Coef[w][filt][i] = uint8(r.GetBits(coefBits))
				}
			}
		}
	}

	if r.Error() {
		return ErrBitstreamRead
	}
	return nil
}
