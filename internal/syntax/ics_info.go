package syntax

import (
	"github.com/llehouerou/go-aacenc/internal/bits"
)

// WriteICSInfo writes the ics_info() element. predictor_data_present is
// always 0.
func WriteICSInfo(w *bits.Writer, ics *ICStream) {
	w.PutBits(0, 1) // ics_reserved_bit
	w.PutBits(uint32(ics.WindowSequence), 2)
	w.PutBits(uint32(ics.WindowShape), 1)

	if ics.WindowSequence == EightShortSequence {
		w.PutBits(uint32(ics.MaxSFB), 4)
		w.PutBits(uint32(ics.ScaleFactorGrouping), 7)
	} else {
		w.PutBits(uint32(ics.MaxSFB), 6)
		w.PutBits(0, 1) // predictor_data_present
	}
}

// ParseICSInfo parses the ics_info() element from the bitstream and
// derives the window grouping.
func ParseICSInfo(r *bits.Reader, ics *ICStream, srIndex int) error {
	if r.Get1Bit() != 0 {
		return ErrICSReservedBit
	}

	ics.WindowSequence = WindowSequence(r.GetBits(2))
	ics.WindowShape = r.Get1Bit()

	if ics.WindowSequence == EightShortSequence {
		ics.MaxSFB = int(r.GetBits(4))
		ics.ScaleFactorGrouping = uint8(r.GetBits(7))
	} else {
		ics.MaxSFB = int(r.GetBits(6))
	}

	if err := WindowGroupingInfo(ics, srIndex); err != nil {
		return err
	}

	if ics.WindowSequence != EightShortSequence && r.Get1Bit() != 0 {
		return ErrUnsupportedTool
	}
	if r.Error() {
		return ErrBitstreamRead
	}
	return nil
}
