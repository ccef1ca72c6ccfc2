package syntax

import "github.com/llehouerou/go-aacenc/internal/bits"

// FillElementBits returns the size in bits of a fill element carrying
// count payload bytes, element id included.
func FillElementBits(count int) int {
	n := LenSEID + 4 + LenByte*count
	if count >= 15 {
		n += LenByte
	}
	return n
}

// WriteFillElement writes one fill element with count payload bytes:
// an EXT_FIL extension whose fill bytes are 10100101.
func WriteFillElement(w *bits.Writer, count int) error {
	if count < 0 || count > MaxFillCount {
		return ErrFillCount
	}

	w.PutBits(uint32(IDFIL), LenSEID)
	if count < 15 {
		w.PutBits(uint32(count), 4)
	} else {
		w.PutBits(15, 4)
		w.PutBits(uint32(count-14), LenByte) // esc_count
	}
	if count == 0 {
		return nil
	}

	w.PutBits(uint32(ExtFil), 4)
	w.PutBits(0, 4) // fill_nibble
	for i := 1; i < count; i++ {
		w.PutBits(FillByte, LenByte)
	}
	return nil
}

// WriteFill writes fill elements totalling at least minBits bits and
// returns the number of bits written.
func WriteFill(w *bits.Writer, minBits int) (int, error) {
	written := 0
	for written < minBits {
		remaining := minBits - written
		count := 0
		if remaining > LenSEID+4 {
			count = (remaining - (LenSEID + 4) + LenByte - 1) / LenByte
		}
		if count >= 15 {
			count = (remaining - (LenSEID + 4 + LenByte) + LenByte - 1) / LenByte
			count = max(count, 15)
		}
		count = min(count, MaxFillCount)
		if err := WriteFillElement(w, count); err != nil {
			return written, err
		}
		written += FillElementBits(count)
	}
	return written, nil
}

// ParseFillElement parses a fill element after its id and returns the
// payload size in bytes. The payload is skipped.
func ParseFillElement(r *bits.Reader) (int, error) {
	count := int(r.GetBits(4))
	if count == 15 {
		count += int(r.GetBits(LenByte)) - 1
	}
	r.FlushBits(uint(count) * LenByte)
	if r.Error() {
		return 0, ErrBitstreamRead
	}
	return count, nil
}
