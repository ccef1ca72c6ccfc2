package huffman

import (
	"errors"

	"github.com/llehouerou/go-aacenc/internal/bits"
)

// ErrScaleFactorCode indicates a bit pattern that is not a scalefactor
// codeword.
var ErrScaleFactorCode = errors.New("huffman: invalid scalefactor codeword")

// sfCodes and sfBits form the scalefactor codebook, indexed by delta+60.
var sfCodes = [121]uint32{
	0x3ffe8, 0x3ffe6, 0x3ffe7, 0x3ffe5, 0x7fff5, 0x7fff1, 0x7ffed, 0x7fff6,
	0x7ffee, 0x7ffef, 0x7fff0, 0x7fffc, 0x7fffd, 0x7ffff, 0x7fffe, 0x7fff7,
	0x7fff8, 0x7fffb, 0x7fff9, 0x3ffe4, 0x7fffa, 0x3ffe3, 0x1ffef, 0x1fff0,
	0x0fff5, 0x1ffee, 0x0fff2, 0x0fff3, 0x0fff4, 0x0fff1, 0x07ff6, 0x07ff7,
	0x03ff9, 0x03ff5, 0x03ff7, 0x03ff3, 0x03ff6, 0x03ff2, 0x01ff7, 0x01ff5,
	0x00ff9, 0x00ff7, 0x00ff6, 0x007f9, 0x00ff4, 0x007f8, 0x003f9, 0x003f7,
	0x003f5, 0x001f8, 0x001f7, 0x000fa, 0x000f8, 0x000f6, 0x00079, 0x0003a,
	0x00038, 0x0001a, 0x0000b, 0x00004, 0x00000, 0x0000a, 0x0000c, 0x0001b,
	0x00039, 0x0003b, 0x00078, 0x0007a, 0x000f7, 0x000f9, 0x001f6, 0x001f9,
	0x003f4, 0x003f6, 0x003f8, 0x007f5, 0x007f4, 0x007f6, 0x007f7, 0x00ff5,
	0x00ff8, 0x01ff4, 0x01ff6, 0x01ff8, 0x03ff8, 0x03ff4, 0x0fff0, 0x07ff4,
	0x0fff6, 0x07ff5, 0x3ffe2, 0x7ffd9, 0x7ffda, 0x7ffdb, 0x7ffdc, 0x7ffdd,
	0x7ffde, 0x7ffd8, 0x7ffd2, 0x7ffd3, 0x7ffd4, 0x7ffd5, 0x7ffd6, 0x7fff2,
	0x7ffdf, 0x7ffe7, 0x7ffe8, 0x7ffe9, 0x7ffea, 0x7ffeb, 0x7ffe6, 0x7ffe0,
	0x7ffe1, 0x7ffe2, 0x7ffe3, 0x7ffe4, 0x7ffe5, 0x7ffd7, 0x7ffec, 0x7fff4,
	0x7fff3,
}

var sfBits = [121]uint8{
	18, 18, 18, 18, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19,
	19, 19, 19, 18, 19, 18, 17, 17, 16, 17, 16, 16, 16, 16, 15, 15,
	14, 14, 14, 14, 14, 14, 13, 13, 12, 12, 12, 11, 12, 11, 10, 10,
	10, 9, 9, 8, 8, 8, 7, 6, 6, 5, 4, 3, 1, 4, 4, 5,
	6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 10, 11, 11, 11, 11, 12,
	12, 13, 13, 13, 14, 14, 16, 15, 16, 15, 18, 19, 19, 19, 19, 19,
	19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19,
	19, 19, 19, 19, 19, 19, 19, 19, 19,
}

// sfDecode maps len<<24 | code to the codebook index.
var sfDecode = func() map[uint32]int {
	m := make(map[uint32]int, len(sfCodes))
	for i, c := range sfCodes {
		m[uint32(sfBits[i])<<24|c] = i
	}
	return m
}()

// ScaleFactorCode returns the codeword of a scalefactor delta in [-60, 60].
func ScaleFactorCode(delta int) Codeword {
	i := delta + sfIndexBias
	return Codeword{Code: sfCodes[i], Len: sfBits[i]}
}

// ScaleFactorBits returns the codeword length of delta, or a large value
// for deltas the codebook cannot represent.
func ScaleFactorBits(delta int) int {
	if delta < -SFDeltaMax || delta > SFDeltaMax {
		return 1 << 20
	}
	return int(sfBits[delta+sfIndexBias])
}

// WriteScaleFactor writes the codeword of delta.
func WriteScaleFactor(w *bits.Writer, delta int) error {
	if delta < -SFDeltaMax || delta > SFDeltaMax {
		return ErrValueRange
	}
	cw := ScaleFactorCode(delta)
	w.PutBits(cw.Code, uint(cw.Len))
	return nil
}

// ScaleFactor decodes a scalefactor delta in [-60, 60].
//
// Bits are read one at a time until the accumulated pattern matches a
// codeword; the code is complete, so at most 19 bits are consumed.
func ScaleFactor(r *bits.Reader) (int, error) {
	var code uint32
	for n := uint32(1); n <= 19; n++ {
		code = code<<1 | uint32(r.Get1Bit())
		if i, ok := sfDecode[n<<24|code]; ok {
			return i - sfIndexBias, nil
		}
	}
	return 0, ErrScaleFactorCode
}
