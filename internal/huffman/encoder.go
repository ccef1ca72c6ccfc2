package huffman

import (
	"errors"

	"github.com/llehouerou/go-aacenc/internal/bits"
)

// ErrValueRange indicates a value outside the range of a codebook.
var ErrValueRange = errors.New("huffman: value out of codebook range")

// ErrCodebook indicates a codebook without spectral codewords.
var ErrCodebook = errors.New("huffman: not a spectral codebook")

// cb8Codes holds the codebook 8 codewords indexed by 8*|x| + |y|.
var cb8Codes = buildPairCodes()

// buildPairCodes inverts the two-step decode tables. The first-step index i
// supplies the top 5 bits of a codeword and the extra bits j the following
// ones, so the codeword of a second-step entry is the concatenation
// (i, j) truncated to its length.
func buildPairCodes() [64]Codeword {
	var codes [64]Codeword
	var seen [64]bool
	for i, root := range hcb8_1 {
		extra := uint(root.ExtraBits)
		for j := uint32(0); j < 1<<extra; j++ {
			e := hcb8_2[uint(root.Offset)+uint(j)]
			code := (uint32(i)<<extra | j) >> (5 + extra - uint(e.Bits))
			idx := int(e.X)*8 + int(e.Y)
			if seen[idx] {
				continue
			}
			seen[idx] = true
			codes[idx] = Codeword{Code: code, Len: e.Bits}
		}
	}
	for _, ok := range seen {
		if !ok {
			panic("huffman: incomplete codebook 8")
		}
	}
	return codes
}

// PairCode returns the codeword for magnitudes (x, y) in cb, without sign
// bits. Codebook 11 takes magnitudes up to EscValue.
func PairCode(cb Codebook, x, y int) Codeword {
	if cb == PairHCB {
		return cb8Codes[x*8+y]
	}
	return cb11Codes[x*(EscValue+1)+y]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MaxValue returns the largest magnitude cb codes, or 0 for codebooks
// without spectral data.
func MaxValue(cb Codebook) int {
	switch cb {
	case PairHCB:
		return MaxPairValue
	case EscHCB:
		return MaxEscValue
	}
	return 0
}

// escExponent returns e with 2^e <= a < 2^(e+1), for a >= EscValue.
func escExponent(a int) int {
	e := escBias
	for a >= 2<<e {
		e++
	}
	return e
}

// escape returns the escape symbol and sequence length of magnitude a in
// codebook 11.
func escape(a int) (sym, n int) {
	if a < EscValue {
		return a, 0
	}
	return EscValue, 2*escExponent(a) - escBias + 1
}

// SpectralBits returns the number of bits needed to code q with cb, sign
// bits and escape sequences included. len(q) must be even. It returns
// ErrValueRange when a magnitude exceeds MaxValue(cb).
func SpectralBits(cb Codebook, q []int16) (int, error) {
	limit := MaxValue(cb)
	if limit == 0 {
		return 0, ErrCodebook
	}
	n := 0
	for i := 0; i+1 < len(q); i += PairLen {
		x, y := abs(int(q[i])), abs(int(q[i+1]))
		if x > limit || y > limit {
			return 0, ErrValueRange
		}
		if x != 0 {
			n++
		}
		if y != 0 {
			n++
		}
		if cb == PairHCB {
			n += int(cb8Codes[x*8+y].Len)
			continue
		}
		sx, ex := escape(x)
		sy, ey := escape(y)
		n += int(cb11Codes[sx*(EscValue+1)+sy].Len) + ex + ey
	}
	return n, nil
}

// writeEscape writes the escape sequence of magnitude a >= EscValue: e-4
// ones, a zero and the e low bits of a, where 2^e is the top bit of a.
func writeEscape(w *bits.Writer, a int) {
	e := escExponent(a)
	for i := escBias; i < e; i++ {
		w.PutBit(true)
	}
	w.PutBit(false)
	w.PutBits(uint32(a-1<<e), uint(e))
}

// WriteSpectral codes q with cb: per pair the codeword, the sign bits and,
// for codebook 11, the escape sequences.
func WriteSpectral(w *bits.Writer, cb Codebook, q []int16) error {
	limit := MaxValue(cb)
	if limit == 0 {
		return ErrCodebook
	}
	for i := 0; i+1 < len(q); i += PairLen {
		a, b := int(q[i]), int(q[i+1])
		x, y := abs(a), abs(b)
		if x > limit || y > limit {
			return ErrValueRange
		}
		sx, sy := x, y
		if cb == EscHCB {
			sx, sy = min(x, EscValue), min(y, EscValue)
		}
		cw := PairCode(cb, sx, sy)
		w.PutBits(cw.Code, uint(cw.Len))
		if x != 0 {
			w.PutBit(a < 0)
		}
		if y != 0 {
			w.PutBit(b < 0)
		}
		if sx == EscValue && cb == EscHCB {
			writeEscape(w, x)
		}
		if sy == EscValue && cb == EscHCB {
			writeEscape(w, y)
		}
	}
	return nil
}
