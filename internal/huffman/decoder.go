package huffman

import (
	"errors"

	"github.com/llehouerou/go-aacenc/internal/bits"
)

// ErrBadCodeword indicates bits that match no codeword.
var ErrBadCodeword = errors.New("huffman: invalid codeword")

// decode2StepPair decodes one unsigned codebook 8 pair using the 2-step
// table lookup.
//
// Step 1: Read 5 bits and look up the first table.
// Step 2: If extra bits are needed, read them and index the second table.
func decode2StepPair(r *bits.Reader, sp []int16) {
	const rootBits = 5

	cw := r.ShowBits(rootBits)
	offset := uint16(hcb8_1[cw].Offset)
	extraBits := hcb8_1[cw].ExtraBits

	if extraBits != 0 {
		r.FlushBits(rootBits)
		offset += uint16(r.ShowBits(uint(extraBits)))
		r.FlushBits(uint(hcb8_2[offset].Bits) - rootBits)
	} else {
		r.FlushBits(uint(hcb8_2[offset].Bits))
	}

	sp[0] = int16(hcb8_2[offset].X)
	sp[1] = int16(hcb8_2[offset].Y)
}

// signBits reads sign bits for non-zero spectral coefficients.
// For each non-zero value in sp, reads 1 bit: if 1, negates the value.
func signBits(r *bits.Reader, sp []int16) {
	for i := range sp {
		if sp[i] != 0 {
			if r.Get1Bit()&1 != 0 {
				sp[i] = -sp[i]
			}
		}
	}
}

// cb11Index maps each codebook 11 codeword to its pair index.
var cb11Index = func() map[Codeword]int {
	m := make(map[Codeword]int, len(cb11Codes))
	for i, cw := range cb11Codes {
		m[cw] = i
	}
	return m
}()

// maxCB11Len is the longest codebook 11 codeword.
const maxCB11Len = 12

func decodeEscPair(r *bits.Reader, sp []int16) error {
	var cw Codeword
	for cw.Len < maxCB11Len {
		cw.Code = cw.Code<<1 | uint32(r.Get1Bit())
		cw.Len++
		if idx, ok := cb11Index[cw]; ok {
			sp[0] = int16(idx / (EscValue + 1))
			sp[1] = int16(idx % (EscValue + 1))
			return nil
		}
	}
	return ErrBadCodeword
}

// getEscape reads the escape sequence following a magnitude of EscValue.
func getEscape(r *bits.Reader) (int16, error) {
	e := uint(escBias)
	for r.Get1Bit() == 1 {
		e++
		if e > 12 {
			return 0, ErrValueRange
		}
	}
	return int16(1<<e | r.GetBits(e)), nil
}

// SpectralData decodes len(sp) coefficients coded with cb.
// len(sp) must be even.
func SpectralData(r *bits.Reader, cb Codebook, sp []int16) error {
	if MaxValue(cb) == 0 {
		return ErrCodebook
	}
	for i := 0; i+1 < len(sp); i += PairLen {
		pair := sp[i : i+PairLen]
		if cb == PairHCB {
			decode2StepPair(r, pair)
			signBits(r, pair)
			continue
		}
		if err := decodeEscPair(r, pair); err != nil {
			return err
		}
		signBits(r, pair)
		for k, v := range pair {
			if v != EscValue && v != -EscValue {
				continue
			}
			m, err := getEscape(r)
			if err != nil {
				return err
			}
			if v < 0 {
				m = -m
			}
			pair[k] = m
		}
		if r.Error() {
			return ErrBadCodeword
		}
	}
	return nil
}
