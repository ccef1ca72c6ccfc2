package spectrum

import "math/bits"

// Noise is the pseudo-random generator used for noise substitution: two
// linear feedback shift registers with opposite rotation direction and
// coprime periods, combined by XOR. The period is
// 3*5*17*257*65537 * 7*47*73*178481.
//
// The zero value is not usable; use NewNoise.
type Noise struct {
	r1, r2 uint32
}

// NewNoise returns a generator in the state reached from (1, 1) after 1024
// steps, which is where decoders start.
func NewNoise() *Noise {
	return &Noise{r1: 0x2bb431ea, r2: 0x206155b7}
}

// parity returns the number of set bits of b modulo 2.
func parity(b uint32) uint32 {
	return uint32(bits.OnesCount8(uint8(b)) & 1)
}

// Next advances both registers and returns their XOR.
func (n *Noise) Next() uint32 {
	// Taps at bits 0, 2, 4, 5, 6, 7 of the first register feed bit 31.
	t1 := parity(n.r1&0xF5) << 31
	// Taps at bits 25, 26, 29, 30 of the second register feed bit 0.
	t2 := parity(n.r2 >> 25 & 0x63)

	n.r1 = n.r1>>1 | t1
	n.r2 = n.r2<<1 | t2
	return n.r1 ^ n.r2
}
