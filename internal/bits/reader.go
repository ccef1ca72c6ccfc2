package bits

// Reader reads bits MSB-first from a byte buffer.
//
// Reads past the end of the buffer return zero bits and set the error flag,
// so a parser can run to completion and check Error once.
type Reader struct {
	buffer []byte
	pos    uint // Bit position of the next bit to read
	size   uint // Buffer size in bits
	err    bool // Set on overrun or empty buffer
}

// NewReader creates a Reader over data. Empty or nil buffers set the error
// flag.
func NewReader(data []byte) *Reader {
	return &Reader{
		buffer: data,
		size:   uint(len(data)) * 8,
		err:    len(data) == 0,
	}
}

// Error reports whether a read ran past the end of the buffer.
func (r *Reader) Error() bool {
	return r.err
}

// BitsRead returns the number of bits consumed so far.
func (r *Reader) BitsRead() uint {
	return r.pos
}

// BitsLeft returns the number of unread bits.
func (r *Reader) BitsLeft() uint {
	if r.pos >= r.size {
		return 0
	}
	return r.size - r.pos
}

// ShowBits returns the next n bits without consuming them. n must be 0-32.
// Bits beyond the end of the buffer read as zero.
func (r *Reader) ShowBits(n uint) uint32 {
	if n == 0 {
		return 0
	}

	var v uint64
	pos := r.pos
	byteIdx := pos >> 3
	// Gather up to 40 bits covering the window [pos, pos+n).
	for i := uint(0); i < 5; i++ {
		v <<= 8
		if idx := byteIdx + i; idx < uint(len(r.buffer)) {
			v |= uint64(r.buffer[idx])
		}
	}
	shift := 40 - (pos & 7) - n
	return uint32((v >> shift) & ((1 << n) - 1))
}

// FlushBits discards n bits.
func (r *Reader) FlushBits(n uint) {
	r.pos += n
	if r.pos > r.size {
		r.err = true
	}
}

// GetBits reads and returns n bits. n must be 0-32.
func (r *Reader) GetBits(n uint) uint32 {
	if n == 0 {
		return 0
	}
	ret := r.ShowBits(n)
	r.FlushBits(n)
	return ret
}

// Get1Bit reads a single bit.
func (r *Reader) Get1Bit() uint8 {
	return uint8(r.GetBits(1))
}

// ByteAlign skips to the next byte boundary.
func (r *Reader) ByteAlign() {
	if rem := r.pos & 7; rem != 0 {
		r.FlushBits(8 - rem)
	}
}
