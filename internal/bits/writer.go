package bits

// Writer accumulates bits MSB-first into a growing byte buffer.
//
// The zero value is ready to use. Reset keeps the allocated buffer, which
// lets the rate control loop serialise the same frame repeatedly without
// allocating.
type Writer struct {
	buf  []byte
	acc  uint64 // Pending bits, right-aligned
	nacc uint   // Number of pending bits in acc (always < 8 between calls)
}

// NewWriter returns a Writer with room for capacity bytes.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// PutBits appends the low n bits of v. n must be 0-32.
func (w *Writer) PutBits(v uint32, n uint) {
	if n == 0 {
		return
	}
	w.acc = w.acc<<n | uint64(v)&(1<<n-1)
	w.nacc += n
	for w.nacc >= 8 {
		w.nacc -= 8
		w.buf = append(w.buf, byte(w.acc>>w.nacc))
	}
	w.acc &= 1<<w.nacc - 1
}

// PutBit appends a single bit.
func (w *Writer) PutBit(b bool) {
	if b {
		w.PutBits(1, 1)
	} else {
		w.PutBits(0, 1)
	}
}

// Len returns the number of bits written.
func (w *Writer) Len() int {
	return len(w.buf)*8 + int(w.nacc)
}

// ByteAlign pads with zero bits up to the next byte boundary.
func (w *Writer) ByteAlign() {
	if w.nacc != 0 {
		w.PutBits(0, 8-w.nacc)
	}
}

// Bytes returns the written data. A trailing partial byte is zero-padded in
// the returned slice without changing the writer state. The slice aliases
// the internal buffer until the next write or Reset.
func (w *Writer) Bytes() []byte {
	if w.nacc == 0 {
		return w.buf
	}
	return append(w.buf[:len(w.buf):len(w.buf)], byte(w.acc<<(8-w.nacc)))
}

// Reset discards all written bits and keeps the buffer for reuse.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.acc = 0
	w.nacc = 0
}
