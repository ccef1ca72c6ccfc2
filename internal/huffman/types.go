package huffman

// stepEntry is a first-step decode table entry, indexed by the leading
// bits of a codeword.
type stepEntry struct {
	Offset    uint8 // First candidate in the second-step table
	ExtraBits uint8 // Bits to peek beyond the first step
}

// pairEntry is a second-step decode table entry of codebook 8.
type pairEntry struct {
	Bits uint8 // Codeword length
	X    int8
	Y    int8
}

// Codeword is a Huffman code right-aligned in Code.
type Codeword struct {
	Code uint32
	Len  uint8
}
