package syntax

import "github.com/llehouerou/go-aacenc/internal/bits"

// RawDataBlock is the parsed content of one raw_data_block().
type RawDataBlock struct {
	Elements  []*Element // SCE, CPE and LFE elements in stream order
	FillBytes int        // Total fill element payload
}

// Channels returns the number of channels in the block.
func (b *RawDataBlock) Channels() int {
	n := 0
	for _, e := range b.Elements {
		n += e.Channels()
	}
	return n
}

// WriteEnd terminates a raw_data_block() with ID_END and byte alignment.
func WriteEnd(w *bits.Writer) {
	w.PutBits(uint32(IDEND), LenSEID)
	w.ByteAlign()
}

// EndBits returns the size of the ID_END element.
const EndBits = LenSEID

// ParseRawDataBlock parses a raw_data_block() from the bitstream.
//
// The function reads syntax elements in a loop until ID_END (0x7) is
// encountered. SCE, CPE, LFE and FIL are supported.
func ParseRawDataBlock(r *bits.Reader, srIndex int) (*RawDataBlock, error) {
	block := &RawDataBlock{}

	for {
		id := ElementID(r.GetBits(LenSEID))
		if r.Error() {
			return nil, ErrBitstreamRead
		}
		if id == IDEND {
			break
		}

		switch id {
		case IDSCE, IDLFE:
			e := &Element{ID: id}
			if err := parseSingleChannelElement(r, e, srIndex); err != nil {
				return nil, err
			}
			block.Elements = append(block.Elements, e)
		case IDCPE:
			e := &Element{ID: id}
			if err := parseChannelPairElement(r, e, srIndex); err != nil {
				return nil, err
			}
			block.Elements = append(block.Elements, e)
		case IDFIL:
			n, err := ParseFillElement(r)
			if err != nil {
				return nil, err
			}
			block.FillBytes += n
		default:
			return nil, ErrUnknownElement
		}

		if r.Error() {
			return nil, ErrBitstreamRead
		}
	}

	r.ByteAlign()
	return block, nil
}
