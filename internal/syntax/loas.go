package syntax

import (
	"github.com/llehouerou/go-aacenc/internal/bits"
)

// LOASSyncword is the 11-bit sync pattern of an AudioSyncStream frame.
const LOASSyncword = 0x2B7

// LOASHeaderSize is the size of the syncword and length fields.
const LOASHeaderSize = 3

const maxLOASLength = 1<<13 - 1

// LOASFrame is one AudioSyncStream frame carrying a single raw_data_block.
//
// Frame structure:
//   - syncword: 11 bits (0x2B7)
//   - audioMuxLengthBytes: 13 bits
//   - AudioMuxElement(1): useSameStreamMux, an optional StreamMuxConfig,
//     the PayloadLengthInfo and the payload, byte aligned
//
// The StreamMuxConfig written is audioMuxVersion 0 with one program of one
// layer and frameLengthType 0, so the payload length is coded in bytes.
type LOASFrame struct {
	// Config is the AudioSpecificConfig of the StreamMuxConfig. It is nil
	// when the frame reuses the previous configuration.
	Config  *AudioSpecificConfig
	Payload []byte
}

// WriteLOAS writes f as one AudioSyncStream frame.
func WriteLOAS(w *bits.Writer, f *LOASFrame) error {
	var m bits.Writer
	m.PutBit(f.Config == nil) // useSameStreamMux
	if f.Config != nil {
		m.PutBits(0, 1) // audioMuxVersion
		m.PutBit(true)  // allStreamsSameTimeFraming
		m.PutBits(0, 6) // numSubFrames
		m.PutBits(0, 4) // numProgram
		m.PutBits(0, 3) // numLayer
		f.Config.write(&m)
		m.PutBits(0, 3)    // frameLengthType
		m.PutBits(0xFF, 8) // latmBufferFullness
		m.PutBit(false)    // otherDataPresent
		m.PutBit(false)    // crcCheckPresent
	}

	n := len(f.Payload)
	for ; n >= 255; n -= 255 {
		m.PutBits(255, 8)
	}
	m.PutBits(uint32(n), 8)
	for _, b := range f.Payload {
		m.PutBits(uint32(b), 8)
	}
	m.ByteAlign()

	body := m.Bytes()
	if len(body) > maxLOASLength {
		return ErrLOASLength
	}
	w.PutBits(LOASSyncword, 11)
	w.PutBits(uint32(len(body)), 13)
	for _, b := range body {
		w.PutBits(uint32(b), 8)
	}
	return nil
}

// ParseLOAS parses the AudioSyncStream frame at the start of data and
// returns it with its size in bytes.
func ParseLOAS(data []byte) (LOASFrame, int, error) {
	if len(data) < LOASHeaderSize {
		return LOASFrame{}, 0, ErrLOASLength
	}
	r := bits.NewReader(data)
	if r.GetBits(11) != LOASSyncword {
		return LOASFrame{}, 0, ErrLOASSyncword
	}
	size := LOASHeaderSize + int(r.GetBits(13))
	if size > len(data) {
		return LOASFrame{}, 0, ErrLOASLength
	}

	var f LOASFrame
	if r.Get1Bit() == 0 {
		c, err := parseStreamMuxConfig(r)
		if err != nil {
			return LOASFrame{}, 0, err
		}
		f.Config = &c
	}

	n := 0
	for {
		b := int(r.GetBits(8))
		n += b
		if b != 255 || r.Error() {
			break
		}
	}
	if r.Error() || int(r.BitsRead())+n*LenByte > size*LenByte {
		return LOASFrame{}, 0, ErrLOASLength
	}

	// The payload need not start on a byte boundary.
	payload := make([]byte, n)
	for i := range payload {
		payload[i] = byte(r.GetBits(8))
	}
	if r.Error() {
		return LOASFrame{}, 0, ErrBitstreamRead
	}
	f.Payload = payload
	return f, size, nil
}

func parseStreamMuxConfig(r *bits.Reader) (AudioSpecificConfig, error) {
	if r.Get1Bit() != 0 { // audioMuxVersion
		return AudioSpecificConfig{}, ErrLOASConfig
	}
	sameFraming := r.Get1Bit()
	numSubFrames := r.GetBits(6)
	numProgram := r.GetBits(4)
	numLayer := r.GetBits(3)
	if sameFraming != 1 || numSubFrames != 0 || numProgram != 0 || numLayer != 0 {
		return AudioSpecificConfig{}, ErrLOASConfig
	}
	c, err := readAudioSpecificConfig(r)
	if err != nil {
		return c, err
	}
	if r.GetBits(3) != 0 { // frameLengthType
		return c, ErrLOASConfig
	}
	r.FlushBits(8) // latmBufferFullness
	if otherData := r.Get1Bit(); otherData != 0 {
		return c, ErrLOASConfig
	}
	if crc := r.Get1Bit(); crc != 0 {
		r.FlushBits(8) // crcCheckSum
	}
	if r.Error() {
		return c, ErrBitstreamRead
	}
	return c, nil
}
