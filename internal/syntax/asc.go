package syntax

import "github.com/llehouerou/go-aacenc/internal/bits"

// AudioSpecificConfig is the decoder configuration of a raw AAC stream:
// object type, sampling frequency index and channel configuration,
// followed by a GASpecificConfig with 1024-sample frames, no core coder
// and no extension.
type AudioSpecificConfig struct {
	ObjectType           uint8 // 5 bits
	SFIndex              uint8 // 4 bits
	ChannelConfiguration uint8 // 4 bits
}

// ascBits is the size of the serialized form.
const ascBits = 16

// Bytes returns the 2-byte serialized form.
func (c AudioSpecificConfig) Bytes() []byte {
	var w bits.Writer
	c.write(&w)
	return append([]byte(nil), w.Bytes()...)
}

func (c AudioSpecificConfig) write(w *bits.Writer) {
	w.PutBits(uint32(c.ObjectType), 5)
	w.PutBits(uint32(c.SFIndex), 4)
	w.PutBits(uint32(c.ChannelConfiguration), 4)
	w.PutBits(0, 1) // frameLengthFlag
	w.PutBits(0, 1) // dependsOnCoreCoder
	w.PutBits(0, 1) // extensionFlag
}

// ParseAudioSpecificConfig parses the fields Bytes writes.
func ParseAudioSpecificConfig(data []byte) (AudioSpecificConfig, error) {
	if len(data) < ascBits/LenByte {
		return AudioSpecificConfig{}, ErrASCTooShort
	}
	return readAudioSpecificConfig(bits.NewReader(data))
}

func readAudioSpecificConfig(r *bits.Reader) (AudioSpecificConfig, error) {
	c := AudioSpecificConfig{
		ObjectType:           uint8(r.GetBits(5)),
		SFIndex:              uint8(r.GetBits(4)),
		ChannelConfiguration: uint8(r.GetBits(4)),
	}
	r.FlushBits(3) // GASpecificConfig flags
	if c.SFIndex >= 12 {
		return c, ErrInvalidSRIndex
	}
	if c.ChannelConfiguration == 0 || c.ChannelConfiguration > 7 {
		return c, ErrASCInvalidChannelConfig
	}
	return c, nil
}
