package syntax

import (
	"github.com/llehouerou/go-aacenc/internal/bits"
)

// ADTSSyncword is the 12-bit sync pattern for ADTS frames.
const ADTSSyncword = 0x0FFF

// ADTSHeaderSize is the size of an ADTS header without CRC.
const ADTSHeaderSize = 7

// MaxSyncSearchBytes is the maximum bytes to search for ADTS syncword.
const MaxSyncSearchBytes = 768

// ADTSBufferFullnessVBR is the buffer_fullness value signalling a variable
// rate stream.
const ADTSBufferFullnessVBR = 0x7FF

// FindSyncword searches for the ADTS syncword (0xFFF) in the bitstream.
// It will skip up to MaxSyncSearchBytes looking for the sync pattern.
// After finding the syncword, the 12 syncword bits are consumed.
// Returns ErrADTSSyncwordNotFound if no syncword is found.
func FindSyncword(r *bits.Reader) error {
	for i := 0; i < MaxSyncSearchBytes && r.BitsLeft() >= 12; i++ {
		if r.ShowBits(12) == ADTSSyncword {
			r.FlushBits(12)
			return nil
		}
		r.FlushBits(8)
	}
	return ErrADTSSyncwordNotFound
}

// ADTSHeader contains Audio Data Transport Stream header data.
//
// Header structure (56 bits fixed + 16 bits CRC if present):
//   - syncword: 12 bits (0xFFF)
//   - id: 1 bit (0=MPEG-4, 1=MPEG-2)
//   - layer: 2 bits (always 0)
//   - protection_absent: 1 bit (1=no CRC)
//   - profile: 2 bits (0=Main, 1=LC, 2=SSR, 3=LTP)
//   - sf_index: 4 bits (sample rate index)
//   - private_bit: 1 bit
//   - channel_configuration: 3 bits
//   - original: 1 bit
//   - home: 1 bit
//   - copyright_id_bit: 1 bit
//   - copyright_id_start: 1 bit
//   - frame_length: 13 bits (includes header)
//   - buffer_fullness: 11 bits
//   - no_raw_data_blocks: 2 bits
//   - crc_check: 16 bits (if protection_absent=0)
type ADTSHeader struct {
	ID                   uint8 // 1 bit: 0=MPEG-4, 1=MPEG-2
	Layer                uint8 // 2 bits: always 0
	ProtectionAbsent     bool  // 1 bit: true=no CRC
	Profile              uint8 // 2 bits: object type - 1
	SFIndex              uint8 // 4 bits: sample frequency index
	PrivateBit           bool  // 1 bit
	ChannelConfiguration uint8 // 3 bits: channel config
	Original             bool  // 1 bit
	Home                 bool  // 1 bit

	// Variable header
	CopyrightIDBit         bool   // 1 bit
	CopyrightIDStart       bool   // 1 bit
	AACFrameLength         uint16 // 13 bits: total frame bytes
	ADTSBufferFullness     uint16 // 11 bits: buffer fullness
	CRCCheck               uint16 // 16 bits (if protection_absent=0)
	NoRawDataBlocksInFrame uint8  // 2 bits: num blocks - 1
}

// HeaderSize returns the ADTS header size in bytes.
// Returns 7 if CRC is absent, 9 if CRC is present.
func (h *ADTSHeader) HeaderSize() int {
	if h.ProtectionAbsent {
		return ADTSHeaderSize
	}
	return ADTSHeaderSize + 2
}

// DataSize returns the raw audio data size (frame length minus header).
func (h *ADTSHeader) DataSize() int {
	return int(h.AACFrameLength) - h.HeaderSize()
}

// Write writes the header. CRC is not supported: ProtectionAbsent must be
// set.
func (h *ADTSHeader) Write(w *bits.Writer) error {
	if !h.ProtectionAbsent {
		return ErrUnsupportedTool
	}
	if int(h.AACFrameLength) < h.HeaderSize() || h.AACFrameLength >= 1<<13 {
		return ErrADTSFrameLength
	}

	w.PutBits(ADTSSyncword, 12)
	w.PutBits(uint32(h.ID), 1)
	w.PutBits(uint32(h.Layer), 2)
	w.PutBit(h.ProtectionAbsent)
	w.PutBits(uint32(h.Profile), 2)
	w.PutBits(uint32(h.SFIndex), 4)
	w.PutBit(h.PrivateBit)
	w.PutBits(uint32(h.ChannelConfiguration), 3)
	w.PutBit(h.Original)
	w.PutBit(h.Home)

	w.PutBit(h.CopyrightIDBit)
	w.PutBit(h.CopyrightIDStart)
	w.PutBits(uint32(h.AACFrameLength), 13)
	w.PutBits(uint32(h.ADTSBufferFullness), 11)
	w.PutBits(uint32(h.NoRawDataBlocksInFrame), 2)
	return nil
}

// ParseADTSHeader finds the next syncword and parses the header that
// follows it.
func ParseADTSHeader(r *bits.Reader) (*ADTSHeader, error) {
	if err := FindSyncword(r); err != nil {
		return nil, err
	}

	h := &ADTSHeader{}
	h.ID = r.Get1Bit()
	h.Layer = uint8(r.GetBits(2))
	h.ProtectionAbsent = r.Get1Bit() != 0
	h.Profile = uint8(r.GetBits(2))
	h.SFIndex = uint8(r.GetBits(4))
	h.PrivateBit = r.Get1Bit() != 0
	h.ChannelConfiguration = uint8(r.GetBits(3))
	h.Original = r.Get1Bit() != 0
	h.Home = r.Get1Bit() != 0

	h.CopyrightIDBit = r.Get1Bit() != 0
	h.CopyrightIDStart = r.Get1Bit() != 0
	h.AACFrameLength = uint16(r.GetBits(13))
	h.ADTSBufferFullness = uint16(r.GetBits(11))
	h.NoRawDataBlocksInFrame = uint8(r.GetBits(2))
	if !h.ProtectionAbsent {
		h.CRCCheck = uint16(r.GetBits(16))
	}

	if r.Error() {
		return nil, ErrBitstreamRead
	}
	if int(h.AACFrameLength) < h.HeaderSize() {
		return nil, ErrADTSFrameLength
	}
	return h, nil
}
