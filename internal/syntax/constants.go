// Package syntax implements the AAC bitstream syntax: writers that
// serialise the encoder's channel streams into raw_data_block, ADTS and
// AudioSpecificConfig, and the matching parsers.
package syntax

// ElementID represents a syntax element identifier.
type ElementID uint8

// Syntax Element IDs.
const (
	IDSCE            ElementID = 0x0 // Single Channel Element
	IDCPE            ElementID = 0x1 // Channel Pair Element
	IDCCE            ElementID = 0x2 // Coupling Channel Element
	IDLFE            ElementID = 0x3 // LFE Channel Element
	IDDSE            ElementID = 0x4 // Data Stream Element
	IDPCE            ElementID = 0x5 // Program Config Element
	IDFIL            ElementID = 0x6 // Fill Element
	IDEND            ElementID = 0x7 // Terminating Element
	InvalidElementID ElementID = 255
)

// WindowSequence represents the window sequence type.
type WindowSequence uint8

// Window Sequences.
const (
	OnlyLongSequence   WindowSequence = 0x0
	LongStartSequence  WindowSequence = 0x1
	EightShortSequence WindowSequence = 0x2
	LongStopSequence   WindowSequence = 0x3
)

// String returns the ISO name of the sequence.
func (ws WindowSequence) String() string {
	switch ws {
	case OnlyLongSequence:
		return "ONLY_LONG"
	case LongStartSequence:
		return "LONG_START"
	case EightShortSequence:
		return "EIGHT_SHORT"
	case LongStopSequence:
		return "LONG_STOP"
	default:
		return "INVALID"
	}
}

// ExtensionType represents an extension_payload type.
type ExtensionType uint8

// Extension Types.
const (
	ExtFil      ExtensionType = 0 // Filler extension
	ExtFillData ExtensionType = 1 // Fill data
)

// Bit length constants.
const (
	LenSEID = 3 // Syntax element identifier length in bits
	LenTag  = 4 // Element instance tag length in bits
	LenByte = 8 // Byte length in bits
)

// FillByte is the byte used for fill data (10100101).
const FillByte = 0xA5

// NoiseOffset is the offset between global_gain and the PNS energy start
// value.
const NoiseOffset = 90
