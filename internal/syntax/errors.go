package syntax

import "errors"

// Window grouping errors.
var (
	// ErrInvalidSRIndex indicates an invalid sample rate index (must be 0-11).
	ErrInvalidSRIndex = errors.New("syntax: invalid sample rate index")

	// ErrInvalidWindowSequence indicates an invalid window sequence type.
	ErrInvalidWindowSequence = errors.New("syntax: invalid window sequence")

	// ErrMaxSFBTooLarge indicates max_sfb exceeds the number of SFBs for this sample rate.
	ErrMaxSFBTooLarge = errors.New("syntax: max_sfb exceeds num_swb")
)

// ICS errors.
var (
	// ErrICSReservedBit indicates ics_reserved_bit is not 0.
	ErrICSReservedBit = errors.New("syntax: ics_reserved_bit must be 0")

	// ErrUnsupportedTool indicates pulse, gain control or prediction data,
	// none of which this package handles.
	ErrUnsupportedTool = errors.New("syntax: unsupported coding tool")

	// ErrTNSOrder indicates a TNS filter order above MaxTNSOrder.
	ErrTNSOrder = errors.New("syntax: TNS filter order too large")
)

// Section data errors.
var (
	// ErrBitstreamRead indicates a read ran past the end of the data.
	ErrBitstreamRead = errors.New("syntax: bitstream read error")

	// ErrReservedCodebook indicates reserved codebook 12 was used.
	ErrReservedCodebook = errors.New("syntax: reserved codebook 12 used")

	// ErrUnsupportedCodebook indicates a spectral codebook other than 8 and 11.
	ErrUnsupportedCodebook = errors.New("syntax: unsupported spectral codebook")

	// ErrSectionLength indicates the section length exceeds the limit.
	ErrSectionLength = errors.New("syntax: section length exceeds limit")
)

// Scale factor errors.
var (
	// ErrScaleFactorRange indicates a scale factor is out of the valid range [0, 255].
	ErrScaleFactorRange = errors.New("syntax: scale factor out of range [0, 255]")

	// ErrScaleFactorDelta indicates two neighbouring values differ by more
	// than the scalefactor codebook can code.
	ErrScaleFactorDelta = errors.New("syntax: scale factor delta out of range")

	// ErrNoiseEnergyRange indicates a first PNS energy that does not fit the
	// 9-bit PCM field.
	ErrNoiseEnergyRange = errors.New("syntax: noise energy out of range")
)

// Element errors.
var (
	// ErrIntensityStereoInSCE indicates intensity stereo was used in a single channel element.
	ErrIntensityStereoInSCE = errors.New("syntax: intensity stereo not allowed in single channel element")

	// ErrMSMaskReserved indicates ms_mask_present has reserved value 3.
	ErrMSMaskReserved = errors.New("syntax: ms_mask_present value 3 is reserved")

	// ErrUnknownElement indicates an element this package does not handle.
	ErrUnknownElement = errors.New("syntax: unknown element type")

	// ErrFillCount indicates a fill element payload larger than one element
	// can carry.
	ErrFillCount = errors.New("syntax: fill element count out of range")
)

// Transport errors.
var (
	// ErrADTSSyncwordNotFound is returned when no ADTS syncword is found.
	ErrADTSSyncwordNotFound = errors.New("syntax: unable to find ADTS syncword")

	// ErrADTSFrameLength indicates a frame length that does not fit 13 bits
	// or is shorter than the header.
	ErrADTSFrameLength = errors.New("syntax: invalid ADTS frame length")

	// ErrASCTooShort is returned for an AudioSpecificConfig under 2 bytes.
	ErrASCTooShort = errors.New("syntax: AudioSpecificConfig too short")

	// ErrASCInvalidChannelConfig is returned for invalid channel configuration.
	ErrASCInvalidChannelConfig = errors.New("syntax: invalid channel configuration")

	// ErrLOASSyncword indicates data that does not start with the LOAS
	// syncword.
	ErrLOASSyncword = errors.New("syntax: missing LOAS syncword")

	// ErrLOASLength indicates an AudioMuxElement that does not fit the
	// 13-bit length or the data.
	ErrLOASLength = errors.New("syntax: invalid LOAS frame length")

	// ErrLOASConfig indicates a StreamMuxConfig other than one program of
	// one layer with variable frame length.
	ErrLOASConfig = errors.New("syntax: unsupported StreamMuxConfig")
)
