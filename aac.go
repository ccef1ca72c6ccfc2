package aacenc

// ConfigVersion is the Configuration.Version a session accepts.
const ConfigVersion = 105

// Library identification returned by Version.
const (
	LibraryID = "go-aacenc 1.0.0"
	Copyright = "go-aacenc - pure Go AAC encoder\nCopyright (C) the go-aacenc authors"
)

// Frame and buffer sizes.
const (
	FrameLength = 1024 // Samples per channel and access unit

	// MaxChannelBytes is the largest access unit per channel: the decoder
	// input buffer of 6144 bits.
	MaxChannelBytes = 768
)

// MPEGVersion selects the ADTS ID bit.
type MPEGVersion int

// MPEG versions.
const (
	MPEG4 MPEGVersion = 0
	MPEG2 MPEGVersion = 1
)

// ObjectType is the AAC audio object type.
type ObjectType int

// Object types. SSR is known but rejected; Main and LTP streams carry no
// prediction data.
const (
	ObjectTypeMain ObjectType = 1
	ObjectTypeLC   ObjectType = 2 // Low Complexity
	ObjectTypeSSR  ObjectType = 3 // Scalable Sample Rate
	ObjectTypeLTP  ObjectType = 4 // Long Term Prediction
)

// JointMode selects the stereo coding of channel pairs.
type JointMode int

// Joint stereo modes.
const (
	JointNone JointMode = 0
	JointMS   JointMode = 1 // Mid/side
	JointIS   JointMode = 2 // Intensity stereo
)

// OutputFormat selects the access unit framing.
type OutputFormat int

// Output formats.
const (
	OutputRaw  OutputFormat = 0 // Bare raw_data_block, framed by the container
	OutputADTS OutputFormat = 1 // Self-delimiting ADTS frames
)

// InputFormat is the sample format accepted by Encode.
type InputFormat int

// Input formats. Samples are scaled to the 16-bit range: 24-bit values by
// 1/256, 32-bit values by 1/65536. Float samples are expected in +-32768.
const (
	InputFormatNull  InputFormat = 0
	InputFormat16Bit InputFormat = 1
	InputFormat24Bit InputFormat = 2
	InputFormat32Bit InputFormat = 3
	InputFormatFloat InputFormat = 4
)

// ShortCtl controls block switching.
type ShortCtl int

// Block switching modes.
const (
	ShortCtlNormal  ShortCtl = 0 // Transient detection
	ShortCtlNoShort ShortCtl = 1 // Long blocks only
	ShortCtlNoLong  ShortCtl = 2 // Short blocks only
)

// PsyModelInfo names one psychoacoustic model.
type PsyModelInfo struct {
	Name string
}

// Configuration is the encoder configuration record. Fetch it with
// CurrentConfiguration, change fields and apply it with SetConfiguration.
type Configuration struct {
	Version   int    // Must be ConfigVersion
	Name      string // Read-only
	Copyright string // Read-only

	MPEGVersion MPEGVersion
	ObjectType  ObjectType

	JointMode    JointMode
	AllowMidSide bool // Enables M/S in addition to JointMode

	UseLFE bool
	UseTNS bool

	BitRate   int // Bits per second per channel; 0 selects quality mode
	BandWidth int // Hz; 0 selects automatic
	QuantQual int // Quality mode target, 10..5000

	OutputFormat OutputFormat

	PsyModels   []PsyModelInfo // Read-only
	PsyModelIdx int

	InputFormat InputFormat
	ShortCtl    ShortCtl

	// ChannelMap has one entry per channel: AAC channel i reads input
	// channel ChannelMap[i].
	ChannelMap []int

	PNSLevel int // 0 disables PNS, 1..10
}

// clone returns a copy that shares no slices with c.
func (c Configuration) clone() Configuration {
	c.PsyModels = append([]PsyModelInfo(nil), c.PsyModels...)
	c.ChannelMap = append([]int(nil), c.ChannelMap...)
	return c
}
