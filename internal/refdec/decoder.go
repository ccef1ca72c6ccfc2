package refdec

import (
	"fmt"

	"github.com/llehouerou/go-aacenc/internal/bits"
	"github.com/llehouerou/go-aacenc/internal/spectrum"
	"github.com/llehouerou/go-aacenc/internal/syntax"
	"github.com/llehouerou/go-aacenc/internal/tables"
)

// Object types the decoder accepts. Main and LTP streams decode like LC
// as long as they carry no prediction data.
const (
	objectTypeMain = 1
	objectTypeLC   = 2
	objectTypeLTP  = 4
)

// StreamInfo describes an initialized stream.
type StreamInfo struct {
	SampleRate int
	Channels   int
	ObjectType uint8
	ADTS       bool
}

// FrameInfo describes one decoded frame.
type FrameInfo struct {
	BytesConsumed int
	Channels      int
	FillBytes     int                     // Fill element payload in the frame
	Windows       []syntax.WindowSequence // Window sequence per channel
}

// Decoder decodes one AAC stream. A Decoder is not safe for concurrent use.
type Decoder struct {
	info    StreamInfo
	srIndex int
	ready   bool

	noise *spectrum.Noise
	synth []*synthesis
	spec  [2][]float64
	frame uint64
}

// New returns an uninitialized decoder.
func New() *Decoder {
	return &Decoder{
		noise: spectrum.NewNoise(),
		spec:  [2][]float64{make([]float64, longSize), make([]float64, longSize)},
	}
}

// Init initializes the decoder from the first ADTS header in data. The
// header is not consumed.
func (d *Decoder) Init(data []byte) (StreamInfo, error) {
	h, err := syntax.ParseADTSHeader(bits.NewReader(data))
	if err != nil {
		return StreamInfo{}, err
	}
	return d.setup(h.Profile+1, int(h.SFIndex), int(h.ChannelConfiguration), true)
}

// Init2 initializes the decoder for raw access units described by an
// AudioSpecificConfig.
func (d *Decoder) Init2(asc []byte) (StreamInfo, error) {
	c, err := syntax.ParseAudioSpecificConfig(asc)
	if err != nil {
		return StreamInfo{}, err
	}
	return d.setup(c.ObjectType, int(c.SFIndex), int(c.ChannelConfiguration), false)
}

func (d *Decoder) setup(objectType uint8, srIndex, chanConfig int, adts bool) (StreamInfo, error) {
	switch objectType {
	case objectTypeMain, objectTypeLC, objectTypeLTP:
	default:
		return StreamInfo{}, fmt.Errorf("%w: %d", ErrObjectType, objectType)
	}
	sampleRate := tables.SampleRate(srIndex)
	if sampleRate == 0 {
		return StreamInfo{}, syntax.ErrInvalidSRIndex
	}
	if chanConfig < 1 || chanConfig > 6 {
		return StreamInfo{}, fmt.Errorf("%w: %d", ErrChannelConfig, chanConfig)
	}

	d.info = StreamInfo{
		SampleRate: int(sampleRate),
		Channels:   chanConfig,
		ObjectType: objectType,
		ADTS:       adts,
	}
	d.srIndex = srIndex
	d.synth = make([]*synthesis, chanConfig)
	for i := range d.synth {
		d.synth[i] = newSynthesis()
	}
	d.noise = spectrum.NewNoise()
	d.frame = 0
	d.ready = true
	return d.info, nil
}

// Info returns the stream parameters set by Init or Init2.
func (d *Decoder) Info() StreamInfo {
	return d.info
}

// Frames returns the number of frames decoded so far.
func (d *Decoder) Frames() uint64 {
	return d.frame
}

// Decode decodes one access unit, preceded by its ADTS header for ADTS
// streams, and returns 1024 interleaved samples per channel in element
// order.
//
// The output lags the encoder input by one frame: the first frame only
// completes the overlap of an empty block.
func (d *Decoder) Decode(data []byte) ([]float64, FrameInfo, error) {
	if !d.ready {
		return nil, FrameInfo{}, ErrNotInitialized
	}

	r := bits.NewReader(data)
	frameBytes := 0
	if d.info.ADTS {
		h, err := syntax.ParseADTSHeader(r)
		if err != nil {
			return nil, FrameInfo{}, err
		}
		if int(h.SFIndex) != d.srIndex || int(h.ChannelConfiguration) != d.info.Channels {
			return nil, FrameInfo{}, ErrStreamChanged
		}
		start := int(r.BitsRead()/8) - h.HeaderSize()
		frameBytes = start + int(h.AACFrameLength)
		if frameBytes > len(data) {
			return nil, FrameInfo{}, ErrFrameTruncated
		}
	}

	block, err := syntax.ParseRawDataBlock(r, d.srIndex)
	if err != nil {
		return nil, FrameInfo{}, err
	}
	if block.Channels() != d.info.Channels {
		return nil, FrameInfo{}, fmt.Errorf("%w: %d channels in frame", ErrStreamChanged, block.Channels())
	}
	if frameBytes == 0 {
		frameBytes = int((r.BitsRead() + 7) / 8)
	}

	info := FrameInfo{
		BytesConsumed: frameBytes,
		Channels:      block.Channels(),
		FillBytes:     block.FillBytes,
		Windows:       make([]syntax.WindowSequence, 0, block.Channels()),
	}
	out := make([]float64, longSize*d.info.Channels)
	pcm := make([]float64, longSize)

	ch := 0
	for _, e := range block.Elements {
		streams := []*syntax.ICStream{&e.ICS1}
		if e.ID == syntax.IDCPE {
			streams = append(streams, &e.ICS2)
			err = spectrum.ReconstructPair(e, d.spec[0], d.spec[1], d.srIndex, d.noise)
		} else {
			err = spectrum.Reconstruct(&e.ICS1, d.spec[0], d.srIndex, d.noise)
		}
		if err != nil {
			return nil, FrameInfo{}, err
		}

		for i, ics := range streams {
			if ics.WindowShape != 0 {
				return nil, FrameInfo{}, ErrWindowShape
			}
			d.synth[ch].run(ics.WindowSequence, d.spec[i], pcm)
			for n, v := range pcm {
				out[n*d.info.Channels+ch] = v
			}
			info.Windows = append(info.Windows, ics.WindowSequence)
			ch++
		}
	}

	d.frame++
	return out, info, nil
}

// Reset clears the overlap and noise state, as after a seek.
func (d *Decoder) Reset() {
	for _, s := range d.synth {
		s.reset()
	}
	d.noise = spectrum.NewNoise()
}

// DecodeADTS decodes a complete ADTS stream and returns its interleaved
// samples with the stream parameters.
func DecodeADTS(data []byte) ([]float64, StreamInfo, error) {
	d := New()
	info, err := d.Init(data)
	if err != nil {
		return nil, StreamInfo{}, err
	}

	var out []float64
	for len(data) > 0 {
		pcm, fi, err := d.Decode(data)
		if err != nil {
			return out, info, fmt.Errorf("frame %d: %w", d.frame, err)
		}
		out = append(out, pcm...)
		data = data[fi.BytesConsumed:]
	}
	return out, info, nil
}

// DecodeLOAS decodes a complete LOAS stream and returns its interleaved
// samples with the stream parameters. The first frame must carry a
// StreamMuxConfig; a repeated configuration keeps the decoder state.
func DecodeLOAS(data []byte) ([]float64, StreamInfo, error) {
	d := New()
	var info StreamInfo
	var cur *syntax.AudioSpecificConfig
	var out []float64
	for len(data) > 0 {
		f, n, err := syntax.ParseLOAS(data)
		if err != nil {
			return out, info, fmt.Errorf("frame %d: %w", d.frame, err)
		}
		if f.Config != nil && (cur == nil || *f.Config != *cur) {
			if info, err = d.Init2(f.Config.Bytes()); err != nil {
				return out, info, err
			}
			cur = f.Config
		}
		pcm, _, err := d.Decode(f.Payload)
		if err != nil {
			return out, info, fmt.Errorf("frame %d: %w", d.frame, err)
		}
		out = append(out, pcm...)
		data = data[n:]
	}
	return out, info, nil
}
