package aacenc

import (
	"fmt"

	"github.com/llehouerou/go-aacenc/internal/bits"
	"github.com/llehouerou/go-aacenc/internal/filterbank"
	"github.com/llehouerou/go-aacenc/internal/pcm"
	"github.com/llehouerou/go-aacenc/internal/psy"
	"github.com/llehouerou/go-aacenc/internal/quant"
	"github.com/llehouerou/go-aacenc/internal/syntax"
	"github.com/llehouerou/go-aacenc/internal/tables"
)

type state int

const (
	stateOpen state = iota
	stateConfigured
	stateEncoding
	stateClosed
)

// Encoder is one encoding session. An Encoder is not safe for concurrent
// use; distinct encoders share no mutable state.
type Encoder struct {
	sampleRate int
	channels   int
	srIndex    int

	state  state
	failed error // Set once an internal fault occurred
	cfg    Configuration

	// Derived from cfg by apply.
	cutoffHz    int
	noiseScale  float64          // Quality mode allowed noise factor
	reservoir   *quant.Reservoir // nil in quality mode
	modelIdx    int
	inputFormat pcm.Format

	fb        *filterbank.FilterBank
	chans     []*channelState
	elements  []*elementState
	scratch   bits.Writer
	groupSpec []float64 // Combined spectrum of a channel pair for grouping

	// input holds per channel samples from the start of the next frame's
	// analysis block.
	input    [][]float64
	received int64 // Samples per channel accepted
	frames   int64 // Frames encoded
	draining bool

	queue   [][]byte // Encoded access units, oldest first
	pending *pendingRetry
}

// pendingRetry records an input block whose call failed with
// ErrBufferTooSmall after it was consumed.
type pendingRetry struct {
	block pcm.Interleaved
}

// Open starts a session for sampleRate Hz and channels channels. The
// sample rate must be one of the twelve MPEG-4 rates from 8000 to 96000 Hz
// and channels must be 1 to 6.
func Open(sampleRate, channels int) (*Encoder, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidParameters, sampleRate)
	}
	srIndex, ok := tables.SRIndex(uint32(sampleRate))
	if !ok {
		return nil, fmt.Errorf("%w: unsupported sample rate %d", ErrInvalidParameters, sampleRate)
	}
	if channels < 1 || channels > 6 {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrInvalidParameters, channels)
	}

	e := &Encoder{
		sampleRate: sampleRate,
		channels:   channels,
		srIndex:    srIndex,
		state:      stateOpen,
		cfg:        defaultConfiguration(channels),
		modelIdx:   -1,
		fb:         filterbank.NewFilterBank(),
		input:      make([][]float64, channels),
		groupSpec:  make([]float64, FrameLength),
	}
	for _, l := range channelLayouts[channels] {
		e.elements = append(e.elements, &elementState{layout: l})
	}
	e.chans = make([]*channelState, channels)
	for i := range e.chans {
		e.chans[i] = &channelState{spec: make([]float64, FrameLength)}
	}
	for _, el := range e.elements {
		if el.layout.id == syntax.IDLFE {
			e.chans[el.layout.channels[0]].lfe = true
		}
	}
	for i := range e.input {
		e.input[i] = make([]float64, FrameLength, 4*FrameLength)
	}
	if err := e.apply(); err != nil {
		return nil, err
	}
	return e, nil
}

// InputSamples returns the largest number of samples, all channels
// together, one Encode call accepts.
func (e *Encoder) InputSamples() int {
	return FrameLength * e.channels
}

// MaxOutputBytes returns the size of the largest access unit.
func (e *Encoder) MaxOutputBytes() int {
	return MaxChannelBytes * e.channels
}

// CurrentConfiguration returns a snapshot of the session configuration.
// Changing it has no effect until it is applied with SetConfiguration.
func (e *Encoder) CurrentConfiguration() (Configuration, error) {
	if e.state == stateClosed {
		return Configuration{}, fmt.Errorf("%w: encoder closed", ErrInvalidState)
	}
	return e.cfg.clone(), nil
}

// SetConfiguration validates and applies cfg. On failure the previous
// configuration stays in effect. Once encoding has started, OutputFormat,
// MPEGVersion and ObjectType cannot change.
func (e *Encoder) SetConfiguration(cfg Configuration) error {
	if e.state == stateClosed {
		return fmt.Errorf("%w: encoder closed", ErrInvalidState)
	}
	if err := validate(&cfg, e.sampleRate, e.channels); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if e.state == stateEncoding {
		if cfg.OutputFormat != e.cfg.OutputFormat || cfg.MPEGVersion != e.cfg.MPEGVersion || cfg.ObjectType != e.cfg.ObjectType {
			return fmt.Errorf("%w: stream format cannot change after encoding started", ErrInvalidConfiguration)
		}
	}

	prev := e.cfg
	e.cfg = cfg.clone()
	e.cfg.Name, e.cfg.Copyright = LibraryID, Copyright
	e.cfg.PsyModels = psyModelList()
	if err := e.apply(); err != nil {
		e.cfg = prev
		_ = e.apply()
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if e.state == stateOpen {
		e.state = stateConfigured
	}
	return nil
}

// apply recomputes the state derived from the configuration.
func (e *Encoder) apply() error {
	cfg := &e.cfg
	if cfg.PsyModelIdx != e.modelIdx {
		for _, ch := range e.chans {
			m, err := psy.New(cfg.PsyModelIdx, e.sampleRate)
			if err != nil {
				return err
			}
			ch.model = m
		}
		e.modelIdx = cfg.PsyModelIdx
	}

	e.cutoffHz = cutoff(cfg, e.sampleRate)
	q := float64(DefaultQuantQual) / float64(max(cfg.QuantQual, MinQuantQual))
	e.noiseScale = q * q

	total := cfg.BitRate * e.channels
	switch {
	case cfg.BitRate == 0:
		e.reservoir = nil
	case e.reservoir == nil || e.reservoir.BitRate() != total:
		e.reservoir = quant.NewReservoir(total, e.sampleRate, FrameLength, e.channels)
	}

	e.inputFormat = pcm.Format(cfg.InputFormat)
	return nil
}

// DecoderSpecificInfo returns the AudioSpecificConfig of the stream for
// out-of-band signalling. It requires a configured session.
func (e *Encoder) DecoderSpecificInfo() ([]byte, error) {
	if e.state != stateConfigured && e.state != stateEncoding {
		return nil, fmt.Errorf("%w: encoder not configured", ErrInvalidState)
	}
	asc := syntax.AudioSpecificConfig{
		ObjectType:           uint8(e.cfg.ObjectType),
		SFIndex:              uint8(e.srIndex),
		ChannelConfiguration: uint8(e.channels),
	}
	return asc.Bytes(), nil
}

// Close ends the session and releases its buffers. Frames not drained
// with an empty Encode call are lost.
func (e *Encoder) Close() error {
	if e.state == stateClosed {
		return fmt.Errorf("%w: encoder closed", ErrInvalidState)
	}
	e.state = stateClosed
	e.input = nil
	e.queue = nil
	e.pending = nil
	e.chans = nil
	e.elements = nil
	e.fb = nil
	return nil
}

// Version returns the library identification, its copyright notice and
// the configuration version it accepts.
func Version() (id, copyright string, configVersion int) {
	return LibraryID, Copyright, ConfigVersion
}
