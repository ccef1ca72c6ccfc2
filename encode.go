package aacenc

import (
	"errors"
	"fmt"
	"slices"

	"github.com/llehouerou/go-aacenc/internal/pcm"
)

// Encode accepts packed little-endian samples in the configured
// InputFormat (24-bit samples take 3 bytes) and writes at most one access
// unit to out. See EncodeInt16 for the call contract.
func (e *Encoder) Encode(samples, out []byte) (int, error) {
	if err := e.checkEncode(); err != nil {
		return 0, err
	}
	block, err := pcm.FromBytes(samples, e.inputFormat)
	if err != nil {
		return 0, e.inputError(err)
	}
	return e.encode(block, out)
}

// EncodeInt16 encodes interleaved 16-bit samples. The configured
// InputFormat must be InputFormat16Bit.
//
// At most InputSamples samples are accepted per call, and the count must
// be a multiple of the channel count. Encoding lags the input by one frame
// of look-ahead, so early calls return 0. Empty input starts the drain:
// repeat empty calls until they return 0 to collect every frame.
//
// When the next access unit does not fit in out, the call fails with
// ErrBufferTooSmall and nothing is lost: repeat it with the same samples
// and a larger out.
func (e *Encoder) EncodeInt16(samples []int16, out []byte) (int, error) {
	if err := e.checkEncode(); err != nil {
		return 0, err
	}
	if e.cfg.InputFormat != InputFormat16Bit {
		return 0, fmt.Errorf("%w: 16-bit samples for input format %d", ErrInvalidParameters, e.cfg.InputFormat)
	}
	return e.encode(pcm.FromInt16(samples), out)
}

// EncodeInt32 encodes interleaved 24-bit or 32-bit samples held in int32
// values. The configured InputFormat must be InputFormat24Bit or
// InputFormat32Bit.
func (e *Encoder) EncodeInt32(samples []int32, out []byte) (int, error) {
	if err := e.checkEncode(); err != nil {
		return 0, err
	}
	if e.cfg.InputFormat != InputFormat24Bit && e.cfg.InputFormat != InputFormat32Bit {
		return 0, fmt.Errorf("%w: 32-bit samples for input format %d", ErrInvalidParameters, e.cfg.InputFormat)
	}
	block, err := pcm.FromInt32(samples, e.inputFormat)
	if err != nil {
		return 0, e.inputError(err)
	}
	return e.encode(block, out)
}

// EncodeFloat32 encodes interleaved float samples in +-32768. The
// configured InputFormat must be InputFormatFloat. A non-finite sample is
// an encoding failure.
func (e *Encoder) EncodeFloat32(samples []float32, out []byte) (int, error) {
	if err := e.checkEncode(); err != nil {
		return 0, err
	}
	if e.cfg.InputFormat != InputFormatFloat {
		return 0, fmt.Errorf("%w: float samples for input format %d", ErrInvalidParameters, e.cfg.InputFormat)
	}
	block, err := pcm.FromFloat32(samples)
	if err != nil {
		return 0, e.inputError(err)
	}
	return e.encode(block, out)
}

func (e *Encoder) checkEncode() error {
	switch {
	case e.state == stateClosed:
		return fmt.Errorf("%w: encoder closed", ErrInvalidState)
	case e.failed != nil:
		return e.failed
	case e.state == stateOpen:
		return fmt.Errorf("%w: encoder not configured", ErrInvalidState)
	}
	return nil
}

func (e *Encoder) inputError(err error) error {
	if errors.Is(err, pcm.ErrNonFinite) {
		return e.fail(err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
}

// fail marks the session failed.
func (e *Encoder) fail(err error) error {
	e.failed = fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	return e.failed
}

func (e *Encoder) encode(block pcm.Interleaved, out []byte) (int, error) {
	if e.pending != nil {
		if !slices.Equal(block, e.pending.block) {
			return 0, fmt.Errorf("%w: retry must pass the rejected samples", ErrInvalidState)
		}
		return e.emit(block, out)
	}

	if len(block) > e.InputSamples() {
		return 0, fmt.Errorf("%w: %d samples, at most %d", ErrInvalidParameters, len(block), e.InputSamples())
	}
	if len(block)%e.channels != 0 {
		return 0, fmt.Errorf("%w: %d samples for %d channels", ErrInvalidParameters, len(block), e.channels)
	}
	if len(block) > 0 && e.draining {
		return 0, fmt.Errorf("%w: input after drain started", ErrInvalidState)
	}
	e.state = stateEncoding

	var err error
	if len(block) == 0 {
		if !e.draining {
			e.draining = true
			err = e.drain()
		}
	} else {
		if err = pcm.Deinterleave(e.input, block, e.cfg.ChannelMap); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
		}
		e.received += int64(len(block) / e.channels)
		err = e.encodeReady()
	}
	if err != nil {
		return 0, e.fail(err)
	}
	return e.emit(block, out)
}

// emit moves the oldest access unit to out. When it does not fit, block is
// recorded for the retry.
func (e *Encoder) emit(block pcm.Interleaved, out []byte) (int, error) {
	if len(e.queue) == 0 {
		e.pending = nil
		return 0, nil
	}
	head := e.queue[0]
	if len(head) > len(out) {
		e.pending = &pendingRetry{block: slices.Clone(block)}
		return 0, fmt.Errorf("%w: access unit of %d bytes, capacity %d", ErrBufferTooSmall, len(head), len(out))
	}
	n := copy(out, head)
	e.queue[0] = nil
	e.queue = e.queue[1:]
	e.pending = nil
	return n, nil
}

// blockSamples is the look-ahead a frame needs: its own analysis block
// and the next one for block switching.
const blockSamples = 3 * FrameLength

// encodeReady encodes every frame whose look-ahead is complete.
func (e *Encoder) encodeReady() error {
	for len(e.input[0]) >= blockSamples {
		if err := e.encodeFrame(); err != nil {
			return err
		}
	}
	return nil
}

// totalFrames is the number of frames the input received so far yields:
// whole frames plus one for the overlap of the last samples.
func (e *Encoder) totalFrames() int64 {
	if e.received == 0 {
		return 0
	}
	return (e.received+FrameLength-1)/FrameLength + 1
}

// drain pads the input with silence and encodes the remaining frames.
func (e *Encoder) drain() error {
	for e.frames < e.totalFrames() {
		for c := range e.input {
			if n := blockSamples - len(e.input[c]); n > 0 {
				e.input[c] = append(e.input[c], make([]float64, n)...)
			}
		}
		if err := e.encodeFrame(); err != nil {
			return err
		}
	}
	return nil
}
