// Package pcm converts interleaved encoder input in the supported sample
// formats to per channel float64 samples in the 16-bit range.
package pcm

import (
	"encoding/binary"
	"errors"
	"math"
)

// Format is an input sample format. The values match the encoder's
// configuration constants.
type Format int

// Input formats.
const (
	Int16 Format = 1 // 16-bit signed integer
	Int24 Format = 2 // 24-bit signed integer, packed in 3 bytes or an int32
	Int32 Format = 3 // 32-bit signed integer
	Float Format = 4 // 32-bit float in the 16-bit range
)

// Scale factors to the 16-bit range.
const (
	scale24 = 1.0 / 256
	scale32 = 1.0 / 65536
)

var (
	// ErrFormat indicates a format outside Int16..Float.
	ErrFormat = errors.New("pcm: unsupported sample format")

	// ErrBlockLength indicates a block that does not hold whole sample
	// frames.
	ErrBlockLength = errors.New("pcm: block length is not a multiple of the frame size")

	// ErrNonFinite indicates a NaN or infinite float sample.
	ErrNonFinite = errors.New("pcm: non-finite sample")
)

// BytesPerSample returns the packed size of one sample.
func (f Format) BytesPerSample() int {
	switch f {
	case Int16:
		return 2
	case Int24:
		return 3
	case Int32, Float:
		return 4
	default:
		return 0
	}
}

// Interleaved is a block of interleaved samples already scaled to the
// 16-bit range.
type Interleaved []float64

// FromInt16 converts 16-bit samples.
func FromInt16(src []int16) Interleaved {
	out := make(Interleaved, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

// FromInt32 converts 24-bit or 32-bit samples held in int32 values.
func FromInt32(src []int32, f Format) (Interleaved, error) {
	var scale float64
	switch f {
	case Int24:
		scale = scale24
	case Int32:
		scale = scale32
	default:
		return nil, ErrFormat
	}
	out := make(Interleaved, len(src))
	for i, v := range src {
		out[i] = float64(v) * scale
	}
	return out, nil
}

// FromFloat32 converts float samples, which are expected in +-32768.
func FromFloat32(src []float32) (Interleaved, error) {
	out := make(Interleaved, len(src))
	for i, v := range src {
		x := float64(v)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, ErrNonFinite
		}
		out[i] = x
	}
	return out, nil
}

// FromBytes converts packed little-endian samples of format f. 24-bit
// samples take 3 bytes.
func FromBytes(data []byte, f Format) (Interleaved, error) {
	size := f.BytesPerSample()
	if size == 0 {
		return nil, ErrFormat
	}
	if len(data)%size != 0 {
		return nil, ErrBlockLength
	}

	out := make(Interleaved, len(data)/size)
	for i := range out {
		b := data[i*size:]
		switch f {
		case Int16:
			out[i] = float64(int16(binary.LittleEndian.Uint16(b)))
		case Int24:
			v := int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8
			out[i] = float64(v) * scale24
		case Int32:
			out[i] = float64(int32(binary.LittleEndian.Uint32(b))) * scale32
		case Float:
			x := float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, ErrNonFinite
			}
			out[i] = x
		}
	}
	return out, nil
}

// Deinterleave appends the samples of block to the per channel buffers
// dst: AAC channel i reads input channel channelMap[i]. It returns
// ErrBlockLength when block does not hold whole sample frames.
func Deinterleave(dst [][]float64, block Interleaved, channelMap []int) error {
	channels := len(dst)
	if channels == 0 || len(block)%channels != 0 {
		return ErrBlockLength
	}
	frames := len(block) / channels

	switch {
	case channels == 1:
		dst[0] = append(dst[0], block...)
	case channels == 2 && channelMap[0] == 0 && channelMap[1] == 1:
		for i := 0; i < frames; i++ {
			dst[0] = append(dst[0], block[2*i])
			dst[1] = append(dst[1], block[2*i+1])
		}
	default:
		for ch := range dst {
			src := channelMap[ch]
			for i := 0; i < frames; i++ {
				dst[ch] = append(dst[ch], block[i*channels+src])
			}
		}
	}
	return nil
}
