package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"

	"github.com/llehouerou/go-aacenc"
	"github.com/llehouerou/go-aacenc/internal/pcm"
)

var (
	errNotWAV        = errors.New("not a RIFF/WAVE file")
	errNoFormat      = errors.New("missing fmt chunk")
	errNoData        = errors.New("missing data chunk")
	errSampleFormat  = errors.New("unsupported sample format")
	errUnknownSource = errors.New("unknown input type")
)

// Source is a decoded input file. Read fills p with whole sample frames of
// interleaved little-endian samples in InputFormat.
type Source interface {
	SampleRate() int
	Channels() int
	InputFormat() aacenc.InputFormat
	Read(p []byte) (int, error)
	Close() error
}

// openSource opens path with the decoder its extension selects.
func openSource(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var src Source
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		src, err = newWAVSource(f)
	case ".flac":
		src, err = newFLACSource(f)
	case ".mp3":
		src, err = newMP3Source(f)
	default:
		err = fmt.Errorf("%w: %s", errUnknownSource, filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

// bytesPerSample returns the packed size of one sample of f.
func bytesPerSample(f aacenc.InputFormat) int {
	return pcm.Format(f).BytesPerSample()
}

// readFrames reads whole sample frames of frameSize bytes from r into p.
// It returns io.EOF once nothing is left.
func readFrames(r io.Reader, p []byte, frameSize int) (int, error) {
	p = p[:len(p)/frameSize*frameSize]
	n, err := io.ReadFull(r, p)
	n = n / frameSize * frameSize
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return n, nil
	case errors.Is(err, io.EOF) && n == 0:
		return 0, io.EOF
	}
	return n, err
}

// WAV format tags.
const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// floatScale maps float WAV samples in +-1 to the encoder float range.
const floatScale = 32768

// wavSource reads integer and IEEE float WAV files. Extensible files are
// read as integer PCM.
type wavSource struct {
	f        *os.File
	dec      *wav.Decoder
	channels int
	format   aacenc.InputFormat
	buf      audio.IntBuffer
	pending  []int // Decoded samples not yet returned
	eof      bool
}

// newWAVSource reads the header chunks of f and positions the decoder on
// the samples.
func newWAVSource(f *os.File) (*wavSource, error) {
	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotWAV, err)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, errNoFormat
	}

	s := &wavSource{f: f, dec: dec, channels: int(dec.NumChans)}
	tag, depth := dec.WavAudioFormat, dec.BitDepth
	switch {
	case (tag == wavFormatPCM || tag == wavFormatExtensible) && depth == 16:
		s.format = aacenc.InputFormat16Bit
	case (tag == wavFormatPCM || tag == wavFormatExtensible) && depth == 24:
		s.format = aacenc.InputFormat24Bit
	case (tag == wavFormatPCM || tag == wavFormatExtensible) && depth == 32:
		s.format = aacenc.InputFormat32Bit
	case tag == wavFormatFloat && depth == 32:
		s.format = aacenc.InputFormatFloat
	default:
		return nil, fmt.Errorf("%w: format tag %d with %d bits", errSampleFormat, tag, depth)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", errNoData, err)
	}
	return s, nil
}

func (s *wavSource) SampleRate() int                 { return int(s.dec.SampleRate) }
func (s *wavSource) Channels() int                   { return s.channels }
func (s *wavSource) InputFormat() aacenc.InputFormat { return s.format }
func (s *wavSource) Close() error                    { return s.f.Close() }

func (s *wavSource) Read(p []byte) (int, error) {
	size := bytesPerSample(s.format)
	want := len(p) / (s.channels * size) * s.channels
	for len(s.pending) < want && !s.eof {
		if err := s.fill(want - len(s.pending)); err != nil {
			return 0, err
		}
	}
	n := min(len(s.pending), want) / s.channels * s.channels
	if n == 0 {
		return 0, io.EOF
	}

	out := p[:0]
	for _, v := range s.pending[:n] {
		if s.format == aacenc.InputFormatFloat {
			f := math.Float32frombits(uint32(int32(v))) * floatScale
			v = int(int32(math.Float32bits(f)))
		}
		out = appendSample(out, int32(v), size)
	}
	s.pending = append(s.pending[:0], s.pending[n:]...)
	return len(out), nil
}

// fill decodes up to n more samples into pending.
func (s *wavSource) fill(n int) error {
	if cap(s.buf.Data) < n {
		s.buf.Data = make([]int, n)
	}
	s.buf.Data = s.buf.Data[:n]
	got, err := s.dec.PCMBuffer(&s.buf)
	s.pending = append(s.pending, s.buf.Data[:got]...)
	switch {
	case errors.Is(err, io.EOF), err == nil && got == 0:
		s.eof = true
	case err != nil:
		return err
	}
	return nil
}

// appendSample appends the size low bytes of v in little-endian order.
func appendSample(buf []byte, v int32, size int) []byte {
	for i := 0; i < size; i++ {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}

// mp3Source decodes MP3 to 16-bit stereo.
type mp3Source struct {
	f   *os.File
	dec *mp3.Decoder
}

func newMP3Source(f *os.File) (*mp3Source, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	return &mp3Source{f: f, dec: dec}, nil
}

func (s *mp3Source) SampleRate() int                 { return s.dec.SampleRate() }
func (s *mp3Source) Channels() int                   { return 2 }
func (s *mp3Source) InputFormat() aacenc.InputFormat { return aacenc.InputFormat16Bit }
func (s *mp3Source) Close() error                    { return s.f.Close() }

func (s *mp3Source) Read(p []byte) (int, error) {
	return readFrames(s.dec, p, 4)
}

// flacSource decodes FLAC frames and packs their samples as 16-bit or
// 24-bit little-endian values.
type flacSource struct {
	f        *os.File
	stream   *flac.Stream
	format   aacenc.InputFormat
	shift    int // Left shift from the stream bit depth to the packed size
	channels int
	pending  []byte // Packed samples of the current frame not yet read
}

func newFLACSource(f *os.File) (*flacSource, error) {
	stream, err := flac.New(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode flac: %w", err)
	}
	s := &flacSource{f: f, stream: stream, channels: int(stream.Info.NChannels)}
	bps := int(stream.Info.BitsPerSample)
	switch {
	case bps <= 16:
		s.format, s.shift = aacenc.InputFormat16Bit, 16-bps
	case bps <= 24:
		s.format, s.shift = aacenc.InputFormat24Bit, 24-bps
	default:
		return nil, fmt.Errorf("%w: %d-bit flac", errSampleFormat, bps)
	}
	return s, nil
}

func (s *flacSource) SampleRate() int                 { return int(s.stream.Info.SampleRate) }
func (s *flacSource) Channels() int                   { return s.channels }
func (s *flacSource) InputFormat() aacenc.InputFormat { return s.format }
func (s *flacSource) Close() error                    { return s.f.Close() }

func (s *flacSource) Read(p []byte) (int, error) {
	frameSize := s.channels * bytesPerSample(s.format)
	p = p[:len(p)/frameSize*frameSize]
	n := 0
	for n < len(p) {
		if len(s.pending) == 0 {
			if err := s.next(); err != nil {
				if errors.Is(err, io.EOF) && n > 0 {
					return n, nil
				}
				return n, err
			}
		}
		c := copy(p[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}
	return n, nil
}

// next decodes one FLAC frame into pending.
func (s *flacSource) next() error {
	fr, err := s.stream.ParseNext()
	if err != nil {
		return err
	}
	size := bytesPerSample(s.format)
	buf := s.pending[:0]
	for i := 0; i < int(fr.BlockSize); i++ {
		for ch := 0; ch < s.channels; ch++ {
			buf = appendSample(buf, fr.Subframes[ch].Samples[i]<<s.shift, size)
		}
	}
	s.pending = buf
	return nil
}
