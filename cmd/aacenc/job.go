package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/go-aacenc"
	"github.com/llehouerou/go-aacenc/internal/bits"
	"github.com/llehouerou/go-aacenc/internal/observe"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// job encodes one input file.
type job struct {
	input   string
	output  string
	opts    *options
	metrics *observe.Metrics
	log     zerolog.Logger
}

// outputPaths returns the output file of every input, named with ext. A
// single input is written to output when it is set; otherwise output names
// a directory.
func outputPaths(inputs []string, output, ext string) ([]string, error) {
	paths := make([]string, len(inputs))
	if len(inputs) == 1 && output != "" {
		if fi, err := os.Stat(output); err != nil || !fi.IsDir() {
			paths[0] = output
			return paths, nil
		}
	}
	if output != "" {
		fi, err := os.Stat(output)
		if err != nil {
			return nil, fmt.Errorf("output directory: %w", err)
		}
		if !fi.IsDir() {
			return nil, fmt.Errorf("output %q must be a directory for %d inputs", output, len(inputs))
		}
	}

	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		base := strings.TrimSuffix(in, filepath.Ext(in)) + ext
		if output != "" {
			base = filepath.Join(output, filepath.Base(base))
		}
		if prev, ok := seen[base]; ok {
			return nil, fmt.Errorf("inputs %q and %q both write %q", prev, in, base)
		}
		seen[base] = in
		paths[i] = base
	}
	return paths, nil
}

func (j *job) run(ctx context.Context) error {
	start := time.Now()
	src, err := openSource(j.input)
	if err != nil {
		return err
	}
	defer src.Close()

	enc, err := aacenc.Open(src.SampleRate(), src.Channels())
	if err != nil {
		return err
	}
	defer enc.Close()
	cfg, err := enc.CurrentConfiguration()
	if err != nil {
		return err
	}
	j.opts.configure(&cfg, src.InputFormat())
	if err := enc.SetConfiguration(cfg); err != nil {
		return err
	}
	var framer *loasFramer
	if j.opts.Raw {
		asc, err := enc.DecoderSpecificInfo()
		if err != nil {
			return err
		}
		if framer, err = newLOASFramer(asc); err != nil {
			return err
		}
		j.log.Debug().Str("asc", hex.EncodeToString(asc)).Msg("raw output in LOAS frames")
	}
	j.log.Debug().
		Int("sample_rate", src.SampleRate()).
		Int("channels", src.Channels()).
		Int("bit_rate", cfg.BitRate).
		Msg("encoding")

	f, err := os.Create(j.output)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	var out io.Writer = w
	if framer != nil {
		framer.w = w
		out = framer
	}
	units, bytes, err := j.encode(ctx, src, enc, out)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(j.output)
		return err
	}

	j.log.Info().
		Str("output", j.output).
		Int("units", units).
		Int("bytes", bytes).
		Dur("elapsed", time.Since(start)).
		Msg("encoded")
	return nil
}

// loasConfigInterval is the number of frames between repeated
// StreamMuxConfigs.
const loasConfigInterval = 32

// loasFramer wraps each access unit written to it in a LOAS frame. Every
// loasConfigInterval-th frame repeats the decoder configuration, so a
// decoder can start at any of them.
type loasFramer struct {
	w      io.Writer
	config syntax.AudioSpecificConfig
	frames int
	bits   bits.Writer
}

func newLOASFramer(asc []byte) (*loasFramer, error) {
	c, err := syntax.ParseAudioSpecificConfig(asc)
	if err != nil {
		return nil, fmt.Errorf("decoder specific info: %w", err)
	}
	return &loasFramer{config: c}, nil
}

// Write writes au, one whole access unit, as one LOAS frame.
func (l *loasFramer) Write(au []byte) (int, error) {
	f := syntax.LOASFrame{Payload: au}
	if l.frames%loasConfigInterval == 0 {
		f.Config = &l.config
	}
	l.bits.Reset()
	if err := syntax.WriteLOAS(&l.bits, &f); err != nil {
		return 0, err
	}
	if _, err := l.w.Write(l.bits.Bytes()); err != nil {
		return 0, err
	}
	l.frames++
	return len(au), nil
}

// encode feeds src to enc and writes the access units to w, one Write per
// unit.
func (j *job) encode(ctx context.Context, src Source, enc *aacenc.Encoder, w io.Writer) (units, total int, err error) {
	in := make([]byte, enc.InputSamples()*bytesPerSample(src.InputFormat()))
	out := make([]byte, enc.MaxOutputBytes())

	write := func(n int, d time.Duration) error {
		if n == 0 {
			return nil
		}
		j.metrics.RecordUnit(ctx, j.opts.Profile, n, d)
		units++
		total += n
		_, err := w.Write(out[:n])
		return err
	}

	for {
		n, rerr := src.Read(in)
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return units, total, fmt.Errorf("read input: %w", rerr)
		}
		if n > 0 {
			t := time.Now()
			written, err := enc.Encode(in[:n], out)
			if err != nil {
				return units, total, err
			}
			if err := write(written, time.Since(t)); err != nil {
				return units, total, err
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
	}

	for {
		t := time.Now()
		written, err := enc.Encode(nil, out)
		if err != nil {
			return units, total, err
		}
		if written == 0 {
			return units, total, nil
		}
		if err := write(written, time.Since(t)); err != nil {
			return units, total, err
		}
	}
}
