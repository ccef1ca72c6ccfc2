// Command aacenc encodes WAV, FLAC and MP3 files to AAC.
//
// Usage:
//
//	aacenc [flags] input...
//
// Each input is written next to itself with the .aac extension, or to -o.
// Several inputs are encoded in parallel with -j.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/go-aacenc/internal/observe"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // At least one input failed
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command and returns its exit code.
func run(args []string, stderr io.Writer) int {
	opts := defaultOptions()
	fs := newFlagSet(&opts, stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: aacenc [flags] input...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	inputs := fs.Args()
	if len(inputs) == 0 {
		fs.Usage()
		return exitUsage
	}

	if opts.Preset != "" {
		p, err := loadPreset(opts.Preset)
		if err != nil {
			fmt.Fprintln(stderr, "aacenc:", err)
			return exitUsage
		}
		p.apply(&opts, set)
	}
	if err := opts.validate(); err != nil {
		fmt.Fprintln(stderr, "aacenc: invalid options:", err)
		return exitUsage
	}
	level, err := zerolog.ParseLevel(opts.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, "aacenc: invalid log level:", err)
		return exitUsage
	}
	// Jobs log concurrently.
	out := zerolog.SyncWriter(stderr)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	ext := ".aac"
	if opts.Raw {
		ext = ".loas"
	}
	outputs, err := outputPaths(inputs, opts.Output, ext)
	if err != nil {
		logger.Error().Err(err).Msg("invalid output")
		return exitUsage
	}

	ctx := context.Background()
	metrics := observe.DefaultMetrics()
	var reader *sdkmetric.ManualReader
	if opts.Stats {
		reader = sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() { _ = mp.Shutdown(ctx) }()
		if metrics, err = observe.NewMetrics(mp); err != nil {
			logger.Error().Err(err).Msg("create metrics")
			return exitFailure
		}
	}

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(opts.Jobs)
	for i, in := range inputs {
		g.Go(func() error {
			log := logger.With().Str("input", in).Logger()
			job := job{input: in, output: outputs[i], opts: &opts, metrics: metrics, log: log}
			if err := job.run(ctx); err != nil {
				failed.Add(1)
				metrics.RecordFile(ctx, observe.StatusError)
				log.Error().Err(err).Msg("encoding failed")
				return nil
			}
			metrics.RecordFile(ctx, observe.StatusOK)
			return nil
		})
	}
	_ = g.Wait()

	if reader != nil {
		s, err := observe.Collect(ctx, reader)
		if err != nil {
			logger.Error().Err(err).Msg("collect metrics")
		} else {
			logger.Info().
				Int64("files", s.FilesOK).
				Int64("failed", s.FilesFailed).
				Int64("units", s.Units).
				Int64("bytes", s.Bytes).
				Dur("mean_encode", s.MeanEncode).
				Msg("summary")
		}
	}

	if failed.Load() > 0 {
		return exitFailure
	}
	return exitOK
}
