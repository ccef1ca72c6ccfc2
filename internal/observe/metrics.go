// Package observe provides the OpenTelemetry metric instruments of the
// encoder command: access units, bytes written, per unit encode latency
// and files processed.
//
// Instruments are created from a caller supplied [metric.MeterProvider];
// tests and the -stats summary use an SDK provider with a ManualReader.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope of all encoder metrics.
const meterName = "github.com/llehouerou/go-aacenc"

// Metric names.
const (
	NameUnits    = "aacenc.units"
	NameBytes    = "aacenc.bytes"
	NameDuration = "aacenc.encode.duration"
	NameFiles    = "aacenc.files"
)

// File outcomes recorded with RecordFile.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the encoder instruments. All fields are safe for
// concurrent use.
type Metrics struct {
	// Units counts encoded access units. Use with attribute.String("profile", ...).
	Units metric.Int64Counter

	// Bytes counts access unit bytes, headers included.
	Bytes metric.Int64Counter

	// EncodeDuration tracks the time of one Encode call that returned a unit.
	EncodeDuration metric.Float64Histogram

	// Files counts processed inputs. Use with attribute.String("status", ...).
	Files metric.Int64Counter
}

// durationBuckets are histogram boundaries in seconds for one frame.
var durationBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05,
}

// NewMetrics creates the instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Units, err = m.Int64Counter(NameUnits,
		metric.WithDescription("Encoded access units."),
		metric.WithUnit("{unit}"),
	); err != nil {
		return nil, err
	}
	if met.Bytes, err = m.Int64Counter(NameBytes,
		metric.WithDescription("Bytes of encoded access units."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.EncodeDuration, err = m.Float64Histogram(NameDuration,
		metric.WithDescription("Latency of encoding one access unit."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Files, err = m.Int64Counter(NameFiles,
		metric.WithDescription("Processed input files by status."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instruments created from the
// global meter provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordUnit records one access unit of n bytes encoded in d.
func (m *Metrics) RecordUnit(ctx context.Context, profile string, n int, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("profile", profile))
	m.Units.Add(ctx, 1, attrs)
	m.Bytes.Add(ctx, int64(n), attrs)
	m.EncodeDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordFile records the outcome of one input file.
func (m *Metrics) RecordFile(ctx context.Context, status string) {
	m.Files.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
