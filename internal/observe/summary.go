package observe

import (
	"context"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Summary totals the encoder metrics of one run.
type Summary struct {
	Units       int64
	Bytes       int64
	FilesOK     int64
	FilesFailed int64
	MeanEncode  time.Duration // Mean latency per access unit
}

// Collect reads reader and totals every data point of the encoder
// instruments.
func Collect(ctx context.Context, reader *sdkmetric.ManualReader) (Summary, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return Summary{}, err
	}

	var s Summary
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != meterName {
			continue
		}
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					switch m.Name {
					case NameUnits:
						s.Units += dp.Value
					case NameBytes:
						s.Bytes += dp.Value
					case NameFiles:
						if v, ok := dp.Attributes.Value("status"); ok && v.AsString() == StatusOK {
							s.FilesOK += dp.Value
						} else {
							s.FilesFailed += dp.Value
						}
					}
				}
			case metricdata.Histogram[float64]:
				if m.Name != NameDuration {
					continue
				}
				var sum float64
				var count uint64
				for _, dp := range data.DataPoints {
					sum += dp.Sum
					count += dp.Count
				}
				if count > 0 {
					s.MeanEncode = time.Duration(sum / float64(count) * float64(time.Second))
				}
			}
		}
	}
	return s, nil
}

// BitRate returns the average bit rate of the summary for the given
// sample rate, assuming 1024-sample access units.
func (s Summary) BitRate(sampleRate int) float64 {
	if s.Units == 0 {
		return 0
	}
	seconds := float64(s.Units*1024) / float64(sampleRate)
	return float64(s.Bytes*8) / seconds
}
