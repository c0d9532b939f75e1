// Package telemetry records forward-pass timings as zerolog events and
// Prometheus metrics.
package telemetry

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the forward-pass collectors.
type Metrics struct {
	forwardsTotal   prometheus.Counter
	imagesTotal     prometheus.Counter
	forwardDuration prometheus.Histogram
	stageDuration   *prometheus.HistogramVec
}

// Buckets for pass and section timings, 1ms to ~65s.
var durationBuckets = prometheus.ExponentialBuckets(0.001, 2, 17)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		forwardsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resnext",
			Subsystem: "forward",
			Name:      "passes_total",
			Help:      "Total number of forward passes",
		}),
		imagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resnext",
			Subsystem: "forward",
			Name:      "images_total",
			Help:      "Total number of images classified",
		}),
		forwardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "resnext",
			Subsystem: "forward",
			Name:      "duration_seconds",
			Help:      "Duration of whole forward passes in seconds",
			Buckets:   durationBuckets,
		}),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "resnext",
				Subsystem: "forward",
				Name:      "stage_duration_seconds",
				Help:      "Duration of each network section in seconds",
				Buckets:   durationBuckets,
			},
			[]string{"stage"},
		),
	}

	for _, c := range []prometheus.Collector{m.forwardsTotal, m.imagesTotal, m.forwardDuration, m.stageDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
