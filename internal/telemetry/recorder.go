package telemetry

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/born-ml/resnext/internal/resnext"
	"github.com/born-ml/resnext/internal/tensor"
)

var _ resnext.Hooks = (*Recorder)(nil)

// Recorder implements resnext.Hooks. Sections are logged at debug level,
// whole passes at info level. Metrics may be nil.
type Recorder struct {
	log     zerolog.Logger
	metrics *Metrics
}

// NewRecorder returns a Recorder writing to log and m.
func NewRecorder(log zerolog.Logger, m *Metrics) *Recorder {
	return &Recorder{log: log, metrics: m}
}

// StageCompleted implements resnext.Hooks.
func (r *Recorder) StageCompleted(stage string, output tensor.Shape, elapsed time.Duration) {
	r.log.Debug().
		Str("stage", stage).
		Ints("shape", output).
		Dur("elapsed", elapsed).
		Msg("section done")
	if r.metrics != nil {
		r.metrics.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	}
}

// ForwardCompleted implements resnext.Hooks.
func (r *Recorder) ForwardCompleted(batch int, elapsed time.Duration) {
	r.log.Info().
		Int("batch", batch).
		Dur("elapsed", elapsed).
		Msg("forward pass")
	if r.metrics != nil {
		r.metrics.forwardsTotal.Inc()
		r.metrics.imagesTotal.Add(float64(batch))
		r.metrics.forwardDuration.Observe(elapsed.Seconds())
	}
}
