package telemetry

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnext/internal/backend/cpu"
	"github.com/born-ml/resnext/internal/resnext"
	"github.com/born-ml/resnext/internal/tensor"
)

func TestRecorder_ForwardPass(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	var logs bytes.Buffer
	rec := NewRecorder(zerolog.New(&logs).Level(zerolog.DebugLevel), m)

	backend := cpu.New()
	cfg := resnext.NewConfig([resnext.NumStages]int{1, 1, 1, 1}, 10)
	net, err := resnext.NewNetwork[*cpu.CPUBackend](cfg, resnext.NewBottleneckFactory(cfg.Block, backend), backend)
	require.NoError(t, err)
	net.SetHooks(rec)

	net.Forward(tensor.Randn(tensor.Shape{2, 3, 8, 8}, backend))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.forwardsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.imagesTotal))
	assert.Equal(t, 6, testutil.CollectAndCount(m.stageDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.forwardDuration))

	out := logs.String()
	assert.Contains(t, out, `"stage":"stage3"`)
	assert.Contains(t, out, `"shape":[2,1024,2,2]`)
	assert.Contains(t, out, `"message":"forward pass"`)
	assert.Equal(t, 7, strings.Count(out, "\n"))

	var text bytes.Buffer
	require.NoError(t, WriteText(&text, reg))
	assert.Contains(t, text.String(), "resnext_forward_passes_total 1")
	assert.Contains(t, text.String(), `resnext_forward_stage_duration_seconds_count{stage="head"} 1`)
}

func TestRecorder_InfoLevelSkipsSections(t *testing.T) {
	var logs bytes.Buffer
	rec := NewRecorder(zerolog.New(&logs).Level(zerolog.InfoLevel), nil)

	rec.StageCompleted("stem", tensor.Shape{1, 64, 8, 8}, time.Millisecond)
	assert.Empty(t, logs.String())

	rec.ForwardCompleted(4, 3*time.Millisecond)
	assert.Contains(t, logs.String(), `"batch":4`)
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "warn", false)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	log, err = NewLogger(&buf, "", true)
	require.NoError(t, err)
	log.Info().Msg("console")
	assert.Contains(t, buf.String(), "INF console")

	_, err = NewLogger(&buf, "loud", false)
	assert.Error(t, err)
}
