package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnext/internal/resnext"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadYAML(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "net.yaml", `
model:
  num_classes: 10
  stages:
    - {blocks: 1, width: 64, stride: 1}
    - {blocks: 2, width: 128, stride: 2}
    - {blocks: 2, width: 256, stride: 2}
    - {blocks: 1, width: 512, stride: 2}
  block:
    cardinality: 16
runtime:
  workers: 2
  log_level: debug
`)
	f, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 10, f.Model.NumClasses)
	assert.Equal(t, 3, f.Model.InChannels)
	assert.Equal(t, 64, f.Model.StemWidth)
	assert.Equal(t, 16, f.Model.Block.Cardinality)
	assert.Equal(t, 4, f.Model.Block.DepthPerGroup)
	assert.Equal(t, 2, f.Model.Stages[1].Blocks)
	assert.Equal(t, "debug", f.Runtime.LogLevel)

	pc := f.Runtime.Parallel()
	assert.True(t, pc.Enabled)
	assert.Equal(t, 2, pc.NumWorkers)
}

func TestLoadTOML(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "net.toml", `
[model]
num_classes = 1000

[[model.stages]]
blocks = 3
[[model.stages]]
blocks = 4
[[model.stages]]
blocks = 23
[[model.stages]]
blocks = 3

[runtime]
sequential = true
`)
	f, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 1000, f.Model.NumClasses)
	require.Len(t, f.Model.Stages, 4)
	assert.Equal(t, resnext.StageConfig{Blocks: 23, Width: 256, Stride: 2}, f.Model.Stages[2])
	assert.Equal(t, 101, f.Model.Depth())
	assert.False(t, f.Runtime.Parallel().Enabled)
	assert.Equal(t, "info", f.Runtime.LogLevel)
}

func TestLoadJSON(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "net.json", `{"model":{"num_classes":5,"stem_width":128}}`)
	f, err := Load(p)
	require.NoError(t, err)

	want := resnext.ResNeXt50Config()
	want.NumClasses = 5
	want.StemWidth = 128
	assert.Equal(t, want, f.Model)
}

func TestLoadEmptyFileIsCanonical(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "empty.yml", "")
	f, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, resnext.ResNeXt50Config(), f.Model)
	assert.Equal(t, Default(), f)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	dir := t.TempDir()
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeTempFile(t, dir, "cfg.txt", "not supported"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeTempFile(t, dir, "bad.json", `{"model":`))
	assert.Error(t, err)

	_, err = Load(writeTempFile(t, dir, "three.yaml", `
model:
  stages:
    - {blocks: 1}
    - {blocks: 1}
    - {blocks: 1}
`))
	assert.ErrorIs(t, err, resnext.ErrStageCount)

	_, err = Load(writeTempFile(t, dir, "odd.toml", "[model]\nstem_width = 48\n"))
	assert.ErrorIs(t, err, resnext.ErrChannelsNotDivisible)
}
