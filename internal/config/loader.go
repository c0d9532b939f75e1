// Package config loads network and runtime settings from YAML, TOML or
// JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/resnext/internal/parallel"
	"github.com/born-ml/resnext/internal/resnext"
)

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported config extension")

// File is the on-disk configuration.
// Zero values mean "unspecified" and are replaced by the canonical
// 50-layer settings.
type File struct {
	Model   resnext.NetworkConfig `json:"model" yaml:"model" toml:"model"`
	Runtime Runtime               `json:"runtime" yaml:"runtime" toml:"runtime"`
}

// Runtime controls the CPU backend and logging.
type Runtime struct {
	// Workers is the kernel worker count; 0 means one per CPU.
	Workers int `json:"workers" yaml:"workers" toml:"workers"`
	// Sequential disables worker fan-out entirely.
	Sequential bool `json:"sequential" yaml:"sequential" toml:"sequential"`
	// LogLevel is a zerolog level name.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Default returns the canonical configuration.
func Default() File {
	f := File{}
	f.ApplyDefaults()
	return f
}

// Load reads a configuration file based on its extension, fills in
// defaults and validates the model section.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(b, filepath.Ext(path), &f); err != nil {
		return f, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	f.ApplyDefaults()
	if err := f.Model.Validate(); err != nil {
		return f, fmt.Errorf("config %s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// Decode unmarshals b into f using the format named by ext.
func Decode(b []byte, ext string, f *File) error {
	switch ext = strings.ToLower(ext); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, f)
	case ".json":
		return json.Unmarshal(b, f)
	case ".toml":
		return toml.Unmarshal(b, f)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ApplyDefaults replaces unspecified fields with canonical values.
func (f *File) ApplyDefaults() {
	canon := resnext.ResNeXt50Config()
	m := &f.Model

	if m.InChannels == 0 {
		m.InChannels = canon.InChannels
	}
	if m.StemWidth == 0 {
		m.StemWidth = canon.StemWidth
	}
	if m.NumClasses == 0 {
		m.NumClasses = canon.NumClasses
	}
	if len(m.Stages) == 0 {
		m.Stages = canon.Stages
	}
	for i := range m.Stages {
		if i >= len(canon.Stages) {
			break
		}
		s := &m.Stages[i]
		if s.Blocks == 0 {
			s.Blocks = canon.Stages[i].Blocks
		}
		if s.Width == 0 {
			s.Width = canon.Stages[i].Width
		}
		if s.Stride == 0 {
			s.Stride = canon.Stages[i].Stride
		}
	}

	b := &m.Block
	if b.Cardinality == 0 {
		b.Cardinality = canon.Block.Cardinality
	}
	if b.DepthPerGroup == 0 {
		b.DepthPerGroup = canon.Block.DepthPerGroup
	}
	if b.BaseWidth == 0 {
		b.BaseWidth = canon.Block.BaseWidth
	}
	if b.Expansion == 0 {
		b.Expansion = canon.Block.Expansion
	}

	if f.Runtime.LogLevel == "" {
		f.Runtime.LogLevel = "info"
	}
}

// Parallel returns the kernel worker configuration for the runtime section.
func (r Runtime) Parallel() parallel.Config {
	if r.Sequential {
		return parallel.Sequential()
	}
	cfg := parallel.DefaultConfig()
	if r.Workers > 0 {
		cfg.NumWorkers = r.Workers
		cfg.Enabled = r.Workers > 1
	} else {
		cfg.NumWorkers = runtime.GOMAXPROCS(0)
		cfg.Enabled = cfg.NumWorkers > 1
	}
	return cfg
}
