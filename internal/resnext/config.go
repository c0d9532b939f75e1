package resnext

import (
	"fmt"
)

// NumStages is the number of stages between the stem and the head.
const NumStages = 4

// BlockConfig holds the bottleneck constants shared by every block of a
// network. They are explicit values rather than package state so a block
// can be built and tested in isolation.
type BlockConfig struct {
	// Cardinality is the number of convolution groups.
	Cardinality int `json:"cardinality" yaml:"cardinality" toml:"cardinality"`
	// DepthPerGroup is the per-group channel count at BaseWidth.
	DepthPerGroup int `json:"depth_per_group" yaml:"depth_per_group" toml:"depth_per_group"`
	// BaseWidth is the nominal stage width at which a group has
	// DepthPerGroup channels.
	BaseWidth int `json:"base_width" yaml:"base_width" toml:"base_width"`
	// Expansion multiplies a stage's nominal width to give its output
	// channel count.
	Expansion int `json:"expansion" yaml:"expansion" toml:"expansion"`
}

// DefaultBlockConfig returns the 32x4d configuration: 32 groups of 4
// channels at width 64, expanded ×4.
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		Cardinality:   32,
		DepthPerGroup: 4,
		BaseWidth:     64,
		Expansion:     4,
	}
}

// GroupWidth returns the channels per group for a nominal width:
// floor(DepthPerGroup * width / BaseWidth).
func (c BlockConfig) GroupWidth(width int) int {
	return c.DepthPerGroup * width / c.BaseWidth
}

// InnerChannels returns the width of the grouped transform,
// Cardinality × GroupWidth(width).
func (c BlockConfig) InnerChannels(width int) int {
	return c.Cardinality * c.GroupWidth(width)
}

// OutChannels returns width × Expansion.
func (c BlockConfig) OutChannels(width int) int {
	return width * c.Expansion
}

// Validate checks that all constants are positive.
func (c BlockConfig) Validate() error {
	if c.Cardinality <= 0 || c.DepthPerGroup <= 0 || c.BaseWidth <= 0 || c.Expansion <= 0 {
		return fmt.Errorf("%w: cardinality=%d depth_per_group=%d base_width=%d expansion=%d",
			ErrInvalidBlockConfig, c.Cardinality, c.DepthPerGroup, c.BaseWidth, c.Expansion)
	}
	return nil
}

// CheckBlock validates the arguments of one bottleneck block against this
// configuration.
func (c BlockConfig) CheckBlock(inChannels, width, stride int) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if inChannels <= 0 || width <= 0 || stride <= 0 {
		return fmt.Errorf("%w: in_channels=%d width=%d stride=%d",
			ErrInvalidBlockConfig, inChannels, width, stride)
	}
	if c.GroupWidth(width) == 0 {
		return fmt.Errorf("%w: width %d gives zero channels per group (depth_per_group=%d, base_width=%d)",
			ErrInvalidBlockConfig, width, c.DepthPerGroup, c.BaseWidth)
	}
	if inChannels%c.Cardinality != 0 {
		return fmt.Errorf("%w: in_channels=%d, cardinality=%d",
			ErrChannelsNotDivisible, inChannels, c.Cardinality)
	}
	return nil
}

// StageConfig describes one run of blocks sharing a nominal width.
type StageConfig struct {
	Blocks int `json:"blocks" yaml:"blocks" toml:"blocks"`
	Width  int `json:"width" yaml:"width" toml:"width"`
	Stride int `json:"stride" yaml:"stride" toml:"stride"`
}

// Strides returns the per-block strides: Stride for the first block and 1
// for the rest.
func (s StageConfig) Strides() []int {
	strides := make([]int, s.Blocks)
	for i := range strides {
		strides[i] = 1
	}
	if s.Blocks > 0 {
		strides[0] = s.Stride
	}
	return strides
}

// Validate checks that the stage has at least one block and positive
// width and stride.
func (s StageConfig) Validate() error {
	if s.Blocks <= 0 || s.Width <= 0 || s.Stride <= 0 {
		return fmt.Errorf("%w: blocks=%d width=%d stride=%d", ErrInvalidStage, s.Blocks, s.Width, s.Stride)
	}
	return nil
}

// NetworkConfig describes a full ResNeXt classifier.
type NetworkConfig struct {
	InChannels int           `json:"in_channels" yaml:"in_channels" toml:"in_channels"`
	StemWidth  int           `json:"stem_width" yaml:"stem_width" toml:"stem_width"`
	NumClasses int           `json:"num_classes" yaml:"num_classes" toml:"num_classes"`
	Stages     []StageConfig `json:"stages" yaml:"stages" toml:"stages"`
	Block      BlockConfig   `json:"block" yaml:"block" toml:"block"`
}

// StageWidths and StageStrides are the canonical per-stage settings.
var (
	StageWidths  = [NumStages]int{64, 128, 256, 512}
	StageStrides = [NumStages]int{1, 2, 2, 2}
)

// Depth50 is the per-stage block count of the 50-layer variant.
var Depth50 = [NumStages]int{3, 4, 6, 3}

// NewConfig builds a configuration with the canonical widths and strides,
// the given per-stage block counts and the given class count.
func NewConfig(blocks [NumStages]int, numClasses int) NetworkConfig {
	stages := make([]StageConfig, NumStages)
	for i := range stages {
		stages[i] = StageConfig{Blocks: blocks[i], Width: StageWidths[i], Stride: StageStrides[i]}
	}
	return NetworkConfig{
		InChannels: 3,
		StemWidth:  64,
		NumClasses: numClasses,
		Stages:     stages,
		Block:      DefaultBlockConfig(),
	}
}

// DefaultConfig returns the 50-layer configuration with the generic
// 1000-class head.
func DefaultConfig() NetworkConfig {
	return NewConfig(Depth50, 1000)
}

// ResNeXt50Config returns the canonical 50-layer configuration with the
// 100-class head.
func ResNeXt50Config() NetworkConfig {
	return NewConfig(Depth50, 100)
}

// Validate checks the whole configuration, including the channel
// bookkeeping of every block the network would build.
func (c NetworkConfig) Validate() error {
	if c.InChannels <= 0 || c.StemWidth <= 0 || c.NumClasses <= 0 {
		return fmt.Errorf("%w: in_channels=%d stem_width=%d num_classes=%d",
			ErrInvalidNetwork, c.InChannels, c.StemWidth, c.NumClasses)
	}
	if len(c.Stages) != NumStages {
		return fmt.Errorf("%w: got %d", ErrStageCount, len(c.Stages))
	}
	if err := c.Block.Validate(); err != nil {
		return err
	}

	in := c.StemWidth
	for i, stage := range c.Stages {
		if err := stage.Validate(); err != nil {
			return fmt.Errorf("stage %d: %w", i+1, err)
		}
		for j, stride := range stage.Strides() {
			if err := c.Block.CheckBlock(in, stage.Width, stride); err != nil {
				return fmt.Errorf("stage %d block %d: %w", i+1, j+1, err)
			}
			in = c.Block.OutChannels(stage.Width)
		}
	}
	return nil
}

// StageChannels returns the running channel count after each stage.
func (c NetworkConfig) StageChannels() []int {
	channels := make([]int, len(c.Stages))
	for i, stage := range c.Stages {
		channels[i] = c.Block.OutChannels(stage.Width)
	}
	return channels
}

// FeatureChannels returns the channel count entering the classifier head.
func (c NetworkConfig) FeatureChannels() int {
	if len(c.Stages) == 0 {
		return c.StemWidth
	}
	return c.Block.OutChannels(c.Stages[len(c.Stages)-1].Width)
}

// Depth returns the number of weighted layers on the main path:
// stem + 3 per block + head.
func (c NetworkConfig) Depth() int {
	blocks := 0
	for _, stage := range c.Stages {
		blocks += stage.Blocks
	}
	return 1 + 3*blocks + 1
}
