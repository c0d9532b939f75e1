// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package resnext

import (
	"github.com/born-ml/resnext/backend/cpu"
	"github.com/born-ml/resnext/internal/resnext"
	"github.com/born-ml/resnext/tensor"
)

// Configuration

// BlockConfig holds the bottleneck constants shared by every block.
type BlockConfig = resnext.BlockConfig

// StageConfig describes one run of blocks sharing a nominal width.
type StageConfig = resnext.StageConfig

// NetworkConfig describes a full classifier.
type NetworkConfig = resnext.NetworkConfig

// NumStages is the number of residual stages.
const NumStages = resnext.NumStages

// DefaultBlockConfig returns the 32x4d block constants.
func DefaultBlockConfig() BlockConfig {
	return resnext.DefaultBlockConfig()
}

// DefaultConfig returns the 50-layer configuration with a 1000-class head.
func DefaultConfig() NetworkConfig {
	return resnext.DefaultConfig()
}

// ResNeXt50Config returns the 50-layer configuration with a 100-class head.
func ResNeXt50Config() NetworkConfig {
	return resnext.ResNeXt50Config()
}

// Configuration errors, for use with errors.Is.
var (
	ErrInvalidBlockConfig   = resnext.ErrInvalidBlockConfig
	ErrChannelsNotDivisible = resnext.ErrChannelsNotDivisible
	ErrInvalidStage         = resnext.ErrInvalidStage
	ErrStageCount           = resnext.ErrStageCount
	ErrInvalidNetwork       = resnext.ErrInvalidNetwork
)

// Blocks

// Block is a residual unit.
type Block[B tensor.Backend] = resnext.Block[B]

// BlockFactory builds the blocks of a network.
type BlockFactory[B tensor.Backend] = resnext.BlockFactory[B]

// BlockFactoryFunc adapts a function to BlockFactory.
type BlockFactoryFunc[B tensor.Backend] = resnext.BlockFactoryFunc[B]

// BottleneckBlock is the ResNeXt grouped-convolution residual unit.
type BottleneckBlock[B tensor.Backend] = resnext.BottleneckBlock[B]

// BottleneckFactory builds BottleneckBlocks.
type BottleneckFactory[B tensor.Backend] = resnext.BottleneckFactory[B]

// NewBottleneckBlock creates a block mapping inChannels to
// width*cfg.Expansion channels.
func NewBottleneckBlock[B tensor.Backend](cfg BlockConfig, inChannels, width, stride int, backend B) (*BottleneckBlock[B], error) {
	return resnext.NewBottleneckBlock(cfg, inChannels, width, stride, backend)
}

// NewBottleneckFactory returns a factory using cfg for every block.
func NewBottleneckFactory[B tensor.Backend](cfg BlockConfig, backend B) *BottleneckFactory[B] {
	return resnext.NewBottleneckFactory(cfg, backend)
}

// Network

// Network is a ResNeXt image classifier.
type Network[B tensor.Backend] = resnext.Network[B]

// Stage is a run of residual blocks.
type Stage[B tensor.Backend] = resnext.Stage[B]

// Hooks receives per-section and per-pass timings from Forward.
type Hooks = resnext.Hooks

// NopHooks ignores every callback.
type NopHooks = resnext.NopHooks

// New returns the canonical ResNeXt-50 (32x4d) network with a 100-class
// head on a default CPU backend.
//
// Example:
//
//	net := resnext.New()
//	fmt.Println(net.Summary())
func New() *Network[*cpu.Backend] {
	return resnext.ResNeXt50(cpu.New())
}

// NewNetwork builds a network from cfg using factory for every block.
func NewNetwork[B tensor.Backend](cfg NetworkConfig, factory BlockFactory[B], backend B) (*Network[B], error) {
	return resnext.NewNetwork(cfg, factory, backend)
}

// ResNeXt50 builds the canonical 100-class network on backend.
func ResNeXt50[B tensor.Backend](backend B) *Network[B] {
	return resnext.ResNeXt50(backend)
}
