// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package resnext provides the ResNeXt-50 (32x4d) image classifier.
//
// # Overview
//
// A ResNeXt network is a residual CNN whose bottleneck blocks split their
// 3x3 convolution into Cardinality parallel groups:
//
//	stem     3x3 conv 3 -> 64, BatchNorm, ReLU
//	stage1   3 blocks, width 64,  stride 1 -> 256 channels
//	stage2   4 blocks, width 128, stride 2 -> 512 channels
//	stage3   6 blocks, width 256, stride 2 -> 1024 channels
//	stage4   3 blocks, width 512, stride 2 -> 2048 channels
//	head     global average pool, flatten, linear 2048 -> classes
//
// # Basic Usage
//
//	net := resnext.New() // canonical 100-class network on the CPU
//	x := tensor.Randn(tensor.Shape{1, 3, 32, 32}, net.Backend())
//	logits := net.Forward(x) // [1, 100]
//
// Custom layouts go through NetworkConfig and a BlockFactory:
//
//	backend := cpu.New()
//	cfg := resnext.DefaultConfig() // 1000 classes
//	cfg.Stages[2].Blocks = 23      // 101 layers
//	net, err := resnext.NewNetwork[*cpu.Backend](cfg, resnext.NewBottleneckFactory(cfg.Block, backend), backend)
//
// Networks are built in inference mode; SetTraining(true) switches every
// BatchNorm to batch statistics.
package resnext
