// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers ResNeXt is composed from.
//
// # Layers
//
//   - Conv2D: dense and grouped 2D convolution (groups > 1 splits channels)
//   - BatchNorm2D: per-channel normalization with running statistics
//   - Linear: fully connected layer
//   - ReLU, AdaptiveAvgPool2D, Flatten, Identity
//   - Sequential: container chaining modules
//
// # Example
//
//	backend := cpu.New()
//	block := nn.NewSequential[*cpu.Backend](
//	    nn.NewConv2D(128, 128, 3, 3, 1, 1, 32, false, backend), // 32 groups
//	    nn.NewBatchNorm2D(128, backend),
//	    nn.NewReLU[*cpu.Backend](),
//	)
//	y := block.Forward(x)
//
// # Training and inference
//
// BatchNorm2D starts in inference mode and normalizes with its running
// statistics. SetTraining(m, true) switches every BatchNorm2D reachable
// from m to batch statistics.
package nn
