// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/resnext/internal/nn"
	"github.com/born-ml/resnext/tensor"
)

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with weight and bias drawn from
// U(-1/sqrt(in), 1/sqrt(in)).
//
// Example:
//
//	head := nn.NewLinear(2048, 100, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Conv2D represents a 2D convolutional layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a 2D convolutional layer with Kaiming-normal weights.
// Both channel counts must be divisible by groups.
//
// Example:
//
//	conv := nn.NewConv2D(128, 128, 3, 3, 2, 1, 32, false, backend) // kernel=3x3, stride=2, padding=1, groups=32
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	groups int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, groups, useBias, backend)
}

// BatchNorm2D normalizes each channel of a [N, C, H, W] tensor.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a BatchNorm2D over numFeatures channels.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(numFeatures, backend)
}

// AdaptiveAvgPool2D averages each channel into a fixed output grid.
type AdaptiveAvgPool2D[B tensor.Backend] = nn.AdaptiveAvgPool2D[B]

// NewAdaptiveAvgPool2D creates a pool producing outH x outW per channel.
func NewAdaptiveAvgPool2D[B tensor.Backend](outH, outW int, backend B) *AdaptiveAvgPool2D[B] {
	return nn.NewAdaptiveAvgPool2D(outH, outW, backend)
}

// NewGlobalAvgPool2D creates a 1x1 adaptive average pool.
func NewGlobalAvgPool2D[B tensor.Backend](backend B) *AdaptiveAvgPool2D[B] {
	return nn.NewGlobalAvgPool2D(backend)
}

// Activations and shape

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
//
// Example:
//
//	relu := nn.NewReLU[*cpu.Backend]()
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Flatten collapses every dimension after the batch axis.
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Identity returns its input unchanged.
type Identity[B tensor.Backend] = nn.Identity[B]

// NewIdentity creates an Identity module.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return nn.NewIdentity[B]()
}

// Containers

// Sequential chains modules; each output feeds the next module.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
//
// Example:
//
//	stem := nn.NewSequential[*cpu.Backend](
//	    nn.NewConv2D(3, 64, 3, 3, 1, 1, 1, false, backend),
//	    nn.NewBatchNorm2D(64, backend),
//	    nn.NewReLU[*cpu.Backend](),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}
