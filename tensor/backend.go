// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/resnext/internal/tensor"
)

// ConvParams describes stride, padding and group count of a convolution.
type ConvParams = tensor.ConvParams

// Backend is the primitive set a compute backend implements: broadcast
// Add, MatMul, grouped Conv2D, AdaptiveAvgPool2D, ReLU, per-channel
// moments and affine maps, Reshape and 2D Transpose.
//
// Implementations:
//   - cpu.Backend: pure Go with gonum BLAS
type Backend = tensor.Backend
