// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Im2col + gonum GEMM for dense and grouped convolutions
//   - A 1x1 convolution fast path that skips im2col
//   - NumPy-compatible broadcasting
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/resnext/backend/cpu"
//	    "github.com/born-ml/resnext/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Randn(tensor.Shape{1, 3, 32, 32}, backend)
//	}
//
// # Parallelism
//
// Independent (image, group) convolution slices and large element-wise
// loops fan out over one goroutine per CPU by default. WithParallel
// overrides the worker count or disables fan-out.
//
// # Thread Safety
//
// The CPU backend holds no mutable state and is safe for concurrent use.
package cpu
