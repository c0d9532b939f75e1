// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API the ResNeXt model is built on.
//
// # Overview
//
// Tensors are the fundamental data structure. This package provides:
//   - Tensor[B]: float32 tensor bound to a compute backend
//   - RawTensor: contiguous row-major storage used by backends
//   - Backend: the primitive set every compute backend implements
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
//
//	    x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones(tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//	}
//
// # Broadcasting
//
// Add follows NumPy broadcasting rules:
//
//	a := tensor.Zeros(tensor.Shape{3, 1}, backend) // (3, 1)
//	b := tensor.Ones(tensor.Shape{3, 4}, backend)  // (3, 4)
//	c := a.Add(b)                                  // (3, 4)
//
// # Memory
//
// Reshape returns a view sharing storage with its source; every other
// operation allocates its result. Data returns the live buffer.
package tensor
