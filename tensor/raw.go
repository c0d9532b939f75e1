// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/resnext/internal/tensor"
)

// RawTensor is the low-level tensor representation: a contiguous
// row-major float32 buffer and its shape.
//
// Most users should use the high-level Tensor[B] type instead.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.CPU)
//	data := raw.Data()   // live buffer
//	clone := raw.Clone() // deep copy
type RawTensor = tensor.RawTensor

// NewRaw allocates a zero-filled RawTensor.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, device)
}
