// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/resnext/internal/tensor"
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a float32 tensor bound to backend B.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Randn(tensor.Shape{1, 3, 32, 32}, backend)
//	y := x.ReLU()
type Tensor[B Backend] = tensor.Tensor[B]

// Creation functions

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Zeros(shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Ones(shape, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	x := tensor.Full(tensor.Shape{2, 3}, 3.14, backend)
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	return tensor.Full(shape, value, b)
}

// Randn creates a tensor with values drawn from N(0, 1).
func Randn[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Randn(shape, b)
}

// Rand creates a tensor with values drawn from U(0, 1).
func Rand[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Rand(shape, b)
}

// FromSlice creates a tensor from a Go slice. The data is copied.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, b)
}
