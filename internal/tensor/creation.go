package tensor

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros(Shape{3, 4}, backend)
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	raw, err := NewRaw(shape, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return New(raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return Full(shape, 1, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full(Shape{3, 3}, 3.14, backend)
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	t := Zeros(shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from N(0, 1).
//
// Example:
//
//	x := tensor.Randn(Shape{1, 3, 32, 32}, backend)
func Randn[B Backend](shape Shape, b B) *Tensor[B] {
	return Sample(shape, distuv.UnitNormal, b)
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
func Rand[B Backend](shape Shape, b B) *Tensor[B] {
	return Sample(shape, distuv.Uniform{Min: 0, Max: 1}, b)
}

// Rander is a source of random samples, satisfied by gonum's distuv
// distributions.
type Rander interface {
	Rand() float64
}

// Sample creates a tensor whose elements are drawn independently from dist.
func Sample[B Backend](shape Shape, dist Rander, b B) *Tensor[B] {
	t := Zeros(shape, b)
	data := t.Data()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
	return t
}
