package nn

import (
	"github.com/born-ml/resnext/internal/tensor"
)

// Flatten collapses every dimension after the batch axis:
// [N, d1, d2, ...] -> [N, d1*d2*...].
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return &Flatten[B]{}
}

// Forward reshapes the input to 2D.
func (f *Flatten[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) == 0 {
		panic("flatten: scalar input")
	}
	return input.Reshape(shape[0], shape.NumElements()/shape[0])
}

// Parameters returns nil.
func (f *Flatten[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (f *Flatten[B]) String() string {
	return "Flatten()"
}
