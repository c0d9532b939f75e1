package nn

import (
	"github.com/born-ml/resnext/internal/tensor"
)

// Parameter represents a learnable tensor in a neural network, such as a
// convolution kernel or a batch-norm scale.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[B]
}

// NewParameter creates a new parameter.
//
// Parameters:
//   - name: Descriptive name for this parameter (e.g., "conv2d.weight")
//   - t: The initialized parameter tensor
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}

// Shape returns the parameter tensor's shape.
func (p *Parameter[B]) Shape() tensor.Shape {
	return p.tensor.Shape()
}

// NumElements returns the number of scalars in the parameter.
func (p *Parameter[B]) NumElements() int {
	return p.tensor.NumElements()
}
