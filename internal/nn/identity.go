package nn

import (
	"github.com/born-ml/resnext/internal/tensor"
)

// Identity returns its input unchanged. It stands in for a residual
// shortcut when no projection is needed.
type Identity[B tensor.Backend] struct{}

// NewIdentity creates an Identity module.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return &Identity[B]{}
}

// Forward returns input.
func (i *Identity[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input
}

// Parameters returns nil.
func (i *Identity[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (i *Identity[B]) String() string {
	return "Identity()"
}
