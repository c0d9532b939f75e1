// Package nn implements the neural network modules the ResNeXt model is
// composed from.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named parameter tensors
//   - Conv2D (dense and grouped), BatchNorm2D, Linear
//   - ReLU, AdaptiveAvgPool2D, Flatten, Identity
//   - Sequential: Container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/born-ml/resnext/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
//
// Modules can be composed to build complex architectures:
//
//	stem := nn.NewSequential[B](
//	    nn.NewConv2D(3, 64, 3, 3, 1, 1, 1, false, backend),
//	    nn.NewBatchNorm2D(64, backend),
//	    nn.NewReLU[B](),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all trainable parameters of this module,
	// including those of nested modules.
	Parameters() []*Parameter[B]
}

// Trainable is implemented by modules whose forward pass differs between
// training and inference (BatchNorm2D) and by containers that hold them.
type Trainable interface {
	SetTraining(training bool)
}

// SetTraining switches m into training or inference mode if it has one.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	if t, ok := m.(Trainable); ok {
		t.SetTraining(training)
	}
}

// CountParameters returns the number of scalar values across params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	total := 0
	for _, p := range params {
		total += p.NumElements()
	}
	return total
}
