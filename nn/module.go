// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/resnext/internal/nn"
	"github.com/born-ml/resnext/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
type Module[B tensor.Backend] = nn.Module[B]

// Trainable is implemented by modules whose forward pass differs between
// training and inference.
type Trainable = nn.Trainable

// Parameter is a named parameter tensor owned by a layer.
//
// Note: Parameter is a type alias because it is the return type of
// Module.Parameters.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// SetTraining switches m and its children into training or inference mode.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	nn.SetTraining(m, training)
}

// CountParameters returns the number of scalar values across params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	return nn.CountParameters(params)
}
