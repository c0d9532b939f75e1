package nn

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/resnext/internal/tensor"
)

// KaimingNormal draws weights from N(0, 2/fan) with fan taken in fan-out
// mode for convolutions (out_channels * k_h * k_w), the initialization
// ResNet-family models use ahead of ReLU.
//
// Parameters:
//   - fan: Fan-out of the layer
//   - shape: Shape of the weight tensor
//   - backend: Backend to use for tensor creation
func KaimingNormal[B tensor.Backend](fan int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	std := math.Sqrt(2.0 / float64(fan))
	return tensor.Sample(shape, distuv.Normal{Mu: 0, Sigma: std}, backend)
}

// UniformFanIn draws weights from U(-1/sqrt(fanIn), 1/sqrt(fanIn)), the
// default initialization for linear layers and their biases.
func UniformFanIn[B tensor.Backend](fanIn int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	bound := 1.0 / math.Sqrt(float64(fanIn))
	return tensor.Sample(shape, distuv.Uniform{Min: -bound, Max: bound}, backend)
}

// Zeros creates a tensor filled with zeros.
//
// This is commonly used for bias and shift initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Ones(shape, backend)
}
