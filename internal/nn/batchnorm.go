package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/resnext/internal/tensor"
)

// Default batch-norm hyperparameters.
const (
	DefaultBatchNormEpsilon  = 1e-5
	DefaultBatchNormMomentum = 0.1
)

// BatchNorm2D normalizes each channel of a [N, C, H, W] tensor.
//
// Formula: y = gamma * (x - mean) / sqrt(var + eps) + beta
//
// In training mode mean/var are the statistics of the current batch and the
// running estimates are updated:
//
//	running = (1 - momentum) * running + momentum * batch
//
// (the running variance uses the unbiased batch variance). In inference
// mode the running estimates are used. Modules start in inference mode.
//
// Example:
//
//	bn := nn.NewBatchNorm2D(256, backend)
//	y := bn.Forward(x) // [N, 256, H, W] -> [N, 256, H, W]
type BatchNorm2D[B tensor.Backend] struct {
	numFeatures int
	Epsilon     float32
	Momentum    float32

	gamma *Parameter[B] // [C], ones
	beta  *Parameter[B] // [C], zeros

	runningMean *tensor.Tensor[B] // [C], zeros
	runningVar  *tensor.Tensor[B] // [C], ones

	training bool
	backend  B
}

// NewBatchNorm2D creates a BatchNorm2D over numFeatures channels with the
// default epsilon and momentum.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, backend B) *BatchNorm2D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid feature count %d", numFeatures))
	}
	shape := tensor.Shape{numFeatures}
	return &BatchNorm2D[B]{
		numFeatures: numFeatures,
		Epsilon:     DefaultBatchNormEpsilon,
		Momentum:    DefaultBatchNormMomentum,
		gamma:       NewParameter("batchnorm.gamma", Ones(shape, backend)),
		beta:        NewParameter("batchnorm.beta", Zeros(shape, backend)),
		runningMean: Zeros(shape, backend),
		runningVar:  Ones(shape, backend),
		backend:     backend,
	}
}

// Forward normalizes the input.
func (bn *BatchNorm2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if shape[1] != bn.numFeatures {
		panic(fmt.Sprintf("batchnorm2d: input channels %d != expected %d", shape[1], bn.numFeatures))
	}

	mean, variance := bn.runningMean.Data(), bn.runningVar.Data()
	if bn.training {
		meanRaw, varRaw := bn.backend.ChannelMoments(input.Raw())
		mean, variance = meanRaw.Data(), varRaw.Data()
		bn.updateRunningStats(mean, variance, shape.NumElements()/shape[1])
	}

	// Fold statistics and affine parameters into one per-channel scale/shift.
	scale := tensor.MustNewRaw(tensor.Shape{bn.numFeatures}, bn.backend.Device())
	shift := tensor.MustNewRaw(tensor.Shape{bn.numFeatures}, bn.backend.Device())
	gamma, beta := bn.gamma.Tensor().Data(), bn.beta.Tensor().Data()
	for c := 0; c < bn.numFeatures; c++ {
		s := gamma[c] / float32(math.Sqrt(float64(variance[c]+bn.Epsilon)))
		scale.Data()[c] = s
		shift.Data()[c] = beta[c] - mean[c]*s
	}

	return tensor.New(bn.backend.ChannelAffine(input.Raw(), scale, shift), bn.backend)
}

func (bn *BatchNorm2D[B]) updateRunningStats(mean, variance []float32, count int) {
	correction := float32(1)
	if count > 1 {
		correction = float32(count) / float32(count-1)
	}
	rm, rv := bn.runningMean.Data(), bn.runningVar.Data()
	m := bn.Momentum
	for c := range rm {
		rm[c] = (1-m)*rm[c] + m*mean[c]
		rv[c] = (1-m)*rv[c] + m*variance[c]*correction
	}
}

// SetTraining switches between batch statistics (true) and running
// statistics (false).
func (bn *BatchNorm2D[B]) SetTraining(training bool) {
	bn.training = training
}

// Training reports whether the module is in training mode.
func (bn *BatchNorm2D[B]) Training() bool {
	return bn.training
}

// Parameters returns [gamma, beta]. Running statistics are state, not
// parameters.
func (bn *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta}
}

// RunningMean returns the running mean estimate.
func (bn *BatchNorm2D[B]) RunningMean() *tensor.Tensor[B] {
	return bn.runningMean
}

// RunningVar returns the running variance estimate.
func (bn *BatchNorm2D[B]) RunningVar() *tensor.Tensor[B] {
	return bn.runningVar
}

// NumFeatures returns the channel count.
func (bn *BatchNorm2D[B]) NumFeatures() int {
	return bn.numFeatures
}

// String returns a string representation of the layer.
func (bn *BatchNorm2D[B]) String() string {
	return fmt.Sprintf("BatchNorm2D(%d, eps=%g, momentum=%g)", bn.numFeatures, bn.Epsilon, bn.Momentum)
}
