package nn

import (
	"fmt"

	"github.com/born-ml/resnext/internal/tensor"
)

// Conv2D is a 2D convolutional layer with optional channel grouping.
//
// Performs convolution: output = Conv2D(input, weight) + bias
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels/groups, kernel_h, kernel_w]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - kernel_h) / stride + 1
//	out_w = (width + 2*padding - kernel_w) / stride + 1
//
// With groups > 1 the input and output channels are split into groups
// contiguous partitions and each output partition is computed from its own
// input partition only.
//
// Example:
//
//	// 3x3 grouped conv: 128 -> 128 channels in 32 groups of 4, stride 2
//	conv := nn.NewConv2D(128, 128, 3, 3, 2, 1, 32, false, backend)
//	output := conv.Forward(input) // [N, 128, H/2, W/2]
type Conv2D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  [2]int
	stride      int
	padding     int
	groups      int
	useBias     bool

	weight *Parameter[B] // [out_channels, in_channels/groups, kernel_h, kernel_w]
	bias   *Parameter[B] // [out_channels] or nil

	backend B
}

// NewConv2D creates a new 2D convolutional layer with Kaiming-normal
// (fan-out) weights and zero bias.
//
// Parameters:
//   - inChannels: Number of input channels
//   - outChannels: Number of output channels (number of filters)
//   - kernelH, kernelW: Kernel dimensions
//   - stride: Stride for convolution (commonly 1 or 2)
//   - padding: Zero padding to apply to input (commonly 0 or 1)
//   - groups: Number of channel groups (1 for a dense convolution)
//   - useBias: Whether to include bias term
//   - backend: Backend for computation
//
// Panics if either channel count is not divisible by groups.
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	groups int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelH <= 0 || kernelW <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size h=%d, w=%d", kernelH, kernelW))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}
	if groups <= 0 || inChannels%groups != 0 || outChannels%groups != 0 {
		panic(fmt.Sprintf("conv2d: channels in=%d, out=%d not divisible by groups=%d", inChannels, outChannels, groups))
	}

	weightShape := tensor.Shape{outChannels, inChannels / groups, kernelH, kernelW}
	fanOut := outChannels * kernelH * kernelW
	weight := NewParameter("conv2d.weight", KaimingNormal(fanOut, weightShape, backend))

	var bias *Parameter[B]
	if useBias {
		bias = NewParameter("conv2d.bias", Zeros(tensor.Shape{outChannels}, backend))
	}

	return &Conv2D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  [2]int{kernelH, kernelW},
		stride:      stride,
		padding:     padding,
		groups:      groups,
		useBias:     useBias,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward performs the forward pass.
//
// Input: [batch, in_channels, height, width]
// Output: [batch, out_channels, out_h, out_w].
func (c *Conv2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [N,C,H,W], got %dD", len(inputShape)))
	}
	if inputShape[1] != c.inChannels {
		panic(fmt.Sprintf("conv2d: input channels %d != expected %d", inputShape[1], c.inChannels))
	}

	outputRaw := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), tensor.ConvParams{
		Stride:  c.stride,
		Padding: c.padding,
		Groups:  c.groups,
	})
	output := tensor.New(outputRaw, c.backend)

	if c.useBias {
		// [out_channels] -> [1, out_channels, 1, 1] for broadcasting
		output = output.Add(c.bias.Tensor().Reshape(1, c.outChannels, 1, 1))
	}

	return output
}

// Parameters returns all trainable parameters.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	if c.useBias {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// String returns a string representation of the layer.
func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2D(in_channels=%d, out_channels=%d, kernel_size=(%d, %d), stride=%d, padding=%d, groups=%d, bias=%v)",
		c.inChannels, c.outChannels,
		c.kernelSize[0], c.kernelSize[1],
		c.stride, c.padding, c.groups, c.useBias)
}

// Weight returns the kernel parameter.
func (c *Conv2D[B]) Weight() *Parameter[B] {
	return c.weight
}

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int {
	return c.outChannels
}

// InChannels returns the number of input channels.
func (c *Conv2D[B]) InChannels() int {
	return c.inChannels
}

// KernelSize returns the kernel size [height, width].
func (c *Conv2D[B]) KernelSize() [2]int {
	return c.kernelSize
}

// Stride returns the stride.
func (c *Conv2D[B]) Stride() int {
	return c.stride
}

// Padding returns the padding.
func (c *Conv2D[B]) Padding() int {
	return c.padding
}

// Groups returns the number of channel groups.
func (c *Conv2D[B]) Groups() int {
	return c.groups
}

// ComputeOutputSize computes output spatial dimensions for given input size.
//
// Returns: [out_height, out_width].
func (c *Conv2D[B]) ComputeOutputSize(inputH, inputW int) [2]int {
	return [2]int{
		tensor.ConvOutputSize(inputH, c.kernelSize[0], c.stride, c.padding),
		tensor.ConvOutputSize(inputW, c.kernelSize[1], c.stride, c.padding),
	}
}
