package tensor

// ConvParams describes the geometry of a 2D convolution beyond its kernel.
type ConvParams struct {
	Stride  int
	Padding int
	Groups  int // 1 for a dense convolution
}

// Backend defines the interface that compute backends must implement.
// Backends handle the actual computation for tensor operations; layers in
// the nn package only compose these primitives.
//
// Implementations:
//   - CPU: pure Go with gonum BLAS for the GEMM-shaped kernels
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting)
	Add(a, b *RawTensor) *RawTensor

	// Matrix operations: (M, K) @ (K, N) -> (M, N)
	MatMul(a, b *RawTensor) *RawTensor

	// Conv2D convolves [N, C_in, H, W] with [C_out, C_in/groups, K_h, K_w].
	Conv2D(input, kernel *RawTensor, p ConvParams) *RawTensor

	// AdaptiveAvgPool2D averages [N, C, H, W] into [N, C, outH, outW] bins.
	AdaptiveAvgPool2D(x *RawTensor, outH, outW int) *RawTensor

	// Activation functions
	ReLU(x *RawTensor) *RawTensor

	// Per-channel statistics and affine maps over [N, C, ...] tensors.
	// ChannelMoments returns the biased mean and variance of each channel,
	// both shaped [C].
	ChannelMoments(x *RawTensor) (mean, variance *RawTensor)
	// ChannelAffine computes y[n, c, ...] = x[n, c, ...]*scale[c] + shift[c].
	ChannelAffine(x, scale, shift *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor) *RawTensor // 2D only

	// Metadata
	Name() string
	Device() Device
}
