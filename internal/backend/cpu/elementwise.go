package cpu

import (
	"fmt"

	"github.com/born-ml/resnext/internal/tensor"
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("add: %v", err))
	}

	result := tensor.MustNewRaw(outShape, cpu.device)
	dst := result.Data()

	if !needsBroadcast {
		// Fast path: identical shapes (the residual sum).
		x, y := a.Data(), b.Data()
		cpu.chunked(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = x[i] + y[i]
			}
		})
		return result
	}

	addWithBroadcast(dst, a, b, outShape)
	return result
}

// addWithBroadcast walks the output index space and maps each position back
// into both operands, treating size-1 dimensions as stride 0.
func addWithBroadcast(dst []float32, a, b *tensor.RawTensor, outShape tensor.Shape) {
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	x, y := a.Data(), b.Data()

	ndim := len(outShape)
	idx := make([]int, ndim)
	for i := range dst {
		aOff, bOff := 0, 0
		for d := 0; d < ndim; d++ {
			aOff += idx[d] * aStrides[d]
			bOff += idx[d] * bStrides[d]
		}
		dst[i] = x[aOff] + y[bOff]

		for d := ndim - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}
}

// broadcastStrides returns strides of shape aligned to outShape, with zero
// stride for broadcast dimensions.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	src := shape.ComputeStrides()
	offset := len(outShape) - len(shape)
	for i := range shape {
		if shape[i] != 1 {
			strides[offset+i] = src[i]
		}
	}
	return strides
}

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.MustNewRaw(x.Shape(), cpu.device)
	src, dst := x.Data(), result.Data()

	cpu.chunked(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			if v := src[i]; v > 0 {
				dst[i] = v
			}
		}
	})
	return result
}

// ChannelAffine computes y[n, c, ...] = x[n, c, ...]*scale[c] + shift[c].
// This is the inference form of batch normalization once the statistics
// have been folded into scale and shift.
func (cpu *CPUBackend) ChannelAffine(x, scale, shift *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("channel_affine: expected [N, C, ...] input, got %v", shape))
	}
	channels := shape[1]
	if scale.NumElements() != channels || shift.NumElements() != channels {
		panic(fmt.Sprintf("channel_affine: scale/shift must have %d elements, got %d/%d",
			channels, scale.NumElements(), shift.NumElements()))
	}

	batch := shape[0]
	inner := shape.NumElements() / (batch * channels)

	result := tensor.MustNewRaw(shape, cpu.device)
	src, dst := x.Data(), result.Data()
	sc, sh := scale.Data(), shift.Data()

	cpu.forBatch(batch, channels, func(n, c int) {
		base := (n*channels + c) * inner
		s, b := sc[c], sh[c]
		for i := base; i < base+inner; i++ {
			dst[i] = src[i]*s + b
		}
	})
	return result
}
