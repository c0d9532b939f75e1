package cpu

import (
	"fmt"

	"github.com/born-ml/resnext/internal/parallel"
	"github.com/born-ml/resnext/internal/tensor"
)

// ChannelMoments returns the per-channel mean and biased variance of an
// [N, C, ...] tensor, reducing over every axis except the channel axis.
// Accumulation is done in float64.
func (cpu *CPUBackend) ChannelMoments(x *tensor.RawTensor) (mean, variance *tensor.RawTensor) {
	shape := x.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("channel_moments: expected [N, C, ...] input, got %v", shape))
	}

	N, C := shape[0], shape[1]
	inner := shape.NumElements() / (N * C)
	count := float64(N * inner)

	mean = tensor.MustNewRaw(tensor.Shape{C}, cpu.device)
	variance = tensor.MustNewRaw(tensor.Shape{C}, cpu.device)
	src, m, v := x.Data(), mean.Data(), variance.Data()

	parallel.For(C, func(c int) {
		var sum float64
		for n := 0; n < N; n++ {
			base := (n*C + c) * inner
			for _, val := range src[base : base+inner] {
				sum += float64(val)
			}
		}
		mu := sum / count

		var sq float64
		for n := 0; n < N; n++ {
			base := (n*C + c) * inner
			for _, val := range src[base : base+inner] {
				d := float64(val) - mu
				sq += d * d
			}
		}

		m[c] = float32(mu)
		v[c] = float32(sq / count)
	}, cpu.parallel.Coarse())

	return mean, variance
}
