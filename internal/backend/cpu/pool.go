package cpu

import (
	"fmt"

	"github.com/born-ml/resnext/internal/tensor"
)

// AdaptiveAvgPool2D averages each channel of [N, C, H, W] into an
// outH × outW grid. Bin i along an axis of length L covers
// [floor(i*L/out), ceil((i+1)*L/out)), so bins may overlap when L is not a
// multiple of out. With outH = outW = 1 this is global average pooling.
func (cpu *CPUBackend) AdaptiveAvgPool2D(x *tensor.RawTensor, outH, outW int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: invalid output size %dx%d", outH, outW))
	}

	N, C, H, W := shape[0], shape[1], shape[2], shape[3]
	result := tensor.MustNewRaw(tensor.Shape{N, C, outH, outW}, cpu.device)
	src, dst := x.Data(), result.Data()

	cpu.forBatch(N, C, func(n, c int) {
		plane := src[(n*C+c)*H*W : (n*C+c+1)*H*W]
		outPlane := dst[(n*C+c)*outH*outW : (n*C+c+1)*outH*outW]

		for oh := 0; oh < outH; oh++ {
			h0, h1 := binStart(oh, H, outH), binEnd(oh, H, outH)
			for ow := 0; ow < outW; ow++ {
				w0, w1 := binStart(ow, W, outW), binEnd(ow, W, outW)

				var sum float64
				for h := h0; h < h1; h++ {
					for w := w0; w < w1; w++ {
						sum += float64(plane[h*W+w])
					}
				}
				outPlane[oh*outW+ow] = float32(sum / float64((h1-h0)*(w1-w0)))
			}
		}
	})
	return result
}

func binStart(i, in, out int) int {
	return i * in / out
}

func binEnd(i, in, out int) int {
	return ((i+1)*in + out - 1) / out
}
