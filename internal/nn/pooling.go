package nn

import (
	"fmt"

	"github.com/born-ml/resnext/internal/tensor"
)

// AdaptiveAvgPool2D averages [N, C, H, W] into a fixed [N, C, outH, outW]
// grid regardless of the input resolution. NewGlobalAvgPool2D (1x1) is the
// pooling used ahead of a classifier head.
type AdaptiveAvgPool2D[B tensor.Backend] struct {
	outH, outW int
	backend    B
}

// NewAdaptiveAvgPool2D creates an adaptive average pool with the given
// output size.
func NewAdaptiveAvgPool2D[B tensor.Backend](outH, outW int, backend B) *AdaptiveAvgPool2D[B] {
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: invalid output size %dx%d", outH, outW))
	}
	return &AdaptiveAvgPool2D[B]{outH: outH, outW: outW, backend: backend}
}

// NewGlobalAvgPool2D pools every channel to a single value.
func NewGlobalAvgPool2D[B tensor.Backend](backend B) *AdaptiveAvgPool2D[B] {
	return NewAdaptiveAvgPool2D(1, 1, backend)
}

// Forward pools the input.
func (p *AdaptiveAvgPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return tensor.New(p.backend.AdaptiveAvgPool2D(input.Raw(), p.outH, p.outW), p.backend)
}

// Parameters returns nil; pooling has no parameters.
func (p *AdaptiveAvgPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// OutputSize returns [outH, outW].
func (p *AdaptiveAvgPool2D[B]) OutputSize() [2]int {
	return [2]int{p.outH, p.outW}
}

// String returns a string representation of the layer.
func (p *AdaptiveAvgPool2D[B]) String() string {
	return fmt.Sprintf("AdaptiveAvgPool2D(output_size=(%d, %d))", p.outH, p.outW)
}
