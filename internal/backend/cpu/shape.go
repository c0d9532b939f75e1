package cpu

import (
	"fmt"

	"github.com/born-ml/resnext/internal/tensor"
)

// Reshape returns a view of t with a new shape. No data is copied; kernels
// never write into their inputs, so sharing storage is safe.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	view, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

// Transpose swaps the two axes of a 2D tensor.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	shape := t.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("transpose: expected 2D tensor, got shape %v", shape))
	}
	rows, cols := shape[0], shape[1]

	result := tensor.MustNewRaw(tensor.Shape{cols, rows}, cpu.device)
	src, dst := t.Data(), result.Data()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst[j*rows+i] = src[i*cols+j]
		}
	}
	return result
}
