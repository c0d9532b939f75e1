package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/resnext/internal/tensor"
)

// MatMul performs 2D matrix multiplication (M, K) @ (K, N) → (M, N)
// using gonum's SGEMM.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D tensors, got %v and %v", aShape, bShape))
	}
	M, K := aShape[0], aShape[1]
	K2, N := bShape[0], bShape[1]
	if K != K2 {
		panic(fmt.Sprintf("matmul: inner dimensions mismatch: %v @ %v", aShape, bShape))
	}

	result := tensor.MustNewRaw(tensor.Shape{M, N}, cpu.device)

	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: M, Cols: K, Stride: K, Data: a.Data()},
		blas32.General{Rows: K, Cols: N, Stride: N, Data: b.Data()},
		0,
		blas32.General{Rows: M, Cols: N, Stride: N, Data: result.Data()},
	)
	return result
}
