package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a := tensor.Ones(Shape{3, 1}, backend)
//	b := tensor.Ones(Shape{3, 5}, backend)
//	c := a.Add(b) // Shape: [3, 5] (broadcasted)
func (t *Tensor[B]) Add(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Add(t.raw, other.raw), t.backend)
}

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[B]) MatMul(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.MatMul(t.raw, other.raw), t.backend)
}

// ReLU applies max(0, x) element-wise.
func (t *Tensor[B]) ReLU() *Tensor[B] {
	return New(t.backend.ReLU(t.raw), t.backend)
}

// Reshape returns a tensor with the same data but different shape.
// The new shape must have the same number of elements.
//
// Example:
//
//	x := tensor.Zeros(Shape{2, 2048, 1, 1}, backend)
//	flat := x.Reshape(2, 2048) // Shape: [2, 2048]
func (t *Tensor[B]) Reshape(newShape ...int) *Tensor[B] {
	return New(t.backend.Reshape(t.raw, Shape(newShape)), t.backend)
}

// T transposes a 2D tensor (swaps rows and columns).
// Panics if the tensor is not 2D.
func (t *Tensor[B]) T() *Tensor[B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return New(t.backend.Transpose(t.raw), t.backend)
}
