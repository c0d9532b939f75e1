package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnext/internal/tensor"
)

func TestBackend_Metadata(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
}

func TestAdd_SameShape(t *testing.T) {
	backend := New()
	a := rawFrom(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	b := rawFrom(t, tensor.Shape{2, 2}, []float32{10, 20, 30, 40})

	out := backend.Add(a, b)
	assert.Equal(t, []float32{11, 22, 33, 44}, out.Data())
	// Inputs are untouched.
	assert.Equal(t, []float32{1, 2, 3, 4}, a.Data())
}

func TestAdd_LargeSameShape(t *testing.T) {
	backend := New()
	n := 3*elementsPerTask + 17
	a := tensor.MustNewRaw(tensor.Shape{n}, tensor.CPU)
	b := tensor.MustNewRaw(tensor.Shape{n}, tensor.CPU)
	for i := 0; i < n; i++ {
		a.Data()[i] = float32(i)
		b.Data()[i] = 1
	}

	out := backend.Add(a, b)
	for i, v := range out.Data() {
		if v != float32(i)+1 {
			t.Fatalf("out[%d] = %v, want %v", i, v, float32(i)+1)
		}
	}
}

func TestAdd_Broadcast(t *testing.T) {
	backend := New()

	// [2, 3] + [1, 3]
	a := rawFrom(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	row := rawFrom(t, tensor.Shape{1, 3}, []float32{10, 20, 30})
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, backend.Add(a, row).Data())

	// [2, 3] + [3]
	vec := rawFrom(t, tensor.Shape{3}, []float32{1, 1, 1})
	assert.Equal(t, []float32{2, 3, 4, 5, 6, 7}, backend.Add(a, vec).Data())

	// [1, 2, 1, 1] + [1, 2, 2, 2] (per-channel bias)
	bias := rawFrom(t, tensor.Shape{1, 2, 1, 1}, []float32{100, 200})
	x := tensor.MustNewRaw(tensor.Shape{1, 2, 2, 2}, tensor.CPU)
	out := backend.Add(bias, x)
	assert.Equal(t, []float32{100, 100, 100, 100, 200, 200, 200, 200}, out.Data())

	assert.Panics(t, func() {
		backend.Add(tensor.MustNewRaw(tensor.Shape{3, 4}, tensor.CPU), tensor.MustNewRaw(tensor.Shape{3, 5}, tensor.CPU))
	})
}

func TestReLU(t *testing.T) {
	backend := New()
	x := rawFrom(t, tensor.Shape{5}, []float32{-2, -0.5, 0, 0.5, 2})
	assert.Equal(t, []float32{0, 0, 0, 0.5, 2}, backend.ReLU(x).Data())
}

func TestChannelAffine(t *testing.T) {
	backend := New()

	// [N=2, C=2, 2]
	x := rawFrom(t, tensor.Shape{2, 2, 2}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
	scale := rawFrom(t, tensor.Shape{2}, []float32{2, -1})
	shift := rawFrom(t, tensor.Shape{2}, []float32{1, 0})

	out := backend.ChannelAffine(x, scale, shift)
	assert.Equal(t, []float32{3, 5, -3, -4, 11, 13, -7, -8}, out.Data())

	assert.Panics(t, func() {
		backend.ChannelAffine(x, rawFrom(t, tensor.Shape{3}, []float32{1, 1, 1}), shift)
	})
}

func TestChannelMoments(t *testing.T) {
	backend := New()

	// Channel 0 values: 1,2 (n=0) and 3,4 (n=1) → mean 2.5, var 1.25
	// Channel 1 values: all 5 → mean 5, var 0
	x := rawFrom(t, tensor.Shape{2, 2, 2}, []float32{1, 2, 5, 5, 3, 4, 5, 5})

	mean, variance := backend.ChannelMoments(x)
	require.Equal(t, tensor.Shape{2}, mean.Shape())
	assert.InDelta(t, 2.5, mean.Data()[0], 1e-6)
	assert.InDelta(t, 5.0, mean.Data()[1], 1e-6)
	assert.InDelta(t, 1.25, variance.Data()[0], 1e-6)
	assert.InDelta(t, 0.0, variance.Data()[1], 1e-6)
}

func TestMatMul(t *testing.T) {
	backend := New()

	a := rawFrom(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	b := rawFrom(t, tensor.Shape{3, 2}, []float32{7, 8, 9, 10, 11, 12})

	out := backend.MatMul(a, b)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.Data())

	assert.Panics(t, func() { backend.MatMul(a, a) })
}

func TestTransposeAndReshape(t *testing.T) {
	backend := New()
	a := rawFrom(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	tr := backend.Transpose(a)
	assert.Equal(t, tensor.Shape{3, 2}, tr.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, tr.Data())

	r := backend.Reshape(a, tensor.Shape{6, 1})
	assert.Equal(t, tensor.Shape{6, 1}, r.Shape())
	assert.Panics(t, func() { backend.Reshape(a, tensor.Shape{4}) })
	assert.Panics(t, func() { backend.Transpose(tensor.MustNewRaw(tensor.Shape{2, 2, 2}, tensor.CPU)) })
}

func TestAdaptiveAvgPool2D_Global(t *testing.T) {
	backend := New()

	// [1, 2, 2, 2]
	x := rawFrom(t, tensor.Shape{1, 2, 2, 2}, []float32{1, 2, 3, 4, 10, 10, 10, 30})
	out := backend.AdaptiveAvgPool2D(x, 1, 1)
	assert.Equal(t, tensor.Shape{1, 2, 1, 1}, out.Shape())
	assert.InDeltaSlice(t, []float32{2.5, 15}, out.Data(), 1e-6)
}

func TestAdaptiveAvgPool2D_UnevenBins(t *testing.T) {
	backend := New()

	// 1x3 row pooled to 1x2: bins [0,2) and [1,3) overlap at index 1.
	x := rawFrom(t, tensor.Shape{1, 1, 1, 3}, []float32{1, 2, 6})
	out := backend.AdaptiveAvgPool2D(x, 1, 2)
	assert.InDeltaSlice(t, []float32{1.5, 4}, out.Data(), 1e-6)

	assert.Panics(t, func() { backend.AdaptiveAvgPool2D(x, 0, 1) })
}
