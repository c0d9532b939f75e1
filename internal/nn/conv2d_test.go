package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnext/internal/backend/cpu"
	"github.com/born-ml/resnext/internal/tensor"
)

// TestConv2D_Creation tests Conv2D layer creation.
func TestConv2D_Creation(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(1, 6, 5, 5, 1, 0, 1, true, backend)

	assert.Equal(t, 1, conv.InChannels())
	assert.Equal(t, 6, conv.OutChannels())
	assert.Equal(t, [2]int{5, 5}, conv.KernelSize())
	assert.Equal(t, tensor.Shape{6, 1, 5, 5}, conv.weight.Shape())
	assert.Equal(t, tensor.Shape{6}, conv.bias.Shape())
	assert.Len(t, conv.Parameters(), 2)
}

func TestConv2D_GroupedWeightShape(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(128, 128, 3, 3, 2, 1, 32, false, backend)

	assert.Equal(t, 32, conv.Groups())
	assert.Equal(t, tensor.Shape{128, 4, 3, 3}, conv.Weight().Shape())
	assert.Len(t, conv.Parameters(), 1)
	assert.Equal(t, "Conv2D(in_channels=128, out_channels=128, kernel_size=(3, 3), stride=2, padding=1, groups=32, bias=false)", conv.String())
}

// TestConv2D_ForwardShape tests forward pass output shape.
func TestConv2D_ForwardShape(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name   string
		conv   *Conv2D[*cpu.CPUBackend]
		input  tensor.Shape
		output tensor.Shape
	}{
		{"valid 5x5", NewConv2D(1, 6, 5, 5, 1, 0, 1, true, backend), tensor.Shape{2, 1, 28, 28}, tensor.Shape{2, 6, 24, 24}},
		{"same 3x3", NewConv2D(3, 64, 3, 3, 1, 1, 1, false, backend), tensor.Shape{1, 3, 32, 32}, tensor.Shape{1, 64, 32, 32}},
		{"grouped strided", NewConv2D(64, 64, 3, 3, 2, 1, 32, false, backend), tensor.Shape{1, 64, 9, 9}, tensor.Shape{1, 64, 5, 5}},
		{"projection", NewConv2D(64, 256, 1, 1, 2, 0, 1, false, backend), tensor.Shape{2, 64, 9, 9}, tensor.Shape{2, 256, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.conv.Forward(tensor.Zeros(tt.input, backend))
			assert.Equal(t, tt.output, out.Shape())

			size := tt.conv.ComputeOutputSize(tt.input[2], tt.input[3])
			assert.Equal(t, [2]int{tt.output[2], tt.output[3]}, size)
		})
	}
}

// TestConv2D_WithBias tests forward pass with bias.
func TestConv2D_WithBias(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(1, 2, 2, 2, 1, 0, 1, true, backend)
	for i := range conv.weight.Tensor().Data() {
		conv.weight.Tensor().Data()[i] = 1
	}
	conv.bias.Tensor().Data()[0] = 0.5
	conv.bias.Tensor().Data()[1] = -1

	input := tensor.Ones(tensor.Shape{1, 1, 2, 2}, backend)
	out := conv.Forward(input)

	require.Equal(t, tensor.Shape{1, 2, 1, 1}, out.Shape())
	assert.Equal(t, []float32{4.5, 3}, out.Data())
}

func TestConv2D_InvalidConfig(t *testing.T) {
	backend := cpu.New()

	assert.Panics(t, func() { NewConv2D(0, 4, 3, 3, 1, 1, 1, false, backend) })
	assert.Panics(t, func() { NewConv2D(4, 4, 0, 3, 1, 1, 1, false, backend) })
	assert.Panics(t, func() { NewConv2D(4, 4, 3, 3, 0, 1, 1, false, backend) })
	assert.Panics(t, func() { NewConv2D(4, 4, 3, 3, 1, -1, 1, false, backend) })
	assert.Panics(t, func() { NewConv2D(6, 8, 1, 1, 1, 0, 4, false, backend) }, "6 not divisible by 4")
	assert.Panics(t, func() { NewConv2D(8, 6, 1, 1, 1, 0, 4, false, backend) }, "6 not divisible by 4")
}

func TestConv2D_WrongInputChannels(t *testing.T) {
	backend := cpu.New()
	conv := NewConv2D(3, 8, 3, 3, 1, 1, 1, false, backend)

	assert.Panics(t, func() { conv.Forward(tensor.Zeros(tensor.Shape{1, 4, 8, 8}, backend)) })
	assert.Panics(t, func() { conv.Forward(tensor.Zeros(tensor.Shape{3, 8, 8}, backend)) })
}
