package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnext/internal/parallel"
	"github.com/born-ml/resnext/internal/tensor"
)

func rawFrom(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.CPU)
	require.NoError(t, err)
	copy(raw.Data(), data)
	return raw
}

func rawSeq(shape tensor.Shape, scale float32) *tensor.RawTensor {
	raw := tensor.MustNewRaw(shape, tensor.CPU)
	for i := range raw.Data() {
		raw.Data()[i] = float32(i%13-6) * scale
	}
	return raw
}

// naiveConv2D is a direct seven-loop reference for grouped convolution.
func naiveConv2D(input, kernel *tensor.RawTensor, stride, padding, groups int) []float32 {
	N, CIn, H, W := input.Shape()[0], input.Shape()[1], input.Shape()[2], input.Shape()[3]
	COut, CInG, KH, KW := kernel.Shape()[0], kernel.Shape()[1], kernel.Shape()[2], kernel.Shape()[3]
	HOut := (H+2*padding-KH)/stride + 1
	WOut := (W+2*padding-KW)/stride + 1
	coutG := COut / groups

	in, k := input.Data(), kernel.Data()
	out := make([]float32, N*COut*HOut*WOut)
	for n := 0; n < N; n++ {
		for o := 0; o < COut; o++ {
			g := o / coutG
			for oh := 0; oh < HOut; oh++ {
				for ow := 0; ow < WOut; ow++ {
					var sum float32
					for c := 0; c < CInG; c++ {
						ic := g*CInG + c
						for kh := 0; kh < KH; kh++ {
							for kw := 0; kw < KW; kw++ {
								h := oh*stride - padding + kh
								w := ow*stride - padding + kw
								if h < 0 || h >= H || w < 0 || w >= W {
									continue
								}
								sum += in[((n*CIn+ic)*H+h)*W+w] * k[((o*CInG+c)*KH+kh)*KW+kw]
							}
						}
					}
					out[((n*COut+o)*HOut+oh)*WOut+ow] = sum
				}
			}
		}
	}
	return out
}

// TestConv2D_KnownValues checks a dense 2x2 convolution against hand
// computed results.
func TestConv2D_KnownValues(t *testing.T) {
	backend := New()

	input := rawFrom(t, tensor.Shape{1, 1, 3, 3}, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9})
	kernel := rawFrom(t, tensor.Shape{1, 1, 2, 2}, []float32{1, 2, 3, 4})

	out := backend.Conv2D(input, kernel, tensor.ConvParams{Stride: 1, Groups: 1})

	// [0,0]: 1*1 + 2*2 + 3*4 + 4*5 = 37
	// [0,1]: 1*2 + 2*3 + 3*5 + 4*6 = 47
	// [1,0]: 1*4 + 2*5 + 3*7 + 4*8 = 67
	// [1,1]: 1*5 + 2*6 + 3*8 + 4*9 = 77
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{37, 47, 67, 77}, out.Data())
}

func TestConv2D_MatchesReference(t *testing.T) {
	tests := []struct {
		name            string
		n, cin, cout    int
		h, w, k         int
		stride, padding int
		groups          int
	}{
		{"dense 3x3 pad1", 2, 3, 4, 5, 5, 3, 1, 1, 1},
		{"grouped 1x1", 1, 8, 8, 4, 4, 1, 1, 0, 4},
		{"grouped 3x3 stride2", 2, 8, 8, 7, 7, 3, 2, 1, 4},
		{"depthwise-like 3x3", 1, 4, 4, 6, 5, 3, 1, 1, 4},
		{"1x1 stride2 projection", 2, 6, 12, 7, 7, 1, 2, 0, 1},
		{"grouped widening 1x1", 1, 4, 8, 3, 3, 1, 1, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := New()
			input := rawSeq(tensor.Shape{tt.n, tt.cin, tt.h, tt.w}, 0.5)
			kernel := rawSeq(tensor.Shape{tt.cout, tt.cin / tt.groups, tt.k, tt.k}, 0.25)

			out := backend.Conv2D(input, kernel, tensor.ConvParams{
				Stride: tt.stride, Padding: tt.padding, Groups: tt.groups,
			})
			want := naiveConv2D(input, kernel, tt.stride, tt.padding, tt.groups)

			require.Len(t, out.Data(), len(want))
			for i := range want {
				assert.InDelta(t, want[i], out.Data()[i], 1e-3, "mismatch at %d", i)
			}
		})
	}
}

// TestConv2D_GroupsIsolated verifies that output group g depends only on
// input group g.
func TestConv2D_GroupsIsolated(t *testing.T) {
	backend := New()

	input := tensor.MustNewRaw(tensor.Shape{1, 4, 3, 3}, tensor.CPU)
	// Only the second input group (channels 2, 3) is non-zero.
	for i := 2 * 9; i < 4*9; i++ {
		input.Data()[i] = 1
	}
	kernel := tensor.MustNewRaw(tensor.Shape{4, 2, 1, 1}, tensor.CPU)
	for i := range kernel.Data() {
		kernel.Data()[i] = 1
	}

	out := backend.Conv2D(input, kernel, tensor.ConvParams{Stride: 1, Groups: 2})
	data := out.Data()
	for i := 0; i < 2*9; i++ {
		assert.Zero(t, data[i], "first group must not see second group's input")
	}
	for i := 2 * 9; i < 4*9; i++ {
		assert.Equal(t, float32(2), data[i])
	}
}

func TestConv2D_SequentialMatchesParallel(t *testing.T) {
	input := rawSeq(tensor.Shape{3, 8, 6, 6}, 0.1)
	kernel := rawSeq(tensor.Shape{8, 2, 3, 3}, 0.2)
	p := tensor.ConvParams{Stride: 2, Padding: 1, Groups: 4}

	seq := New(WithParallel(parallel.Sequential())).Conv2D(input, kernel, p)
	par := New(WithParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})).Conv2D(input, kernel, p)

	assert.Equal(t, seq.Data(), par.Data())
}

func TestConv2D_InvalidConfig(t *testing.T) {
	backend := New()

	assert.Panics(t, func() {
		backend.Conv2D(tensor.MustNewRaw(tensor.Shape{1, 6, 4, 4}, tensor.CPU),
			tensor.MustNewRaw(tensor.Shape{4, 2, 1, 1}, tensor.CPU),
			tensor.ConvParams{Stride: 1, Groups: 4})
	}, "channels not divisible by groups")

	assert.Panics(t, func() {
		backend.Conv2D(tensor.MustNewRaw(tensor.Shape{1, 4, 4, 4}, tensor.CPU),
			tensor.MustNewRaw(tensor.Shape{4, 4, 1, 1}, tensor.CPU),
			tensor.ConvParams{Stride: 1, Groups: 2})
	}, "kernel channels per group mismatch")

	assert.Panics(t, func() {
		backend.Conv2D(tensor.MustNewRaw(tensor.Shape{1, 4, 4}, tensor.CPU),
			tensor.MustNewRaw(tensor.Shape{4, 4, 1, 1}, tensor.CPU),
			tensor.ConvParams{Stride: 1, Groups: 1})
	}, "3D input")

	assert.Panics(t, func() {
		backend.Conv2D(tensor.MustNewRaw(tensor.Shape{1, 1, 2, 2}, tensor.CPU),
			tensor.MustNewRaw(tensor.Shape{1, 1, 3, 3}, tensor.CPU),
			tensor.ConvParams{Stride: 1, Groups: 1})
	}, "kernel larger than unpadded input")
}

func BenchmarkConv2D_Grouped3x3(b *testing.B) {
	backend := New()
	input := rawSeq(tensor.Shape{1, 128, 32, 32}, 0.1)
	kernel := rawSeq(tensor.Shape{128, 4, 3, 3}, 0.1)
	p := tensor.ConvParams{Stride: 1, Padding: 1, Groups: 32}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.Conv2D(input, kernel, p)
	}
}
