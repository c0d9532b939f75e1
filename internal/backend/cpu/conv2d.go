package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/resnext/internal/parallel"
	"github.com/born-ml/resnext/internal/tensor"
)

// Conv2D performs a (possibly grouped) 2D convolution using im2col + GEMM.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in/groups, K_h, K_w]
// Output shape: [N, C_out, H_out, W_out]
//
// Input and output channels are split into p.Groups contiguous partitions;
// output partition g only sees input partition g. With Groups == 1 this is
// an ordinary dense convolution.
//
// Each (image, group) pair is an independent GEMM:
//
//	kernel_g [C_out/G, C_in/G*K_h*K_w] @ col [C_in/G*K_h*K_w, H_out*W_out]
//
// written straight into the output slab for that image and group.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, p tensor.ConvParams) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in/groups,K_h,K_w], got %dD", len(kernelShape)))
	}

	groups := max(p.Groups, 1)
	if p.Stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", p.Stride))
	}

	N, CIn, H, W := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	COut, CInG, KH, KW := kernelShape[0], kernelShape[1], kernelShape[2], kernelShape[3]

	if CIn%groups != 0 || COut%groups != 0 {
		panic(fmt.Sprintf("conv2d: channels in=%d out=%d not divisible by groups=%d", CIn, COut, groups))
	}
	if CIn/groups != CInG {
		panic(fmt.Sprintf("conv2d: input channels per group %d != kernel channels %d", CIn/groups, CInG))
	}

	HOut := tensor.ConvOutputSize(H, KH, p.Stride, p.Padding)
	WOut := tensor.ConvOutputSize(W, KW, p.Stride, p.Padding)
	if HOut <= 0 || WOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", HOut, WOut))
	}

	output := tensor.MustNewRaw(tensor.Shape{N, COut, HOut, WOut}, cpu.device)

	g := convGeometry{
		cinG: CInG, coutG: COut / groups,
		h: H, w: W, kh: KH, kw: KW,
		hOut: HOut, wOut: WOut,
		stride: p.Stride, padding: p.Padding,
	}
	conv2dGrouped(output.Data(), input.Data(), kernel.Data(), N, groups, g, cpu.parallel.Coarse())

	return output
}

// convGeometry holds the per-group dimensions of a convolution.
type convGeometry struct {
	cinG, coutG     int
	h, w            int
	kh, kw          int
	hOut, wOut      int
	stride, padding int
}

// pointwise reports whether the convolution is a 1x1, stride-1, unpadded
// map, in which case the input slab is already the im2col matrix.
func (g convGeometry) pointwise() bool {
	return g.kh == 1 && g.kw == 1 && g.stride == 1 && g.padding == 0
}

func conv2dGrouped(out, in, kernel []float32, batch, groups int, g convGeometry, cfg parallel.Config) {
	k := g.cinG * g.kh * g.kw // GEMM inner dimension
	hw := g.h * g.w
	pOut := g.hOut * g.wOut // output pixels per image
	cin := g.cinG * groups
	cout := g.coutG * groups

	parallel.ForBatch(batch, groups, func(n, grp int) {
		inSlab := in[(n*cin+grp*g.cinG)*hw : (n*cin+(grp+1)*g.cinG)*hw]

		var col []float32
		if g.pointwise() {
			col = inSlab
		} else {
			col = make([]float32, k*pOut)
			im2col(col, inSlab, g)
		}

		a := blas32.General{
			Rows:   g.coutG,
			Cols:   k,
			Stride: k,
			Data:   kernel[grp*g.coutG*k : (grp+1)*g.coutG*k],
		}
		b := blas32.General{Rows: k, Cols: pOut, Stride: pOut, Data: col}
		c := blas32.General{
			Rows:   g.coutG,
			Cols:   pOut,
			Stride: pOut,
			Data:   out[(n*cout+grp*g.coutG)*pOut : (n*cout+(grp+1)*g.coutG)*pOut],
		}
		blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, a, b, 0, c)
	}, cfg)
}

// im2col unrolls one group of one image into a [C_g*K_h*K_w, H_out*W_out]
// matrix. Row (c, kh, kw) holds the input value each output pixel sees
// through that kernel tap; taps falling into padding read as zero.
func im2col(col, in []float32, g convGeometry) {
	pOut := g.hOut * g.wOut
	row := 0
	for c := 0; c < g.cinG; c++ {
		plane := in[c*g.h*g.w : (c+1)*g.h*g.w]
		for kh := 0; kh < g.kh; kh++ {
			for kw := 0; kw < g.kw; kw++ {
				dst := col[row*pOut : (row+1)*pOut]
				i := 0
				for oh := 0; oh < g.hOut; oh++ {
					h := oh*g.stride - g.padding + kh
					if h < 0 || h >= g.h {
						for ow := 0; ow < g.wOut; ow++ {
							dst[i] = 0
							i++
						}
						continue
					}
					for ow := 0; ow < g.wOut; ow++ {
						w := ow*g.stride - g.padding + kw
						if w >= 0 && w < g.w {
							dst[i] = plane[h*g.w+w]
						} else {
							dst[i] = 0
						}
						i++
					}
				}
				row++
			}
		}
	}
}
