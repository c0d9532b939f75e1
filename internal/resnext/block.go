package resnext

import (
	"fmt"
	"strings"

	"github.com/born-ml/resnext/internal/nn"
	"github.com/born-ml/resnext/internal/tensor"
)

// Block is a residual unit that maps [N, InChannels, H, W] to
// [N, OutChannels, H/Stride, W/Stride].
type Block[B tensor.Backend] interface {
	nn.Module[B]
	InChannels() int
	OutChannels() int
	Stride() int
}

// BlockFactory builds the blocks of a network. The network asks for one
// block per position with the running input channel count, the stage's
// nominal width and the block's stride.
type BlockFactory[B tensor.Backend] interface {
	NewBlock(inChannels, width, stride int) (Block[B], error)
}

// BlockFactoryFunc adapts an ordinary function to BlockFactory.
type BlockFactoryFunc[B tensor.Backend] func(inChannels, width, stride int) (Block[B], error)

// NewBlock calls f(inChannels, width, stride).
func (f BlockFactoryFunc[B]) NewBlock(inChannels, width, stride int) (Block[B], error) {
	return f(inChannels, width, stride)
}

// BottleneckFactory builds BottleneckBlocks on one backend.
type BottleneckFactory[B tensor.Backend] struct {
	Config  BlockConfig
	Backend B
}

// NewBottleneckFactory returns a factory using cfg for every block.
func NewBottleneckFactory[B tensor.Backend](cfg BlockConfig, backend B) *BottleneckFactory[B] {
	return &BottleneckFactory[B]{Config: cfg, Backend: backend}
}

// NewBlock implements BlockFactory.
func (f *BottleneckFactory[B]) NewBlock(inChannels, width, stride int) (Block[B], error) {
	return NewBottleneckBlock(f.Config, inChannels, width, stride, f.Backend)
}

// BottleneckBlock is the ResNeXt residual unit.
//
// Transform path:
//
//	1x1 grouped conv  in -> C*d
//	BatchNorm, ReLU
//	3x3 grouped conv  C*d -> C*d, stride s, padding 1
//	BatchNorm, ReLU
//	1x1 conv          C*d -> width*Expansion
//	BatchNorm
//
// with C the cardinality and d = floor(DepthPerGroup*width/BaseWidth).
// The shortcut is the identity when s == 1 and in == width*Expansion,
// otherwise a strided 1x1 projection followed by BatchNorm.
//
// Output: ReLU(transform(x) + shortcut(x)).
type BottleneckBlock[B tensor.Backend] struct {
	cfg         BlockConfig
	inChannels  int
	width       int
	stride      int
	outChannels int

	transform *nn.Sequential[B]
	shortcut  nn.Module[B]
	relu      *nn.ReLU[B]
}

// NewBottleneckBlock creates a block mapping inChannels to
// width*cfg.Expansion channels.
//
// Returns an error wrapping ErrChannelsNotDivisible if inChannels is not a
// multiple of cfg.Cardinality, or ErrInvalidBlockConfig for non-positive
// arguments.
func NewBottleneckBlock[B tensor.Backend](cfg BlockConfig, inChannels, width, stride int, backend B) (*BottleneckBlock[B], error) {
	if err := cfg.CheckBlock(inChannels, width, stride); err != nil {
		return nil, err
	}

	inner := cfg.InnerChannels(width)
	out := cfg.OutChannels(width)

	transform := nn.NewSequential[B](
		nn.NewConv2D(inChannels, inner, 1, 1, 1, 0, cfg.Cardinality, false, backend),
		nn.NewBatchNorm2D(inner, backend),
		nn.NewReLU[B](),
		nn.NewConv2D(inner, inner, 3, 3, stride, 1, cfg.Cardinality, false, backend),
		nn.NewBatchNorm2D(inner, backend),
		nn.NewReLU[B](),
		nn.NewConv2D(inner, out, 1, 1, 1, 0, 1, false, backend),
		nn.NewBatchNorm2D(out, backend),
	)

	var shortcut nn.Module[B]
	if stride == 1 && inChannels == out {
		shortcut = nn.NewIdentity[B]()
	} else {
		shortcut = nn.NewSequential[B](
			nn.NewConv2D(inChannels, out, 1, 1, stride, 0, 1, false, backend),
			nn.NewBatchNorm2D(out, backend),
		)
	}

	return &BottleneckBlock[B]{
		cfg:         cfg,
		inChannels:  inChannels,
		width:       width,
		stride:      stride,
		outChannels: out,
		transform:   transform,
		shortcut:    shortcut,
		relu:        nn.NewReLU[B](),
	}, nil
}

// Forward computes ReLU(transform(x) + shortcut(x)).
//
// Panics if the two branches disagree on shape; the sum never broadcasts.
func (b *BottleneckBlock[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	residual := b.transform.Forward(input)
	identity := b.shortcut.Forward(input)
	if !residual.Shape().Equal(identity.Shape()) {
		panic(fmt.Sprintf("bottleneck: transform shape %v != shortcut shape %v", residual.Shape(), identity.Shape()))
	}
	return b.relu.Forward(residual.Add(identity))
}

// Parameters returns the transform parameters followed by the projection
// parameters, if any.
func (b *BottleneckBlock[B]) Parameters() []*nn.Parameter[B] {
	params := b.transform.Parameters()
	return append(params, b.shortcut.Parameters()...)
}

// SetTraining switches every BatchNorm in the block.
func (b *BottleneckBlock[B]) SetTraining(training bool) {
	b.transform.SetTraining(training)
	nn.SetTraining(b.shortcut, training)
}

// InChannels returns the expected input channel count.
func (b *BottleneckBlock[B]) InChannels() int { return b.inChannels }

// OutChannels returns width * Expansion.
func (b *BottleneckBlock[B]) OutChannels() int { return b.outChannels }

// Stride returns the spatial stride of the block.
func (b *BottleneckBlock[B]) Stride() int { return b.stride }

// Width returns the stage's nominal width.
func (b *BottleneckBlock[B]) Width() int { return b.width }

// InnerChannels returns the channel count of the grouped transform.
func (b *BottleneckBlock[B]) InnerChannels() int { return b.cfg.InnerChannels(b.width) }

// Cardinality returns the number of convolution groups.
func (b *BottleneckBlock[B]) Cardinality() int { return b.cfg.Cardinality }

// HasProjection reports whether the shortcut is a learned projection
// rather than the identity.
func (b *BottleneckBlock[B]) HasProjection() bool {
	_, ok := b.shortcut.(*nn.Identity[B])
	return !ok
}

// Transform returns the residual branch.
func (b *BottleneckBlock[B]) Transform() *nn.Sequential[B] { return b.transform }

// Shortcut returns the skip branch.
func (b *BottleneckBlock[B]) Shortcut() nn.Module[B] { return b.shortcut }

// String renders both branches.
func (b *BottleneckBlock[B]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BottleneckBlock(%d -> %d, width=%d, stride=%d, cardinality=%d, inner=%d)\n",
		b.inChannels, b.outChannels, b.width, b.stride, b.cfg.Cardinality, b.InnerChannels())
	fmt.Fprintf(&sb, "  transform: %s\n", strings.ReplaceAll(b.transform.String(), "\n", "\n  "))
	if b.HasProjection() {
		fmt.Fprintf(&sb, "  shortcut: %s", strings.ReplaceAll(describeModule(b.shortcut), "\n", "\n  "))
	} else {
		sb.WriteString("  shortcut: Identity()")
	}
	return sb.String()
}

func describeModule(m any) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", m)
}
