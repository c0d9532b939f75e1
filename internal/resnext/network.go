package resnext

import (
	"fmt"
	"strings"
	"time"

	"github.com/born-ml/resnext/internal/nn"
	"github.com/born-ml/resnext/internal/tensor"
)

// Section names reported to Hooks.
const (
	SectionStem = "stem"
	SectionHead = "head"
)

// Stage is a run of blocks; only the first may change resolution or
// channel count.
type Stage[B tensor.Backend] struct {
	name   string
	blocks []Block[B]
}

// Name returns "stage1" .. "stage4".
func (s *Stage[B]) Name() string { return s.name }

// Blocks returns the stage's blocks in order.
func (s *Stage[B]) Blocks() []Block[B] { return s.blocks }

// OutChannels returns the channel count after the stage.
func (s *Stage[B]) OutChannels() int { return s.blocks[len(s.blocks)-1].OutChannels() }

// Forward runs the blocks in order.
func (s *Stage[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	x := input
	for _, block := range s.blocks {
		x = block.Forward(x)
	}
	return x
}

// Parameters returns the parameters of every block.
func (s *Stage[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, block := range s.blocks {
		params = append(params, block.Parameters()...)
	}
	return params
}

// SetTraining switches every block.
func (s *Stage[B]) SetTraining(training bool) {
	for _, block := range s.blocks {
		nn.SetTraining[B](block, training)
	}
}

// Network is a ResNeXt image classifier:
//
//	stem (3x3 conv, BatchNorm, ReLU)
//	stage1 .. stage4 (residual blocks)
//	global average pool, flatten
//	linear head
//
// Forward maps [N, InChannels, H, W] to [N, NumClasses] logits.
// A Network is constructed in inference mode.
type Network[B tensor.Backend] struct {
	cfg      NetworkConfig
	stem     *nn.Sequential[B]
	stages   []*Stage[B]
	pool     *nn.AdaptiveAvgPool2D[B]
	flatten  *nn.Flatten[B]
	head     *nn.Linear[B]
	hooks    Hooks
	training bool
	backend  B
}

// NewNetwork builds a network from cfg using factory for every residual
// block. The running input channel count starts at the stem width and
// follows each block's output across all stages.
func NewNetwork[B tensor.Backend](cfg NetworkConfig, factory BlockFactory[B], backend B) (*Network[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil block factory", ErrInvalidNetwork)
	}

	stem := nn.NewSequential[B](
		nn.NewConv2D(cfg.InChannels, cfg.StemWidth, 3, 3, 1, 1, 1, false, backend),
		nn.NewBatchNorm2D(cfg.StemWidth, backend),
		nn.NewReLU[B](),
	)

	in := cfg.StemWidth
	stages := make([]*Stage[B], len(cfg.Stages))
	for i, sc := range cfg.Stages {
		stage := &Stage[B]{name: fmt.Sprintf("stage%d", i+1)}
		for j, stride := range sc.Strides() {
			block, err := factory.NewBlock(in, sc.Width, stride)
			if err != nil {
				return nil, fmt.Errorf("%s block %d: %w", stage.name, j+1, err)
			}
			if block.InChannels() != in {
				return nil, fmt.Errorf("%w: %s block %d expects %d input channels, have %d",
					ErrInvalidNetwork, stage.name, j+1, block.InChannels(), in)
			}
			stage.blocks = append(stage.blocks, block)
			in = block.OutChannels()
		}
		stages[i] = stage
	}

	n := &Network[B]{
		cfg:     cfg,
		stem:    stem,
		stages:  stages,
		pool:    nn.NewGlobalAvgPool2D(backend),
		flatten: nn.NewFlatten[B](),
		head:    nn.NewLinear(in, cfg.NumClasses, backend),
		hooks:   NopHooks{},
		backend: backend,
	}
	n.SetTraining(false)
	return n, nil
}

// ResNeXt50 builds the canonical 50-layer, 100-class network with
// bottleneck blocks. It panics only if the built-in configuration is
// invalid.
func ResNeXt50[B tensor.Backend](backend B) *Network[B] {
	cfg := ResNeXt50Config()
	n, err := NewNetwork[B](cfg, NewBottleneckFactory(cfg.Block, backend), backend)
	if err != nil {
		panic(fmt.Sprintf("resnext50: %v", err))
	}
	return n
}

// Forward computes logits for a batch of images.
//
// Panics if the input is not [N, InChannels, H, W].
func (n *Network[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("resnext: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if shape[1] != n.cfg.InChannels {
		panic(fmt.Sprintf("resnext: input channels %d != expected %d", shape[1], n.cfg.InChannels))
	}

	start := time.Now()
	t := start

	x := n.stem.Forward(input)
	t = n.section(SectionStem, x, t)

	for _, stage := range n.stages {
		x = stage.Forward(x)
		t = n.section(stage.name, x, t)
	}

	x = n.pool.Forward(x)
	x = n.flatten.Forward(x)
	x = n.head.Forward(x)
	n.section(SectionHead, x, t)

	n.hooks.ForwardCompleted(shape[0], time.Since(start))
	return x
}

func (n *Network[B]) section(name string, out *tensor.Tensor[B], since time.Time) time.Time {
	now := time.Now()
	n.hooks.StageCompleted(name, out.Shape(), now.Sub(since))
	return now
}

// Parameters returns every trainable parameter: stem, stages, head.
func (n *Network[B]) Parameters() []*nn.Parameter[B] {
	params := n.stem.Parameters()
	for _, stage := range n.stages {
		params = append(params, stage.Parameters()...)
	}
	return append(params, n.head.Parameters()...)
}

// NumParameters returns the number of scalar parameters.
func (n *Network[B]) NumParameters() int {
	return nn.CountParameters(n.Parameters())
}

// SetTraining switches every BatchNorm between batch statistics (true)
// and running statistics (false).
func (n *Network[B]) SetTraining(training bool) {
	n.training = training
	n.stem.SetTraining(training)
	for _, stage := range n.stages {
		stage.SetTraining(training)
	}
}

// Training reports the current mode.
func (n *Network[B]) Training() bool {
	return n.training
}

// SetHooks installs timing callbacks. A nil value restores NopHooks.
func (n *Network[B]) SetHooks(h Hooks) {
	if h == nil {
		h = NopHooks{}
	}
	n.hooks = h
}

// Config returns the configuration the network was built from.
func (n *Network[B]) Config() NetworkConfig {
	return n.cfg
}

// Backend returns the backend the parameters live on.
func (n *Network[B]) Backend() B { return n.backend }

// Stem returns the stem layers.
func (n *Network[B]) Stem() *nn.Sequential[B] { return n.stem }

// Stages returns the four stages in order.
func (n *Network[B]) Stages() []*Stage[B] { return n.stages }

// Head returns the classifier.
func (n *Network[B]) Head() *nn.Linear[B] { return n.head }

// StageChannels returns the channel count after each stage.
func (n *Network[B]) StageChannels() []int {
	channels := make([]int, len(n.stages))
	for i, stage := range n.stages {
		channels[i] = stage.OutChannels()
	}
	return channels
}

// Summary returns a one-line-per-block overview with parameter counts.
func (n *Network[B]) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ResNeXt-%d (%dx%dd), %d classes\n",
		n.cfg.Depth(), n.cfg.Block.Cardinality, n.cfg.Block.DepthPerGroup, n.cfg.NumClasses)
	fmt.Fprintf(&sb, "  %-8s %4d -> %-5d params=%d\n", SectionStem,
		n.cfg.InChannels, n.cfg.StemWidth, nn.CountParameters(n.stem.Parameters()))
	for _, stage := range n.stages {
		for i, block := range stage.blocks {
			fmt.Fprintf(&sb, "  %-8s %4d -> %-5d stride=%d params=%d\n",
				fmt.Sprintf("%s.%d", stage.name, i+1), block.InChannels(), block.OutChannels(),
				block.Stride(), nn.CountParameters(block.Parameters()))
		}
	}
	fmt.Fprintf(&sb, "  %-8s %4d -> %-5d params=%d\n", SectionHead,
		n.head.InFeatures(), n.head.OutFeatures(), nn.CountParameters(n.head.Parameters()))
	fmt.Fprintf(&sb, "total parameters: %d", n.NumParameters())
	return sb.String()
}

// String renders the full module tree.
func (n *Network[B]) String() string {
	var sb strings.Builder
	sb.WriteString("Network(\n")
	fmt.Fprintf(&sb, "  (stem): %s\n", strings.ReplaceAll(n.stem.String(), "\n", "\n  "))
	for _, stage := range n.stages {
		for i, block := range stage.blocks {
			fmt.Fprintf(&sb, "  (%s.%d): %s\n", stage.name, i+1,
				strings.ReplaceAll(describeModule(block), "\n", "\n  "))
		}
	}
	fmt.Fprintf(&sb, "  (pool): %s\n", n.pool)
	fmt.Fprintf(&sb, "  (flatten): %s\n", n.flatten)
	fmt.Fprintf(&sb, "  (head): %s\n", n.head)
	sb.WriteString(")")
	return sb.String()
}
