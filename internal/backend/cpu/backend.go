// Package cpu implements the CPU backend. GEMM-shaped kernels (convolution,
// matmul) run through gonum's pure-Go BLAS; independent slices fan out over
// the parallel worker helper.
package cpu

import (
	"github.com/born-ml/resnext/internal/parallel"
	"github.com/born-ml/resnext/internal/tensor"
)

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithParallel overrides the worker configuration used by the kernels.
func WithParallel(cfg parallel.Config) Option {
	return func(cpu *CPUBackend) {
		cpu.parallel = cfg
	}
}

// New creates a new CPU backend.
func New(opts ...Option) *CPUBackend {
	cpu := &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(cpu)
	}
	return cpu
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Parallel returns the worker configuration.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.parallel
}
