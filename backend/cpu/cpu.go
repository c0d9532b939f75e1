// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/resnext/internal/backend/cpu"
	"github.com/born-ml/resnext/internal/parallel"
	"github.com/born-ml/resnext/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Option configures a Backend.
type Option = internalcpu.Option

// ParallelConfig controls kernel worker fan-out.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}

// WithParallel overrides the kernel worker configuration.
//
// Example:
//
//	backend := cpu.New(cpu.WithParallel(cpu.Sequential()))
func WithParallel(cfg ParallelConfig) Option {
	return internalcpu.WithParallel(cfg)
}

// DefaultParallel returns one worker per CPU.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// Sequential disables worker fan-out.
func Sequential() ParallelConfig {
	return parallel.Sequential()
}
