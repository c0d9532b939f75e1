package resnext

import (
	"time"

	"github.com/born-ml/resnext/internal/tensor"
)

// Hooks receives timing callbacks from Network.Forward. Callbacks run
// synchronously on the calling goroutine.
type Hooks interface {
	// StageCompleted is called after the stem, each stage and the head
	// with the section name ("stem", "stage1".."stage4", "head") and its
	// output shape.
	StageCompleted(stage string, output tensor.Shape, elapsed time.Duration)
	// ForwardCompleted is called once per forward pass.
	ForwardCompleted(batch int, elapsed time.Duration)
}

// NopHooks ignores every callback.
type NopHooks struct{}

// StageCompleted implements Hooks.
func (NopHooks) StageCompleted(string, tensor.Shape, time.Duration) {}

// ForwardCompleted implements Hooks.
func (NopHooks) ForwardCompleted(int, time.Duration) {}
