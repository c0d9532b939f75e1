package cpu

import "github.com/born-ml/resnext/internal/parallel"

// elementsPerTask is the smallest slice of an element-wise kernel handed to
// one worker.
const elementsPerTask = 16 * 1024

// chunked splits [0, n) into contiguous ranges of at least elementsPerTask
// elements and runs f on each range, in parallel when enabled.
func (cpu *CPUBackend) chunked(n int, f func(start, end int)) {
	tasks := (n + elementsPerTask - 1) / elementsPerTask
	if tasks <= 1 {
		f(0, n)
		return
	}
	parallel.For(tasks, func(t int) {
		f(t*elementsPerTask, min((t+1)*elementsPerTask, n))
	}, cpu.parallel.Coarse())
}

// forBatch runs f over every (outer, inner) pair of a [N, C, ...] tensor.
func (cpu *CPUBackend) forBatch(batch, channels int, f func(n, c int)) {
	parallel.ForBatch(batch, channels, f, cpu.parallel.Coarse())
}
