// Package parallel provides the worker fan-out used by the CPU backend kernels.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults sized to the CPU count. The chunk size
// suits cheap per-element work; heavy per-item work such as a convolution
// slice should use Coarse.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// Coarse returns a copy of cfg that splits work down to single items.
func (cfg Config) Coarse() Config {
	cfg.MinChunkSize = 1
	return cfg
}

// Sequential returns a Config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// For executes f(i) for i in [0, n), splitting the range into at most
// NumWorkers contiguous chunks. It runs sequentially if parallelism is
// disabled or n is smaller than MinChunkSize.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < max(cfg.MinChunkSize, 2) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForBatch iterates the batch × groups grid, the unit of work of a
// grouped convolution.
func ForBatch(batch, groups int, f func(b, g int), cfg Config) {
	For(batch*groups, func(k int) {
		f(k/groups, k%groups)
	}, cfg)
}
