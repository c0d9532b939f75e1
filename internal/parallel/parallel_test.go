package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}

	seen := make([]int32, 10)
	For(len(seen), func(i int) {
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	for i, v := range seen {
		if v != 1 {
			t.Errorf("index %d visited %d times", i, v)
		}
	}
}

func TestForBatch(t *testing.T) {
	cfg := DefaultConfig().Coarse()

	batch, groups := 4, 32
	results := make([][]bool, batch)
	for b := range results {
		results[b] = make([]bool, groups)
	}

	ForBatch(batch, groups, func(b, g int) {
		results[b][g] = true
	}, cfg)

	for b := 0; b < batch; b++ {
		for g := 0; g < groups; g++ {
			if !results[b][g] {
				t.Errorf("Missing result at [%d][%d]", b, g)
			}
		}
	}
}

func TestFor_Sequential(t *testing.T) {
	order := make([]int, 0, 5)
	For(5, func(i int) {
		order = append(order, i)
	}, Sequential())

	for i, v := range order {
		if v != i {
			t.Fatalf("sequential run out of order: %v", order)
		}
	}
}

func TestCoarse(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}.Coarse()
	if cfg.MinChunkSize != 1 || cfg.NumWorkers != 8 || !cfg.Enabled {
		t.Errorf("unexpected coarse config: %+v", cfg)
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	data := make([]float32, 100000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		For(len(data), func(j int) {
			data[j] = float32(j) * 2
		}, cfg)
	}
}
