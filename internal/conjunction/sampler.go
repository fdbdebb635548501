package conjunction

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/kvsankar/sattosat/internal/metrics"
)

// Sampler evaluates the inter-object separation at every instant of a window,
// sharding the work across a pool of goroutines. Each worker takes a
// contiguous chunk so the merged result is already time ordered.
type Sampler struct {
	A       StateProvider
	B       StateProvider
	Workers int
	Logger  *slog.Logger
}

// Sample returns the ordered separation series over the window. Instants
// where either object fails to propagate are skipped, not interpolated, so
// the series can be shorter than the window's instant count.
func (s *Sampler) Sample(ctx context.Context, w Window) ([]Sample, error) {
	n := w.Instants()
	if n == 0 {
		return nil, nil
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	// Fixed-position results; a false slot means the instant was skipped.
	results := make([]Sample, n)
	valid := make([]bool, n)

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for wk := 0; wk < workers; wk++ {
		lo := wk * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					return
				}
				at := w.At(i)

				sa, err := s.A.StateAt(at)
				if err != nil {
					logger.Warn("sample skipped", "time", at, "object", "a", "error", err)
					continue
				}
				sb, err := s.B.StateAt(at)
				if err != nil {
					logger.Warn("sample skipped", "time", at, "object", "b", "error", err)
					continue
				}

				results[i] = Sample{Time: at, DistanceKm: sb.Position.Sub(sa.Position).Norm()}
				valid[i] = true
			}
		}(lo, hi)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		if valid[i] {
			out = append(out, results[i])
		}
	}

	metrics.RecordSamples(len(out))
	return out, nil
}
