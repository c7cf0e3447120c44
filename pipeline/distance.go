package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/dnaspool/infodna/base"
)

// sequentialFanoutThreshold is the candidate-set size below which distance
// checks run sequentially with short-circuit, and above which they fan out
// across a worker pool. Below the threshold, goroutine overhead would
// dwarf the cost of the comparisons themselves.
const sequentialFanoutThreshold = 2000

// farEnoughFromAll reports whether candidate is at least minDist away, by
// Jaccard(k), from every strand in against. It short-circuits as soon as one
// strand is found to be too close, and does not guarantee every candidate in
// against was actually compared once a failure is found.
func farEnoughFromAll(candidate base.Strand, against []base.Strand, k int, minDist float64) bool {
	if len(against) < sequentialFanoutThreshold {
		for _, other := range against {
			if candidate.Jaccard(other, k) < minDist {
				return false
			}
		}
		return true
	}
	return farEnoughFromAllPooled(candidate, against, k, minDist)
}

// farEnoughFromAllPooled fans the same check out across a worker pool,
// sharing a cancellation flag so that once any worker finds a violation, the
// rest stop starting new comparisons. It does not guarantee every candidate
// is actually checked once cancellation fires - only that a false result is
// never missed.
func farEnoughFromAllPooled(candidate base.Strand, against []base.Strand, k int, minDist float64) bool {
	var cancelled atomic.Bool
	var wg sync.WaitGroup

	workers := numWorkers()
	chunk := (len(against) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(against) {
			break
		}
		end := start + chunk
		if end > len(against) {
			end = len(against)
		}
		wg.Add(1)
		go func(slice []base.Strand) {
			defer wg.Done()
			for _, other := range slice {
				if cancelled.Load() {
					return
				}
				if candidate.Jaccard(other, k) < minDist {
					cancelled.Store(true)
					return
				}
			}
		}(against[start:end])
	}
	wg.Wait()
	return !cancelled.Load()
}
