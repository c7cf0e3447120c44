package pipeline

import (
	"sync"

	"github.com/dnaspool/infodna/base"
	"github.com/dnaspool/infodna/lsh"
)

// ListCorpus is an append-only, concurrency-safe list of accepted strands,
// used by mixed and naive mode. TryAccept implements the two-phase
// optimistic-read / validated-commit protocol from spec §4.6.1: a read-lock
// pass checks the candidate against a length snapshot, and only strands that
// pass re-acquire the write lock, re-checking only the tail appended since
// the snapshot was taken.
type ListCorpus struct {
	mu      sync.RWMutex
	strands []base.Strand
	k       int
	minDist float64
}

// NewListCorpus creates an empty corpus that enforces Jaccard(k) >= minDist
// between every pair of accepted strands.
func NewListCorpus(k int, minDist float64) *ListCorpus {
	return &ListCorpus{k: k, minDist: minDist}
}

// TryAccept attempts to append candidate. It returns true if candidate was
// far enough from every strand already present and was appended; false if a
// conflict was found, in which case the caller should have the encoder
// produce a new candidate and retry.
func (c *ListCorpus) TryAccept(candidate base.Strand) bool {
	c.mu.RLock()
	snapshot := c.strands[:len(c.strands)]
	length := len(snapshot)
	ok := farEnoughFromAll(candidate, snapshot, c.k, c.minDist)
	c.mu.RUnlock()
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.strands) == length {
		c.strands = append(c.strands, candidate)
		return true
	}
	tail := c.strands[length:]
	if !farEnoughFromAll(candidate, tail, c.k, c.minDist) {
		return false
	}
	c.strands = append(c.strands, candidate)
	return true
}

// Snapshot returns a copy of every strand currently accepted.
func (c *ListCorpus) Snapshot() []base.Strand {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]base.Strand, len(c.strands))
	copy(out, c.strands)
	return out
}

// LSHCorpus is the accepted-strand store for LSH mode: an LSH index doubling
// as an approximate membership structure. Unlike ListCorpus it has no
// optimistic read phase: each TryAccept runs entirely under one exclusive
// lock, and its distance check covers only the LSH query's candidates, not a
// full scan.
type LSHCorpus struct {
	mu      sync.RWMutex
	index   *lsh.LSH
	k       int
	minDist float64
}

// NewLSHCorpus creates an empty corpus backed by an LSH index with the given
// banding parameters.
func NewLSHCorpus(k, r, b int, minDist float64) *LSHCorpus {
	return &LSHCorpus{index: lsh.New(k, r, b), k: k, minDist: minDist}
}

// TryAccept queries the LSH for approximate neighbours of candidate, runs an
// exact distance check against only that candidate set, and if all pass,
// inserts candidate into the index. The query, the check and the insert all
// run while holding the corpus's exclusive lock, so the accept decision and
// the insert are atomic with respect to other acceptors.
func (c *LSHCorpus) TryAccept(candidate base.Strand) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	neighbours := c.index.Similar(candidate)
	if !farEnoughFromAll(candidate, neighbours, c.k, c.minDist) {
		return false
	}
	c.index.Insert(candidate)
	return true
}
