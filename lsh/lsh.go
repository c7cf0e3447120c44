/*
Package lsh implements a banded MinHash locality-sensitive hash index over
DNA k-mers. It provides approximate near-neighbour lookup ("similar
strands") so that distance checks against large probe/strand corpora stay
sublinear: an exact Jaccard computation is only ever run against the small
candidate set a query returns, never against the whole corpus.

The index is write-once-per-band, read-many: each of the b bands is guarded
by its own sync.RWMutex, so concurrent readers never block each other and a
writer only ever blocks readers of the one band it is touching.
*/
package lsh

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/dnaspool/infodna/base"
	"github.com/dnaspool/infodna/permute"
)

// MaxK is the largest k-mer length supported: a k-mer identifier must fit in
// a 64-bit machine integer (see base.KmerID).
const MaxK = 33

// LSH is a MinHash-signature index with banding. It is safe for concurrent
// Insert and Similar calls from any number of goroutines.
type LSH struct {
	k        int
	bandSize int
	bands    []*band
	perms    []permute.PseudoPermutation
}

type band struct {
	mu sync.RWMutex
	m  map[string]map[string]base.Strand
}

// New creates an LSH instance over k-mers of length k, using r MinHash
// permutations split into b bands of r/b permutations each. It panics if r
// is not a multiple of b, or if k exceeds MaxK - both are programming
// errors, not runtime conditions a caller can recover from.
func New(k, r, b int) *LSH {
	if r%b != 0 {
		panic("lsh: r must be a multiple of b")
	}
	if k > MaxK {
		panic("lsh: k must be <= 33 so that a k-mer identifier fits a machine integer")
	}

	var kmerSpace uint64 = 1
	for i := 0; i < k; i++ {
		kmerSpace *= 4
	}

	perms := make([]permute.PseudoPermutation, r)
	p := kmerSpace
	for i := 0; i < r; i++ {
		perm := permute.NewFromP(kmerSpace, p)
		p = perm.P()
		perms[i] = perm
	}

	bands := make([]*band, b)
	for i := range bands {
		bands[i] = &band{m: make(map[string]map[string]base.Strand)}
	}

	return &LSH{
		k:        k,
		bandSize: r / b,
		bands:    bands,
		perms:    perms,
	}
}

// K returns the k-mer length this index was built with.
func (l *LSH) K() int {
	return l.k
}

// BandSize returns r/b, the number of MinHash values concatenated into each
// band's signature.
func (l *LSH) BandSize() int {
	return l.bandSize
}

// MinHashes returns the r MinHash values of seq, one per permutation. If a
// permutation ever maps a k-mer identifier to zero, that permutation's
// MinHash is zero and the scan over seq's k-mers for that permutation
// short-circuits - this is a semantic optimization carried over from the
// reference implementation, not a bug, and must be preserved so that
// signatures produced here remain comparable to any other conforming
// implementation.
func (l *LSH) MinHashes(seq base.Strand) []uint64 {
	kmers := seq.KMers(l.k)
	ids := make([]uint64, len(kmers))
	for i, kmer := range kmers {
		ids[i] = base.KmerID(kmer)
	}

	minHashes := make([]uint64, len(l.perms))
	for j, perm := range l.perms {
		min := uint64(math.MaxUint64)
		for _, id := range ids {
			v := perm.Apply(id)
			if v == 0 {
				min = 0
				break
			}
			if v < min {
				min = v
			}
		}
		minHashes[j] = min
	}
	return minHashes
}

// Signatures returns, for each band i, the concatenation of the decimal
// string forms of minHash[i*bandSize : (i+1)*bandSize].
func (l *LSH) Signatures(seq base.Strand) []string {
	minHashes := l.MinHashes(seq)
	sigs := make([]string, len(l.bands))
	offset := 0
	for i := range l.bands {
		var sb strings.Builder
		for m := 0; m < l.bandSize; m++ {
			sb.WriteString(strconv.FormatUint(minHashes[offset+m], 10))
		}
		sigs[i] = sb.String()
		offset += l.bandSize
	}
	return sigs
}

// Insert adds seq under every band's signature key. Duplicate inserts of an
// equal strand are deduplicated within a band's set. A reader racing with an
// in-flight Insert may observe seq present in some bands and absent from
// others; that is acceptable because Similar only ever produces a
// false-positive-tolerant candidate set that callers must confirm with an
// exact distance check.
func (l *LSH) Insert(seq base.Strand) {
	sigs := l.Signatures(seq)
	key := seq.String()
	for i, sig := range sigs {
		b := l.bands[i]
		b.mu.Lock()
		set, ok := b.m[sig]
		if !ok {
			set = make(map[string]base.Strand)
			b.m[sig] = set
		}
		set[key] = seq
		b.mu.Unlock()
	}
}

// Similar returns the union, across all bands, of the strands stored under
// seq's signature in that band - a superset of the strands sharing at least
// one band with seq. Result order is unspecified.
func (l *LSH) Similar(seq base.Strand) []base.Strand {
	sigs := l.Signatures(seq)
	union := make(map[string]base.Strand)
	for i, sig := range sigs {
		b := l.bands[i]
		b.mu.RLock()
		if set, ok := b.m[sig]; ok {
			for k, v := range set {
				union[k] = v
			}
		}
		b.mu.RUnlock()
	}
	result := make([]base.Strand, 0, len(union))
	for _, v := range union {
		result = append(result, v)
	}
	return result
}
