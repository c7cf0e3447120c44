/*
Package base provides the DNA alphabet and the Strand type that the rest of
infodna is built on: GC content, homopolymer runs, k-mer extraction, Jaccard
distance, and a thresholded Levenshtein distance.

Strands are immutable once constructed and are meant to be shared by value
(a Strand just wraps a slice header) across goroutines - LSH bands, the
accepted-strand corpus, and worker frames all hold the same underlying bases
without further synchronization.
*/
package base

import (
	"fmt"
	"strings"
)

// Base is a single DNA nucleotide. The ordinal values are load-bearing: the
// MinHash k-mer identifier (KmerID) depends on A=0, C=1, G=2, T=3 exactly as
// specified, since LSH signatures must be reproducible across instances that
// agree on this numbering.
type Base uint8

const (
	A Base = iota
	C
	G
	T
)

// FromByte maps an ASCII letter to a Base. Anything that isn't 'A', 'C', or
// 'G' (case-sensitively) becomes T - this mirrors the source's catch-all
// match arm and is relied on by callers that skip validating input bytes.
func FromByte(b byte) Base {
	switch b {
	case 'A':
		return A
	case 'C':
		return C
	case 'G':
		return G
	default:
		return T
	}
}

// Complement returns the Watson-Crick complement: A<->T, C<->G.
func (b Base) Complement() Base {
	switch b {
	case A:
		return T
	case T:
		return A
	case C:
		return G
	default:
		return C
	}
}

// IsGC reports whether b is a C or a G.
func (b Base) IsGC() bool {
	return b == C || b == G
}

// Byte returns the ASCII letter for b.
func (b Base) Byte() byte {
	switch b {
	case A:
		return 'A'
	case C:
		return 'C'
	case G:
		return 'G'
	default:
		return 'T'
	}
}

func (b Base) String() string {
	return string(b.Byte())
}

// Strand is an ordered, finite sequence of Base. The zero value is the empty
// strand. Strand is a value type over a shared slice; once a caller stops
// mutating the backing array (every constructor here returns a fresh one),
// it is safe to pass a Strand to any number of readers concurrently.
type Strand struct {
	bases []Base
}

// New wraps bases as a Strand without copying. Callers must not retain or
// mutate bases afterward.
func New(bases []Base) Strand {
	return Strand{bases: bases}
}

// Empty returns the zero-length strand.
func Empty() Strand {
	return Strand{}
}

// FromBytes parses an ASCII byte slice into a Strand via FromByte.
func FromBytes(b []byte) Strand {
	bases := make([]Base, len(b))
	for i, c := range b {
		bases[i] = FromByte(c)
	}
	return Strand{bases: bases}
}

// FromString parses a string into a Strand via FromByte.
func FromString(s string) Strand {
	return FromBytes([]byte(s))
}

// Concat returns a new Strand holding a's bases followed by b's.
func Concat(a, b Strand) Strand {
	out := make([]Base, 0, len(a.bases)+len(b.bases))
	out = append(out, a.bases...)
	out = append(out, b.bases...)
	return Strand{bases: out}
}

// Len returns the number of bases in s.
func (s Strand) Len() int {
	return len(s.bases)
}

// At returns the base at index i.
func (s Strand) At(i int) Base {
	return s.bases[i]
}

// Bases returns the underlying slice. Callers must treat it as read-only.
func (s Strand) Bases() []Base {
	return s.bases
}

// Append returns a new Strand with other's bases appended after s's. s and
// other are left unmodified.
func (s Strand) Append(other Strand) Strand {
	return Concat(s, other)
}

// Sub returns the slice of bases in [start, end). It aliases the underlying
// array; callers must not mutate it.
func (s Strand) Sub(start, end int) []Base {
	return s.bases[start:end]
}

func (s Strand) String() string {
	var sb strings.Builder
	sb.Grow(len(s.bases))
	for _, b := range s.bases {
		sb.WriteByte(b.Byte())
	}
	return sb.String()
}

// GC returns the fraction of bases that are C or G. For an empty strand it
// returns 0.
func (s Strand) GC() float64 {
	if len(s.bases) == 0 {
		return 0
	}
	var gc int
	for _, b := range s.bases {
		if b.IsGC() {
			gc++
		}
	}
	return float64(gc) / float64(len(s.bases))
}

// LongestHomopolymer returns the length of the longest maximal run of equal
// bases. It is at least 1 for any non-empty strand and 0 (by convention) for
// the empty strand.
func (s Strand) LongestHomopolymer() int {
	if len(s.bases) == 0 {
		return 0
	}
	longest := 1
	run := 1
	for i := 1; i < len(s.bases); i++ {
		if s.bases[i] == s.bases[i-1] {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// KMers returns the len(s)-k+1 contiguous length-k windows of s, as slices
// aliasing s's backing array. It panics if k is greater than s.Len(), per
// spec: callers are expected to only ask for k-mers that fit.
func (s Strand) KMers(k int) [][]Base {
	if k > len(s.bases) {
		panic(fmt.Sprintf("base: cannot create k-mers of k=%d for strand of len %d", k, len(s.bases)))
	}
	count := len(s.bases) - k + 1
	kmers := make([][]Base, count)
	for i := 0; i < count; i++ {
		kmers[i] = s.bases[i : i+k]
	}
	return kmers
}

// KmerID maps a k-mer to its numeric identifier: the sum over i of
// ord(w_i)*4^i, where ord(A,C,G,T) = 0,1,2,3. Bases equal to A contribute
// zero. This exact numbering is load-bearing for MinHash signature
// compatibility (spec says it must be preserved exactly), so it is
// implemented as a direct bit-pack (each base occupies two bits at position
// 2*i) rather than a generic polynomial hash.
//
// For k > 32 the shift exceeds 64 bits and the identifier silently wraps,
// mirroring the 64-bit wraparound the reference implementation exhibits at
// the same boundary; LSH never constructs k above the spec's k<=33 ceiling.
func KmerID(kmer []Base) uint64 {
	var id uint64
	for i, b := range kmer {
		if b == A {
			continue
		}
		shift := uint(2 * i)
		if shift >= 64 {
			continue
		}
		id |= uint64(b) << shift
	}
	return id
}

// KMerSet returns the distinct k-mer identifiers of s.
func (s Strand) KMerSet(k int) map[uint64]struct{} {
	kmers := s.KMers(k)
	set := make(map[uint64]struct{}, len(kmers))
	for _, kmer := range kmers {
		set[KmerID(kmer)] = struct{}{}
	}
	return set
}

// Jaccard returns 1 - |K(s) ∩ K(t)| / |K(s) ∪ K(t)| where K(.) is the set of
// distinct k-mers. It panics if k exceeds either strand's length.
func (s Strand) Jaccard(t Strand, k int) float64 {
	a := s.KMerSet(k)
	b := t.KMerSet(k)
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	intersection := 0
	for id := range small {
		if _, ok := big[id]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return 1 - float64(intersection)/float64(union)
}

// SearchCount counts occurrences of needle in source using non-overlapping
// matching: the window advances by len(needle) on a hit, by 1 on a miss. If
// consecutive is true, it returns the length of the longest run of
// back-to-back matches instead of the total match count. If needle is
// longer than source, the result is 0.
//
// The reference implementation's loop condition ("while end < len") skips
// the final window, so a match that lands exactly at the tail of source is
// never counted. That is almost certainly unintentional (see spec's
// REDESIGN FLAGS), so this implementation uses "end <= len" and counts the
// tail window.
func SearchCount(source, needle []Base, consecutive bool) int {
	if len(source) < len(needle) || len(needle) == 0 {
		return 0
	}
	start, end := 0, len(needle)
	count := 0
	longestRun := 0
	run := 0
	for end <= len(source) {
		if basesEqual(source[start:end], needle) {
			count++
			run++
			if run > longestRun {
				longestRun = run
			}
			start += len(needle)
			end += len(needle)
		} else {
			run = 0
			start++
			end++
		}
	}
	if consecutive {
		return longestRun
	}
	return count
}

func basesEqual(a, b []Base) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EditNorm returns Levenshtein(s, t) / max(len(s), len(t)) using a two-row
// dynamic-programming table. If at any row the row minimum is already >=
// maxLen, it stops without finishing the table and uses maxLen as the
// distance, returning maxLen / max(len(s), len(t)) - this early exit is exact
// whenever the caller only consumes the thresholded value (e.g. "is this
// below some cutoff"), since the row minimum never decreases from one row to
// the next.
func (s Strand) EditNorm(t Strand, maxLen int) float64 {
	dist := levenshteinThresholded(s.bases, t.bases, maxLen)
	denom := len(s.bases)
	if len(t.bases) > denom {
		denom = len(t.bases)
	}
	if denom == 0 {
		return 0
	}
	return float64(dist) / float64(denom)
}

func levenshteinThresholded(a, b []Base, maxLen int) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
			if m < rowMin {
				rowMin = m
			}
		}
		if rowMin >= maxLen {
			return maxLen
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
