/*
Package permute implements PseudoPermutation, a universal-hash-based
approximation of a random permutation over {0,...,m-1}. It is the hash
family the lsh package uses for MinHash: cheap to construct in bulk, good
enough for locality-sensitive banding even though it is not a true
permutation.
*/
package permute

import (
	"math/big"
	"math/rand"
)

// PseudoPermutation applies pi(x) = ((a*x + b) mod p) mod m for a prime p
// sampled to be at least as large as m, and a, b drawn uniformly from
// {1,...,p}.
type PseudoPermutation struct {
	m, p, a, b uint64
}

// New constructs a PseudoPermutation over {0,...,m-1}, choosing p as the
// smallest odd prime strictly greater than m.
func New(m uint64) PseudoPermutation {
	return NewFromP(m, m)
}

// NewFromP constructs a PseudoPermutation over {0,...,m-1}, choosing p as
// the smallest odd prime strictly greater than p0. p0 must be >= m; chaining
// NewFromP(m, prev.P()) across a family of instances produces a strictly
// increasing sequence of primes, which is how lsh.New builds r independent-
// looking hash functions cheaply.
func NewFromP(m, p0 uint64) PseudoPermutation {
	if p0 < m {
		panic("permute: p0 must be >= m")
	}
	p := nextPrime(p0)
	return PseudoPermutation{
		m: m,
		p: p,
		a: 1 + randBelow(p),
		b: 1 + randBelow(p),
	}
}

// P returns the prime modulus chosen for this instance.
func (pp PseudoPermutation) P() uint64 {
	return pp.p
}

// M returns the permuted domain size.
func (pp PseudoPermutation) M() uint64 {
	return pp.m
}

// Apply computes pi(x) = ((a*x + b) mod p) mod m, always in [0, m).
func (pp PseudoPermutation) Apply(x uint64) uint64 {
	return mulAddMod(pp.a, x, pp.b, pp.p) % pp.m
}

// randBelow returns a pseudo-random value in [0, p). The family is not
// cryptographically uniform, but MinHash as used here does not need it to
// be: only approximate independence across the r permutations in an LSH
// instance matters.
func randBelow(p uint64) uint64 {
	if p == 0 {
		return 0
	}
	return rand.Uint64() % p
}

// mulAddMod computes (a*x + b) mod p without overflowing 64 bits, since a,
// x, and p can each be close to 2^64 once k-mer spaces get large.
func mulAddMod(a, x, b, p uint64) uint64 {
	var prod, mod, bigB big.Int
	prod.SetUint64(a)
	prod.Mul(&prod, new(big.Int).SetUint64(x))
	bigB.SetUint64(b)
	prod.Add(&prod, &bigB)
	mod.SetUint64(p)
	prod.Mod(&prod, &mod)
	return prod.Uint64()
}

// nextPrime returns the smallest odd prime strictly greater than n: start at
// n+1 if n is even, n+2 if n is odd, then walk by 2 testing primality by
// trial division up to sqrt(p).
func nextPrime(n uint64) uint64 {
	p := n + 1
	if p%2 == 0 {
		p++
	}
	for !isOddPrime(p) {
		p += 2
	}
	return p
}

func isOddPrime(p uint64) bool {
	if p < 2 {
		return false
	}
	if p == 2 {
		return true
	}
	if p%2 == 0 {
		return false
	}
	limit := uint64(isqrt(p))
	for d := uint64(3); d <= limit; d += 2 {
		if p%d == 0 {
			return false
		}
	}
	return true
}

func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
