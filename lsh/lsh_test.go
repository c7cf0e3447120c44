package lsh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnaspool/infodna/base"
)

func TestNewPanicsWhenRNotMultipleOfB(t *testing.T) {
	assert.Panics(t, func() {
		New(5, 10, 3)
	})
}

func TestNewPanicsWhenKAboveMax(t *testing.T) {
	assert.Panics(t, func() {
		New(34, 8, 4)
	})
}

func TestInsertThenSelfContained(t *testing.T) {
	index := New(4, 8, 4)
	seq := base.FromString("ACGTACGTACGTACGTACGT")
	index.Insert(seq)

	similar := index.Similar(seq)
	require.NotEmpty(t, similar)

	found := false
	for _, s := range similar {
		if s.String() == seq.String() {
			found = true
		}
	}
	assert.True(t, found, "a strand must be found by its own query (self-containment)")
}

func TestSimilarNeverReturnsUninsertedStrand(t *testing.T) {
	index := New(4, 4, 2)
	seq := base.FromString("ACGTACGTACGT")
	other := base.FromString("TTTTGGGGCCCC")
	index.Insert(seq)

	// other was never inserted, so it must never appear in its own query
	// result; seq may appear if it happens to share a band signature.
	similar := index.Similar(other)
	for _, s := range similar {
		assert.NotEqual(t, other.String(), s.String())
	}
}

func TestMinHashesLengthMatchesR(t *testing.T) {
	index := New(3, 6, 3)
	seq := base.FromString("ACGTACGTACGT")
	mh := index.MinHashes(seq)
	assert.Len(t, mh, 6)
}
