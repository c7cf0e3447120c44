package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dnaspool/infodna/base"
)

func TestListCorpusRejectsTooClose(t *testing.T) {
	c := NewListCorpus(4, 0.2)
	a := base.FromString("ACGTACGTACGT")
	b := base.FromString("ACGTACGTACGT")

	assert.True(t, c.TryAccept(a))
	assert.False(t, c.TryAccept(b), "an identical strand must never be accepted twice")
}

func TestListCorpusAcceptsDistantStrands(t *testing.T) {
	c := NewListCorpus(4, 0.2)
	a := base.FromString("ACGTACGTACGT")
	b := base.FromString("TTTTGGGGCCCC")

	assert.True(t, c.TryAccept(a))
	assert.True(t, c.TryAccept(b))
	assert.Len(t, c.Snapshot(), 2)
}

func TestListCorpusConcurrentAcceptsNeverViolateInvariant(t *testing.T) {
	c := NewListCorpus(3, 0.5)
	candidates := []base.Strand{
		base.FromString("AAAAAAAAAAAA"),
		base.FromString("CCCCCCCCCCCC"),
		base.FromString("GGGGGGGGGGGG"),
		base.FromString("TTTTTTTTTTTT"),
		base.FromString("AAAAAAAAAAAA"), // duplicate of the first
	}

	var wg sync.WaitGroup
	for _, cand := range candidates {
		cand := cand
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.TryAccept(cand)
		}()
	}
	wg.Wait()

	snapshot := c.Snapshot()
	for i := range snapshot {
		for j := range snapshot {
			if i == j {
				continue
			}
			assert.GreaterOrEqual(t, snapshot[i].Jaccard(snapshot[j], 3), 0.5)
		}
	}
}

func TestLSHCorpusAcceptsFirstAndRejectsSelf(t *testing.T) {
	c := NewLSHCorpus(4, 8, 4, 0.2)
	a := base.FromString("ACGTACGTACGTACGTACGT")

	assert.True(t, c.TryAccept(a))
	assert.False(t, c.TryAccept(a), "the LSH corpus must treat its own member as too close to itself")
}
