package raptor

import (
	"math/rand"

	"github.com/mroth/weightedrand"
)

// randomOrder returns a uniformly random permutation of [0, n). The search
// loop re-tries combinePacketsToStrand with a fresh order every time a
// decodable-but-rule-violating combination is found, so that strand
// candidates vary across attempts instead of always drawing the same
// packets first.
//
// The permutation is built by repeatedly drawing from a uniform
// weightedrand.Chooser over the candidate indices; draws that repeat an
// already-placed index are discarded. This is slower than a Fisher-Yates
// shuffle. If the Chooser cannot be built, rand.Perm is used instead.
func randomOrder(n int) []int {
	if n == 0 {
		return nil
	}
	choices := make([]weightedrand.Choice, n)
	for i := 0; i < n; i++ {
		choices[i] = weightedrand.Choice{Item: i, Weight: 1}
	}
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return rand.Perm(n)
	}

	order := make([]int, 0, n)
	seen := make([]bool, n)
	for len(order) < n {
		pick := chooser.Pick().(int)
		if !seen[pick] {
			seen[pick] = true
			order = append(order, pick)
		}
	}
	return order
}
