// Package offer implements the item-selection decision point between
// waves: weighted random sampling from the catalog, honoring per-item
// acquisition limits, and the player's pending choice.
//
// This is the one genuinely randomized engine subsystem; the random
// source is injected so tests can pin it down.
package offer

import (
	"math/rand"

	"github.com/nnat-dev/nnat/internal/item"
)

// Weights is the rarity-chance curve for one select phase.
type Weights map[item.Freq]float64

// Sample draws up to count distinct items from the catalog without
// replacement. A candidate is eligible when it passes the optional kind
// filter, has not been offered in this call, and the inventory holds
// fewer copies than its limit. Each draw is weighted by
// weights[freq] × FreqMult over the remaining candidates. When no
// eligible candidate remains the result is simply shorter than count;
// exhaustion is never an error.
func Sample(rng *rand.Rand, catalog []item.Item, inventory []item.Item, count int, weights Weights, kind *item.Kind) []item.Item {
	offered := make(map[string]bool, count)
	var offers []item.Item

	for len(offers) < count {
		var candidates []item.Item
		var cum []float64
		total := 0.0
		for _, it := range catalog {
			if kind != nil && it.Kind != *kind {
				continue
			}
			if offered[it.Name] {
				continue
			}
			if it.Limit > 0 && item.CountIn(inventory, it.Name) >= it.Limit {
				continue
			}
			w := weights[it.Freq] * it.FreqMult
			if w <= 0 {
				continue
			}
			total += w
			candidates = append(candidates, it)
			cum = append(cum, total)
		}
		if len(candidates) == 0 {
			break
		}

		roll := rng.Float64() * total
		pick := len(candidates) - 1
		for i, c := range cum {
			if roll < c {
				pick = i
				break
			}
		}

		offered[candidates[pick].Name] = true
		offers = append(offers, candidates[pick])
	}

	return offers
}

// choice values below -1 are sentinels; >= 0 indexes Offers.
const (
	unset   = -1
	skipped = -2
)

// Select is one ephemeral offer round: the sampled candidates plus the
// player's single decision. It is created by the run, consumed by
// exactly one Choose or Skip, then discarded.
type Select struct {
	Offers []item.Item
	choice int
}

// New wraps sampled offers into a pending selection.
func New(offers []item.Item) *Select {
	return &Select{Offers: offers, choice: unset}
}

// Choose records the player's pick. Out-of-range indices are ignored
// and leave the selection undecided.
func (s *Select) Choose(i int) {
	if i < 0 || i >= len(s.Offers) {
		return
	}
	s.choice = i
}

// Skip records an explicit pass on all offers.
func (s *Select) Skip() {
	s.choice = skipped
}

// Done reports whether the player has decided.
func (s *Select) Done() bool {
	return s.choice != unset
}

// Chosen returns the picked item, if any. Skipped or undecided
// selections return false.
func (s *Select) Chosen() (item.Item, bool) {
	if s.choice < 0 {
		return item.Item{}, false
	}
	return s.Offers[s.choice], true
}
