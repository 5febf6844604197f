// Package item defines the collectible catalog: actions that rewrite
// the board, patterns that score, and bonuses that hook the scoring
// pipeline. Catalogs are explicitly constructed and passed in; there is
// no process-wide registry.
package item

import (
	"fmt"
	"sort"

	"github.com/nnat-dev/nnat/internal/grid"
	"github.com/nnat-dev/nnat/internal/score"
)

// Kind discriminates the three item variants.
type Kind int

const (
	KindAction Kind = iota
	KindPattern
	KindBonus
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindPattern:
		return "pattern"
	case KindBonus:
		return "bonus"
	default:
		return "unknown"
	}
}

// Freq is the rarity tier used for offer sampling.
type Freq int

const (
	Common Freq = iota
	Uncommon
	Rare
)

// String returns a human-readable rarity name.
func (f Freq) String() string {
	switch f {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	default:
		return "unknown"
	}
}

// Action is a pure board transform. Arg is an action-specific parameter
// (usually a flat cell index chosen by the player).
type Action struct {
	Execute func(g grid.Grid, arg int) (grid.Grid, error)
}

// Item is a tagged union over the three variants. Exactly one of
// Action, Pattern, Bonus is non-nil, matching Kind.
type Item struct {
	Name     string // unique key
	Title    string
	Desc     string
	Freq     Freq
	FreqMult float64 // sampling weight adjustment
	Priority int     // stable inventory ordering key
	Limit    int     // max copies per inventory; 0 = unbounded

	Kind    Kind
	Action  *Action
	Pattern *score.Pattern
	Bonus   *score.Bonus
}

// Catalog is an ordered item collection. Order matters: patterns match
// and bonuses fire in catalog order.
type Catalog struct {
	items  []Item
	byName map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]int)}
}

// Add appends an item. Duplicate names are rejected.
func (c *Catalog) Add(it Item) error {
	if it.Name == "" {
		return fmt.Errorf("item: catalog entry without a name")
	}
	if _, dup := c.byName[it.Name]; dup {
		return fmt.Errorf("item: duplicate catalog entry %q", it.Name)
	}
	c.byName[it.Name] = len(c.items)
	c.items = append(c.items, it)
	return nil
}

// MustAdd is Add for static tables; panics on error.
func (c *Catalog) MustAdd(it Item) {
	if err := c.Add(it); err != nil {
		panic(err)
	}
}

// ByName looks an item up by its unique key.
func (c *Catalog) ByName(name string) (Item, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Items returns the catalog contents in registration order.
// The returned slice is shared; callers must not modify it.
func (c *Catalog) Items() []Item {
	return c.items
}

// OfKind returns the items of one kind, in registration order.
func (c *Catalog) OfKind(k Kind) []Item {
	var out []Item
	for _, it := range c.items {
		if it.Kind == k {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.items)
}

// SortInventory orders an inventory by priority, then name for a stable
// tie-break. Used after every collected item.
func SortInventory(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		return items[i].Name < items[j].Name
	})
}

// CountIn returns how many copies of the named item an inventory holds.
func CountIn(inventory []Item, name string) int {
	n := 0
	for _, it := range inventory {
		if it.Name == name {
			n++
		}
	}
	return n
}

// Partition splits an inventory into its three kinds, preserving order.
func Partition(inventory []Item) (actions []Item, patterns []score.Pattern, bonuses []score.Bonus) {
	for _, it := range inventory {
		switch it.Kind {
		case KindAction:
			actions = append(actions, it)
		case KindPattern:
			patterns = append(patterns, *it.Pattern)
		case KindBonus:
			bonuses = append(bonuses, *it.Bonus)
		}
	}
	return actions, patterns, bonuses
}
