// Package achieve tracks achievements by observing engine events and
// consulting lifetime stats. It only consumes notifications; unlocks
// flow the other way, through a callback toward the presentation layer.
package achieve

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/nnat-dev/nnat/internal/events"
	"github.com/nnat-dev/nnat/internal/stats"
)

// Achievement is one unlockable.
type Achievement struct {
	Name  string
	Title string
	Desc  string
}

// Table is the fixed achievement list, in display order.
var Table = []Achievement{
	{Name: "first-steps", Title: "First Steps", Desc: "Start a run."},
	{Name: "first-win", Title: "Order Restored", Desc: "Win a run."},
	{Name: "collector", Title: "Collector", Desc: "Collect 10 items, lifetime."},
	{Name: "century", Title: "Century", Desc: "Reduce 100 nnat of entropy, lifetime."},
	{Name: "millennium", Title: "Millennium", Desc: "Reduce 1000 nnat of entropy, lifetime."},
	{Name: "one-board-wonder", Title: "One Board Wonder", Desc: "Score 50 nnat on a single board."},
}

// Tracker evaluates achievements against the stats store after each
// engine event. Like every sink it never drives control flow: storage
// failures are logged and the game goes on.
type Tracker struct {
	store *stats.Store
	log   *log.Logger

	// OnUnlock fires once per fresh unlock, toward the UI.
	OnUnlock func(Achievement)
}

var _ events.Sink = (*Tracker)(nil)

// NewTracker builds a tracker over the given store.
func NewTracker(store *stats.Store, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tracker{store: store, log: logger}
}

func (t *Tracker) RunStart(int) {
	t.award("first-steps")
}

func (t *Tracker) RunEnd(_ int, win bool) {
	if win {
		t.award("first-win")
	}
}

func (t *Tracker) WaveComplete(int, int, []int, bool) {}

func (t *Tracker) GridScored(total int, _ []int) {
	if total >= 50 {
		t.award("one-board-wonder")
	}
	t.threshold("century", stats.KeyTotalNnat, 100)
	t.threshold("millennium", stats.KeyTotalNnat, 1000)
}

func (t *Tracker) ItemCollected(string) {
	t.threshold("collector", stats.KeyItemsCollected, 10)
}

// threshold awards name once the lifetime counter reaches want.
func (t *Tracker) threshold(name, key string, want int64) {
	v, err := t.store.Get(key)
	if err != nil {
		t.log.Warn("cannot read stat", "key", key, "error", err)
		return
	}
	if v >= want {
		t.award(name)
	}
}

// award unlocks by name, firing OnUnlock only on the first time.
func (t *Tracker) award(name string) {
	fresh, err := t.store.Unlock(name)
	if err != nil {
		t.log.Warn("cannot record unlock", "name", name, "error", err)
		return
	}
	if !fresh || t.OnUnlock == nil {
		return
	}
	for _, a := range Table {
		if a.Name == name {
			t.OnUnlock(a)
			return
		}
	}
}
