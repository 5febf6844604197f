package achieve

import (
	"path/filepath"
	"testing"

	"github.com/nnat-dev/nnat/internal/stats"
)

func newTracker(t *testing.T) (*Tracker, *stats.Store, *[]string) {
	t.Helper()
	store, err := stats.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var unlocked []string
	tr := NewTracker(store, nil)
	tr.OnUnlock = func(a Achievement) { unlocked = append(unlocked, a.Name) }
	return tr, store, &unlocked
}

func TestFirstStepsAndWin(t *testing.T) {
	tr, _, unlocked := newTracker(t)

	tr.RunStart(1)
	tr.RunEnd(1, false)
	if len(*unlocked) != 1 || (*unlocked)[0] != "first-steps" {
		t.Fatalf("unlocked = %v, want [first-steps]", *unlocked)
	}

	tr.RunStart(1)
	tr.RunEnd(1, true)
	if len(*unlocked) != 2 || (*unlocked)[1] != "first-win" {
		t.Fatalf("unlocked = %v, want first-win appended", *unlocked)
	}

	// repeats stay silent
	tr.RunStart(1)
	tr.RunEnd(1, true)
	if len(*unlocked) != 2 {
		t.Errorf("repeat unlocks fired: %v", *unlocked)
	}
}

func TestLifetimeThresholds(t *testing.T) {
	tr, store, unlocked := newTracker(t)

	// stats are written by the recorder before the tracker looks
	if err := store.Incr(stats.KeyTotalNnat, 99); err != nil {
		t.Fatal(err)
	}
	tr.GridScored(20, nil)
	for _, name := range *unlocked {
		if name == "century" {
			t.Fatal("century unlocked below threshold")
		}
	}

	if err := store.Incr(stats.KeyTotalNnat, 1); err != nil {
		t.Fatal(err)
	}
	tr.GridScored(20, nil)

	found := false
	for _, name := range *unlocked {
		if name == "century" {
			found = true
		}
	}
	if !found {
		t.Errorf("century not unlocked at 100 nnat: %v", *unlocked)
	}
}

func TestSingleBoardAchievement(t *testing.T) {
	tr, _, unlocked := newTracker(t)

	tr.GridScored(49, nil)
	tr.GridScored(50, nil)

	found := false
	for _, name := range *unlocked {
		if name == "one-board-wonder" {
			found = true
		}
	}
	if !found {
		t.Errorf("one-board-wonder missing: %v", *unlocked)
	}
}
