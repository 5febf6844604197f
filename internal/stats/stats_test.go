package stats

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file was not created")
	}
	return store
}

func TestCounters(t *testing.T) {
	store := openTestStore(t)

	if v, err := store.Get(KeyTotalNnat); err != nil || v != 0 {
		t.Fatalf("fresh counter = %d/%v, want 0/nil", v, err)
	}

	if err := store.Incr(KeyTotalNnat, 12); err != nil {
		t.Fatal(err)
	}
	if err := store.Incr(KeyTotalNnat, 30); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get(KeyTotalNnat); v != 42 {
		t.Errorf("counter = %d, want 42", v)
	}

	if err := store.SetMax(KeyBestGrid, 20); err != nil {
		t.Fatal(err)
	}
	if err := store.SetMax(KeyBestGrid, 15); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get(KeyBestGrid); v != 20 {
		t.Errorf("best = %d, want 20 (SetMax lowered the value)", v)
	}

	all, err := store.All()
	if err != nil {
		t.Fatal(err)
	}
	if all[KeyTotalNnat] != 42 || all[KeyBestGrid] != 20 {
		t.Errorf("All() = %v", all)
	}
}

func TestUnlockOnce(t *testing.T) {
	store := openTestStore(t)

	first, err := store.Unlock("first-win")
	if err != nil {
		t.Fatal(err)
	}
	if !first {
		t.Error("first Unlock reported already-unlocked")
	}

	again, err := store.Unlock("first-win")
	if err != nil {
		t.Fatal(err)
	}
	if again {
		t.Error("second Unlock reported a fresh unlock")
	}

	unlocks, err := store.Unlocks()
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocks) != 1 || unlocks[0].Name != "first-win" {
		t.Errorf("Unlocks() = %v", unlocks)
	}
}

func TestRunLogAppendOnly(t *testing.T) {
	store := openTestStore(t)

	id, err := store.BeginRun(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AppendRunEntry(id, 0, "select", "echo"); err != nil {
		t.Fatal(err)
	}
	if err := store.AppendRunEntry(id, 1, "score", "12,5"); err != nil {
		t.Fatal(err)
	}
	if err := store.FinishRun(id, "win"); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RecentRuns(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.Level != 2 || r.Outcome != "win" {
		t.Errorf("run = %+v", r)
	}
	if len(r.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(r.Entries))
	}
	if r.Entries[0].Kind != "select" || r.Entries[0].Detail != "echo" {
		t.Errorf("entry 0 = %+v", r.Entries[0])
	}
	if r.Entries[1].Kind != "score" || r.Entries[1].Detail != "12,5" {
		t.Errorf("entry 1 = %+v", r.Entries[1])
	}
}

func TestRecorderFullRun(t *testing.T) {
	store := openTestStore(t)
	rec := NewRecorder(store, nil)

	rec.RunStart(1)
	rec.ItemCollected("echo")
	rec.GridScored(25, []int{20, 5})
	rec.WaveComplete(1, 0, []int{25}, true)
	rec.GridScored(40, []int{40})
	rec.WaveComplete(1, 1, []int{40}, true)
	rec.RunEnd(1, true)

	checks := map[string]int64{
		KeyRunsStarted:     1,
		KeyRunsWon:         1,
		KeyRunsLost:        0,
		KeyWavesCleared:    2,
		KeyFramesSubmitted: 2,
		KeyTotalNnat:       65,
		KeyItemsCollected:  1,
		KeyBestGrid:        40,
	}
	for key, want := range checks {
		if got, _ := store.Get(key); got != want {
			t.Errorf("%s = %d, want %d", key, got, want)
		}
	}

	runs, err := store.RecentRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Outcome != "win" {
		t.Fatalf("runs = %+v", runs)
	}
	if len(runs[0].Entries) != 3 {
		t.Errorf("got %d log entries, want 3 (select + two scores)", len(runs[0].Entries))
	}
}
