package wave

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/nnat-dev/nnat/internal/item"
)

// recorder captures event notifications for assertions.
type recorder struct {
	gridScored   int
	waveComplete int
	lastWin      bool
	lastFrames   []int
}

func (r *recorder) RunStart(int)     {}
func (r *recorder) RunEnd(int, bool) {}
func (r *recorder) WaveComplete(_, _ int, frames []int, win bool) {
	r.waveComplete++
	r.lastWin = win
	r.lastFrames = frames
}
func (r *recorder) GridScored(int, []int) { r.gridScored++ }
func (r *recorder) ItemCollected(string)  {}

func inventory(t *testing.T, names ...string) []item.Item {
	t.Helper()
	c := item.Builtin()
	var inv []item.Item
	for _, n := range names {
		it, ok := c.ByName(n)
		if !ok {
			t.Fatalf("builtin item %q missing", n)
		}
		inv = append(inv, it)
	}
	return inv
}

func newWave(t *testing.T, cfg Config, sink *recorder, names ...string) *Wave {
	t.Helper()
	if cfg.Rows == 0 {
		cfg.Rows, cfg.Cols = 5, 5
	}
	rng := rand.New(rand.NewSource(77))
	if sink == nil {
		return New(cfg, inventory(t, names...), rng, nil, nil)
	}
	return New(cfg, inventory(t, names...), rng, nil, sink)
}

func TestNewDealsOneScoredBoard(t *testing.T) {
	w := newWave(t, Config{Target: 100, MaxFrames: 3, MaxRolls: 2}, nil, "chisel", "dyad")

	if w.HistoryLen() != 1 {
		t.Fatalf("history length = %d, want 1", w.HistoryLen())
	}
	if w.Status() != Playing {
		t.Fatalf("status = %v, want playing", w.Status())
	}
	if w.Score() == nil {
		t.Fatal("initial board not scored")
	}
	if w.Frame() != 0 || w.TotalScore() != 0 {
		t.Error("fresh wave has banked frames")
	}
}

func TestExecuteSingleUse(t *testing.T) {
	w := newWave(t, Config{Target: 1000, MaxFrames: 5, MaxRolls: 2}, nil, "chisel", "seed", "dyad")

	if err := w.Execute(0, 3); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if err := w.Execute(0, 4); !errors.Is(err, ErrSpentAction) {
		t.Fatalf("second Execute: expected ErrSpentAction, got %v", err)
	}
	if w.HistoryLen() != 2 {
		t.Errorf("rejected Execute changed history (len %d)", w.HistoryLen())
	}

	// a different action is still available
	if err := w.Execute(1, 4); err != nil {
		t.Fatalf("other action: %v", err)
	}

	// reroll wipes the history and refunds every action
	if !w.Reroll() {
		t.Fatal("Reroll refused within budget")
	}
	if err := w.Execute(0, 3); err != nil {
		t.Errorf("Execute after reroll: %v", err)
	}
}

func TestExecuteBadIndex(t *testing.T) {
	w := newWave(t, Config{Target: 1000, MaxFrames: 5, MaxRolls: 2}, nil, "chisel")

	if err := w.Execute(5, 0); !errors.Is(err, ErrNoAction) {
		t.Errorf("expected ErrNoAction, got %v", err)
	}
	if err := w.Execute(-1, 0); !errors.Is(err, ErrNoAction) {
		t.Errorf("negative index: expected ErrNoAction, got %v", err)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	w := newWave(t, Config{Target: 1000, MaxFrames: 5, MaxRolls: 2}, nil, "chisel", "seed", "flux", "dyad")

	initialGrid := w.Grid()
	initialScore := w.Score()

	for i := 0; i < 3; i++ {
		if err := w.Execute(i, i); err != nil {
			t.Fatalf("Execute %d: %v", i, err)
		}
	}
	tipGrid := w.Grid()
	tipScore := w.Score()

	for i := 0; i < 3; i++ {
		if !w.Undo() {
			t.Fatalf("Undo %d refused", i)
		}
	}
	if !w.Grid().Equal(initialGrid) {
		t.Error("undo did not restore the initial grid")
	}
	if w.Score() != initialScore {
		t.Error("undo recomputed the score instead of reusing the cached instance")
	}
	if w.Undo() {
		t.Error("Undo past the first entry succeeded")
	}

	for i := 0; i < 3; i++ {
		if !w.Redo() {
			t.Fatalf("Redo %d refused", i)
		}
	}
	if !w.Grid().Equal(tipGrid) {
		t.Error("redo did not restore the tip grid")
	}
	if w.Score() != tipScore {
		t.Error("redo lost score instance identity")
	}
	if w.Redo() {
		t.Error("Redo past the tip succeeded")
	}
}

func TestExecuteTruncatesRedoTail(t *testing.T) {
	w := newWave(t, Config{Target: 1000, MaxFrames: 5, MaxRolls: 2}, nil, "chisel", "seed")

	if err := w.Execute(0, 0); err != nil {
		t.Fatal(err)
	}
	w.Undo()

	// chisel now lives only in the redo tail, so it is free again
	if w.ActionUsed(0) {
		t.Error("undone action still counts as spent")
	}
	if err := w.Execute(1, 1); err != nil {
		t.Fatalf("Execute after undo: %v", err)
	}
	if w.CanRedo() {
		t.Error("redo tail survived a new Execute")
	}
	if w.HistoryLen() != 2 {
		t.Errorf("history length = %d, want 2", w.HistoryLen())
	}
}

func TestSubmitCascadesIntoFreshBoard(t *testing.T) {
	rec := &recorder{}
	w := newWave(t, Config{Target: 100000, MaxFrames: 3, MaxRolls: 2}, rec, "chisel", "dyad", "static")

	w.Reroll()
	before := w.Grid()

	if err := w.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if w.Frame() != 1 {
		t.Errorf("frame = %d, want 1", w.Frame())
	}
	if w.TotalScore() == 0 {
		t.Error("static bonus guarantees a nonzero banked score")
	}
	if rec.gridScored != 1 {
		t.Errorf("GridScored fired %d times, want 1", rec.gridScored)
	}
	if w.Roll() != 0 {
		t.Errorf("submit did not reset the re-roll counter (roll=%d)", w.Roll())
	}
	if w.HistoryLen() != 1 {
		t.Errorf("submit left %d history entries, want a single fresh board", w.HistoryLen())
	}
	if w.Grid().Equal(before) {
		t.Error("submit did not deal a fresh board")
	}
	if rec.waveComplete != 0 {
		t.Error("WaveComplete fired while the wave is still playing")
	}
}

func TestWaveLose(t *testing.T) {
	rec := &recorder{}
	w := newWave(t, Config{Target: 1 << 30, MaxFrames: 2, MaxRolls: 1}, rec, "dyad")

	if err := w.Submit(); err != nil {
		t.Fatal(err)
	}
	if w.Status() != Playing {
		t.Fatalf("status after frame 1 = %v", w.Status())
	}
	if err := w.Submit(); err != nil {
		t.Fatal(err)
	}
	if w.Status() != Lose {
		t.Fatalf("status = %v, want lose", w.Status())
	}
	if rec.waveComplete != 1 || rec.lastWin {
		t.Errorf("WaveComplete fired %d times (win=%v), want once with a loss", rec.waveComplete, rec.lastWin)
	}
	if len(rec.lastFrames) != 2 {
		t.Errorf("frame scores = %v, want 2 entries", rec.lastFrames)
	}

	// terminal wave rejects further submits without state change
	frames := w.Frame()
	if err := w.Submit(); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("expected ErrNotPlaying, got %v", err)
	}
	if w.Frame() != frames {
		t.Error("rejected Submit still banked a frame")
	}
}

func TestWaveWin(t *testing.T) {
	rec := &recorder{}
	// static guarantees at least 10 nnat per frame
	w := newWave(t, Config{Target: 5, MaxFrames: 3, MaxRolls: 1}, rec, "static")

	if err := w.Submit(); err != nil {
		t.Fatal(err)
	}
	if w.Status() != Win {
		t.Fatalf("status = %v, want win", w.Status())
	}
	if rec.waveComplete != 1 || !rec.lastWin {
		t.Error("expected one winning WaveComplete")
	}
}

func TestRerollBudget(t *testing.T) {
	w := newWave(t, Config{Target: 1000, MaxFrames: 3, MaxRolls: 2}, nil, "dyad")

	if !w.Reroll() || !w.Reroll() {
		t.Fatal("rerolls within budget refused")
	}
	if w.Reroll() {
		t.Error("reroll beyond budget succeeded")
	}
	if w.Roll() != 2 {
		t.Errorf("roll = %d, want 2", w.Roll())
	}
	if w.CanUndo() {
		t.Error("reroll left an undoable history")
	}
}

func TestDevWin(t *testing.T) {
	w := newWave(t, Config{Target: 1 << 30, MaxFrames: 3, MaxRolls: 1, DevWin: true}, nil, "dyad")

	if w.Status() != Playing {
		t.Fatal("dev mode won before any submit")
	}
	if err := w.Submit(); err != nil {
		t.Fatal(err)
	}
	if w.Status() != Win {
		t.Errorf("status = %v, want dev-mode win", w.Status())
	}
}
