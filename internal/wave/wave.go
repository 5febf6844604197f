// Package wave implements one target-score challenge: a history of
// immutable board snapshots with undo/redo, a re-roll budget, single-use
// actions and the submit cascade that either deals a fresh board or ends
// the wave.
package wave

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/nnat-dev/nnat/internal/events"
	"github.com/nnat-dev/nnat/internal/grid"
	"github.com/nnat-dev/nnat/internal/item"
	"github.com/nnat-dev/nnat/internal/score"
)

// Status is the wave's derived state. Win and Lose are terminal.
type Status int

const (
	Playing Status = iota
	Win
	Lose
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "unknown"
	}
}

var (
	// ErrNotPlaying rejects operations on a finished wave. The wave
	// state is unchanged; lenient callers may ignore it.
	ErrNotPlaying = errors.New("wave is not playing")
	// ErrSpentAction rejects re-use of an action within one wave.
	ErrSpentAction = errors.New("action already used this wave")
	// ErrNoAction rejects an action index outside the inventory.
	ErrNoAction = errors.New("no such action")
)

// Config sizes and targets one wave.
type Config struct {
	Level int // run level, carried into event notifications
	Index int // wave number within the run, 0-based
	Rows  int
	Cols  int

	Target    int // nnat required to win
	MaxFrames int // boards that may be submitted
	MaxRolls  int // re-rolls per frame

	// DevWin treats every submitted frame as an immediate win.
	DevWin bool
}

// snapshot is one history entry. Grids and scores are immutable once
// pushed; undo/redo only moves the cursor.
type snapshot struct {
	grid   grid.Grid
	score  *score.Score
	action int // action index that produced this grid, -1 for dealt boards
}

// Wave owns its history exclusively. It is built by the run for one
// wave phase and discarded when the phase ends.
type Wave struct {
	cfg      Config
	actions  []item.Item
	patterns []score.Pattern
	bonuses  []score.Bonus

	history []snapshot
	cursor  int

	frame       int
	roll        int
	totalScore  int
	frameScores []int

	rng  *rand.Rand
	log  *log.Logger
	sink events.Sink
}

// New creates a wave seeded with the player's inventory, partitioned by
// kind, and deals the initial board. A nil logger or sink is replaced
// with a silent one.
func New(cfg Config, inventory []item.Item, rng *rand.Rand, logger *log.Logger, sink events.Sink) *Wave {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sink == nil {
		sink = events.Nop{}
	}
	actions, patterns, bonuses := item.Partition(inventory)

	w := &Wave{
		cfg:      cfg,
		actions:  actions,
		patterns: patterns,
		bonuses:  bonuses,
		rng:      rng,
		log:      logger,
		sink:     sink,
	}
	w.deal()
	return w
}

// deal throws the whole history away and pushes one fresh random board.
func (w *Wave) deal() {
	w.history = w.history[:0]
	w.cursor = 0
	w.push(grid.Random(w.cfg.Rows, w.cfg.Cols, w.rng), -1)
}

// push scores a grid, truncates any redo tail beyond the cursor and
// appends the snapshot as the new current state.
func (w *Wave) push(g grid.Grid, action int) {
	if len(w.history) > 0 {
		w.history = w.history[:w.cursor+1]
	}
	w.history = append(w.history, snapshot{
		grid:   g,
		score:  score.Compute(g, w.patterns, w.bonuses),
		action: action,
	})
	w.cursor = len(w.history) - 1
}

// ActionUsed reports whether the action index was spent anywhere in the
// history up to the current cursor. An action sitting only in the redo
// tail is not spent: undoing past it frees it again.
func (w *Wave) ActionUsed(i int) bool {
	for _, snap := range w.history[:w.cursor+1] {
		if snap.action == i {
			return true
		}
	}
	return false
}

// Execute applies the indexed action's pure transform to the current
// board and pushes the result. Each action is usable at most once per
// wave; the budget resets only on a re-roll. Rejections leave the wave
// unchanged and are logged.
func (w *Wave) Execute(actionIdx, arg int) error {
	if w.Status() != Playing {
		w.log.Warn("execute on finished wave", "status", w.Status(), "action", actionIdx)
		return ErrNotPlaying
	}
	if actionIdx < 0 || actionIdx >= len(w.actions) {
		return fmt.Errorf("wave: action index %d of %d: %w", actionIdx, len(w.actions), ErrNoAction)
	}
	if w.ActionUsed(actionIdx) {
		w.log.Warn("action already spent", "action", w.actions[actionIdx].Name)
		return ErrSpentAction
	}

	g, err := w.actions[actionIdx].Action.Execute(w.Grid(), arg)
	if err != nil {
		return fmt.Errorf("wave: %s: %w", w.actions[actionIdx].Name, err)
	}
	w.push(g, actionIdx)
	return nil
}

// Undo moves the cursor one snapshot back. No-op at the first entry.
func (w *Wave) Undo() bool {
	if w.cursor == 0 {
		return false
	}
	w.cursor--
	return true
}

// Redo moves the cursor one snapshot forward. No-op at the tip.
func (w *Wave) Redo() bool {
	if w.cursor >= len(w.history)-1 {
		return false
	}
	w.cursor++
	return true
}

// Submit banks the current board's score as one frame. If the wave is
// still undecided afterwards the re-roll budget resets and a fresh board
// is dealt for free; otherwise the wave is over and observers are told.
// Submit never stands alone.
func (w *Wave) Submit() error {
	if w.Status() != Playing {
		w.log.Warn("submit on finished wave", "status", w.Status())
		return ErrNotPlaying
	}

	s := w.Score()
	w.totalScore += s.Total()
	w.frameScores = append(w.frameScores, s.Total())
	w.frame++
	w.sink.GridScored(s.Total(), s.ComponentTotals())

	if w.Status() == Playing {
		w.roll = 0
		w.deal()
		return nil
	}

	w.sink.WaveComplete(w.cfg.Level, w.cfg.Index, w.FrameScores(), w.Status() == Win)
	return nil
}

// Reroll discards the entire history, including spent-action bookkeeping,
// and deals a fresh board. Silent no-op when the budget is exhausted.
// A re-roll is not undoable.
func (w *Wave) Reroll() bool {
	if w.roll >= w.cfg.MaxRolls {
		return false
	}
	w.roll++
	w.deal()
	return true
}

// Status derives the wave state from banked frames. Win as soon as the
// target is reached regardless of remaining frames; in dev mode any
// submitted frame wins.
func (w *Wave) Status() Status {
	if w.cfg.DevWin && w.frame >= 1 {
		return Win
	}
	if w.totalScore >= w.cfg.Target {
		return Win
	}
	if w.frame >= w.cfg.MaxFrames {
		return Lose
	}
	return Playing
}

// Grid returns the board at the cursor.
func (w *Wave) Grid() grid.Grid {
	return w.history[w.cursor].grid
}

// Score returns the cached score at the cursor. Undo and redo return
// the very score instance computed when the snapshot was pushed.
func (w *Wave) Score() *score.Score {
	return w.history[w.cursor].score
}

// Actions returns the wave's action inventory in priority order.
func (w *Wave) Actions() []item.Item {
	return w.actions
}

// Frame returns the number of submitted boards.
func (w *Wave) Frame() int { return w.frame }

// Roll returns the number of re-rolls consumed since the last submit.
func (w *Wave) Roll() int { return w.roll }

// TotalScore returns the nnat banked across submitted frames.
func (w *Wave) TotalScore() int { return w.totalScore }

// Target returns the nnat required to win.
func (w *Wave) Target() int { return w.cfg.Target }

// MaxFrames returns the frame budget.
func (w *Wave) MaxFrames() int { return w.cfg.MaxFrames }

// MaxRolls returns the per-frame re-roll budget.
func (w *Wave) MaxRolls() int { return w.cfg.MaxRolls }

// CanUndo reports whether the cursor can move back.
func (w *Wave) CanUndo() bool { return w.cursor > 0 }

// CanRedo reports whether a redo tail exists.
func (w *Wave) CanRedo() bool { return w.cursor < len(w.history)-1 }

// HistoryLen returns the number of snapshots currently held.
func (w *Wave) HistoryLen() int { return len(w.history) }

// FrameScores returns a copy of the per-frame scores banked so far.
func (w *Wave) FrameScores() []int {
	out := make([]int, len(w.frameScores))
	copy(out, w.frameScores)
	return out
}
