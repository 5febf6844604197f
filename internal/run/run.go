// Package run drives a whole play session: a scripted schedule of
// item-selection offers and waves, the persistent inventory threaded
// through them, and the terminal win/lose outcome.
package run

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/nnat-dev/nnat/internal/events"
	"github.com/nnat-dev/nnat/internal/item"
	"github.com/nnat-dev/nnat/internal/offer"
	"github.com/nnat-dev/nnat/internal/wave"
)

var (
	// ErrPhaseMismatch flags a caller handing back the wrong (or an
	// unfinished) phase result. The run state is unchanged.
	ErrPhaseMismatch = errors.New("phase result does not match the current phase")
	// ErrFinished rejects advancing a run that already produced its outcome.
	ErrFinished = errors.New("run already finished")
)

// StageKind discriminates schedule entries.
type StageKind int

const (
	StageSelect StageKind = iota
	StageWave
)

// Stage is one schedule entry: either an offer round or a wave.
type Stage struct {
	Kind StageKind

	// Select stages.
	Count      int
	Weights    offer.Weights
	KindFilter *item.Kind

	// Wave stages.
	Target int
}

// Phase is the sealed sum of what Next can hand out. Exactly three
// variants exist: *SelectPhase, *WavePhase and Outcome.
type Phase interface {
	phase()
}

// SelectPhase is a pending offer round.
type SelectPhase struct {
	*offer.Select
}

// WavePhase is a wave in play.
type WavePhase struct {
	*wave.Wave
}

// Outcome is the terminal phase of a run.
type Outcome struct {
	Win bool
}

func (*SelectPhase) phase() {}
func (*WavePhase) phase()   {}
func (Outcome) phase()      {}

// Config sizes the run and its waves.
type Config struct {
	Level     int
	Rows      int
	Cols      int
	MaxFrames int
	MaxRolls  int
	DevWin    bool
}

// Run owns the active phase and the inventory. Single-threaded: one
// Next call per completed phase, driven by the presentation layer.
type Run struct {
	cfg      Config
	schedule []Stage
	catalog  *item.Catalog

	phaseIndex int
	current    Phase
	items      []item.Item
	waveCount  int
	started    bool
	finished   bool
	won        bool

	rng  *rand.Rand
	log  *log.Logger
	sink events.Sink
}

// New creates a run over the given schedule. The catalog is the item
// pool offers draw from. A nil logger or sink is replaced with a silent
// one.
func New(cfg Config, schedule []Stage, catalog *item.Catalog, rng *rand.Rand, logger *log.Logger, sink events.Sink) *Run {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sink == nil {
		sink = events.Nop{}
	}
	return &Run{
		cfg:      cfg,
		schedule: schedule,
		catalog:  catalog,
		rng:      rng,
		log:      logger,
		sink:     sink,
	}
}

// Next advances the schedule. The very first call takes nil; every
// later call must hand back the phase Next previously returned, fully
// resolved. A chosen offer joins the inventory; a lost wave
// short-circuits the whole schedule into a losing outcome. Past the end
// of the schedule the run is won.
func (r *Run) Next(prev Phase) (Phase, error) {
	if r.finished {
		return Outcome{Win: r.won}, ErrFinished
	}

	if !r.started {
		if prev != nil {
			return nil, fmt.Errorf("run: first Next call takes no result: %w", ErrPhaseMismatch)
		}
		r.started = true
		r.sink.RunStart(r.cfg.Level)
		return r.build(), nil
	}

	if prev == nil || prev != r.current {
		return nil, fmt.Errorf("run: stale or missing phase result: %w", ErrPhaseMismatch)
	}

	switch p := prev.(type) {
	case *SelectPhase:
		if !p.Done() {
			return nil, fmt.Errorf("run: selection still undecided: %w", ErrPhaseMismatch)
		}
		if it, ok := p.Chosen(); ok {
			r.items = append(r.items, it)
			item.SortInventory(r.items)
			r.sink.ItemCollected(it.Name)
		}
	case *WavePhase:
		switch p.Status() {
		case wave.Lose:
			return r.finish(false), nil
		case wave.Win:
			// proceed
		default:
			return nil, fmt.Errorf("run: wave still playing: %w", ErrPhaseMismatch)
		}
	default:
		return nil, fmt.Errorf("run: unexpected result %T: %w", prev, ErrPhaseMismatch)
	}

	r.phaseIndex++
	if r.phaseIndex >= len(r.schedule) {
		return r.finish(true), nil
	}
	return r.build(), nil
}

// build constructs the phase object for the current schedule entry.
func (r *Run) build() Phase {
	stage := r.schedule[r.phaseIndex]
	switch stage.Kind {
	case StageSelect:
		offers := offer.Sample(r.rng, r.catalog.Items(), r.items, stage.Count, stage.Weights, stage.KindFilter)
		if len(offers) < stage.Count {
			r.log.Warn("offer pool exhausted", "want", stage.Count, "got", len(offers))
		}
		p := &SelectPhase{Select: offer.New(offers)}
		r.current = p
		return p
	case StageWave:
		w := wave.New(wave.Config{
			Level:     r.cfg.Level,
			Index:     r.waveCount,
			Rows:      r.cfg.Rows,
			Cols:      r.cfg.Cols,
			Target:    stage.Target,
			MaxFrames: r.cfg.MaxFrames,
			MaxRolls:  r.cfg.MaxRolls,
			DevWin:    r.cfg.DevWin,
		}, r.items, r.rng, r.log, r.sink)
		r.waveCount++
		p := &WavePhase{Wave: w}
		r.current = p
		return p
	default:
		panic(fmt.Sprintf("run: unknown stage kind %d", stage.Kind))
	}
}

// finish seals the run and notifies observers exactly once.
func (r *Run) finish(win bool) Outcome {
	r.finished = true
	r.won = win
	r.current = nil
	r.sink.RunEnd(r.cfg.Level, win)
	return Outcome{Win: win}
}

// ForceWin ends the run as a win immediately, bypassing the remaining
// schedule. Diagnostics escape hatch; it emits the same completion
// notifications as a natural win.
func (r *Run) ForceWin() Outcome {
	if r.finished {
		return Outcome{Win: r.won}
	}
	if !r.started {
		r.started = true
		r.sink.RunStart(r.cfg.Level)
	}
	return r.finish(true)
}

// Items returns a copy of the accumulated inventory in priority order.
func (r *Run) Items() []item.Item {
	out := make([]item.Item, len(r.items))
	copy(out, r.items)
	return out
}

// Level returns the run's level number.
func (r *Run) Level() int { return r.cfg.Level }

// Finished reports whether the run has produced its outcome.
func (r *Run) Finished() bool { return r.finished }
