// Package tui provides the Bubble Tea front end for playing nnat,
// including SSH serving via Wish. It contains no game logic: every
// state change goes through the documented engine methods.
package tui

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nnat-dev/nnat/internal/achieve"
	"github.com/nnat-dev/nnat/internal/config"
	"github.com/nnat-dev/nnat/internal/events"
	"github.com/nnat-dev/nnat/internal/item"
	"github.com/nnat-dev/nnat/internal/run"
	"github.com/nnat-dev/nnat/internal/stats"
	"github.com/nnat-dev/nnat/internal/wave"
)

// Options configures one play session.
type Options struct {
	Config  config.Config
	Catalog *item.Catalog
	Level   int
	Seed    int64        // 0 = time-based
	Store   *stats.Store // nil = no persistence
	Logger  *log.Logger
}

// session holds the mutable play state behind the value-typed Model.
type session struct {
	run     *run.Run
	phase   run.Phase
	message string // transient warning line
	toast   string // latest achievement unlock
}

// Model is the Bubble Tea model for one run of nnat.
type Model struct {
	opts Options
	s    *session
	keys KeyMap
	help help.Model

	cursor   int // flat cell index in the wave view
	width    int
	height   int
	quitting bool
}

// NewModel wires the engine, persistence and achievement tracking into
// a playable session.
func NewModel(opts Options) Model {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Level <= 0 {
		opts.Level = 1
	}

	s := &session{}

	var sink events.Sink = events.Nop{}
	if opts.Store != nil {
		tracker := achieve.NewTracker(opts.Store, opts.Logger)
		tracker.OnUnlock = func(a achieve.Achievement) {
			s.toast = fmt.Sprintf("Unlocked: %s — %s", a.Title, a.Desc)
		}
		// The recorder writes the counters the tracker reads, so it
		// must run first.
		sink = events.Multi{stats.NewRecorder(opts.Store, opts.Logger), tracker}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	s.run = run.New(
		opts.Config.RunConfig(opts.Level),
		opts.Config.Schedule(opts.Level),
		opts.Catalog,
		rng,
		opts.Logger,
		sink,
	)

	return Model{
		opts: opts,
		s:    s,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
}

// Run starts the Bubble Tea program for one play session and blocks
// until the user quits or the run ends.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// Init requests the run's first phase.
func (m Model) Init() tea.Cmd {
	m.advance(nil)
	return nil
}

// advance hands the finished phase back to the run and stores the next.
func (m Model) advance(prev run.Phase) {
	phase, err := m.s.run.Next(prev)
	if err != nil {
		m.s.message = err.Error()
		return
	}
	m.s.phase = phase
	m.s.message = ""
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch phase := m.s.phase.(type) {
	case *run.SelectPhase:
		return m.handleSelectKey(msg, phase)
	case *run.WavePhase:
		return m.handleWaveKey(msg, phase)
	case run.Outcome:
		if key.Matches(msg, m.keys.Confirm) || key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleSelectKey(msg tea.KeyMsg, phase *run.SelectPhase) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Pick):
		i := int(msg.String()[0] - '1')
		if i >= len(phase.Offers) {
			return m, nil
		}
		phase.Choose(i)
		m.advance(phase)
	case key.Matches(msg, m.keys.Skip):
		phase.Skip()
		m.advance(phase)
	}
	return m, nil
}

func (m Model) handleWaveKey(msg tea.KeyMsg, phase *run.WavePhase) (tea.Model, tea.Cmd) {
	g := phase.Grid()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor >= g.Cols {
			m.cursor -= g.Cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+g.Cols < len(g.Cells) {
			m.cursor += g.Cols
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor%g.Cols > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor%g.Cols < g.Cols-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Pick):
		i := int(msg.String()[0] - '1')
		if err := phase.Execute(i, m.cursor); err != nil {
			m.s.message = err.Error()
		} else {
			m.s.message = ""
		}
	case key.Matches(msg, m.keys.Undo):
		phase.Undo()
	case key.Matches(msg, m.keys.Redo):
		phase.Redo()
	case key.Matches(msg, m.keys.Reroll):
		if !phase.Reroll() {
			m.s.message = "no rerolls left"
		}
	case key.Matches(msg, m.keys.Submit):
		if err := phase.Submit(); err != nil {
			m.s.message = err.Error()
			return m, nil
		}
		m.cursor = 0
		if phase.Status() != wave.Playing {
			m.advance(phase)
		}
	}
	return m, nil
}
