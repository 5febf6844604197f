package stats

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nnat-dev/nnat/internal/events"
)

// Lifetime counter keys.
const (
	KeyRunsStarted     = "runs_started"
	KeyRunsWon         = "runs_won"
	KeyRunsLost        = "runs_lost"
	KeyWavesCleared    = "waves_cleared"
	KeyFramesSubmitted = "frames_submitted"
	KeyTotalNnat       = "total_nnat"
	KeyItemsCollected  = "items_collected"
	KeyBestGrid        = "best_grid"
)

// Recorder observes engine events and persists lifetime counters and
// run logs. Storage failures are logged and swallowed: an observer must
// never break the game it is watching.
type Recorder struct {
	store *Store
	log   *log.Logger

	runID int64
	seq   int
}

var _ events.Sink = (*Recorder)(nil)

// NewRecorder wraps a store into an event sink.
func NewRecorder(store *Store, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{store: store, log: logger}
}

func (r *Recorder) RunStart(level int) {
	r.count(KeyRunsStarted, 1)
	id, err := r.store.BeginRun(level)
	if err != nil {
		r.log.Warn("cannot open run log", "error", err)
		r.runID = 0
		return
	}
	r.runID = id
	r.seq = 0
}

func (r *Recorder) RunEnd(_ int, win bool) {
	if win {
		r.count(KeyRunsWon, 1)
	} else {
		r.count(KeyRunsLost, 1)
	}
	if r.runID == 0 {
		return
	}
	outcome := "lose"
	if win {
		outcome = "win"
	}
	if err := r.store.FinishRun(r.runID, outcome); err != nil {
		r.log.Warn("cannot seal run log", "error", err)
	}
	r.runID = 0
}

func (r *Recorder) WaveComplete(_, _ int, _ []int, win bool) {
	if win {
		r.count(KeyWavesCleared, 1)
	}
}

func (r *Recorder) GridScored(total int, componentTotals []int) {
	r.count(KeyFramesSubmitted, 1)
	r.count(KeyTotalNnat, int64(total))
	if err := r.store.SetMax(KeyBestGrid, int64(total)); err != nil {
		r.log.Warn("cannot raise best grid", "error", err)
	}
	r.append("score", joinInts(componentTotals))
}

func (r *Recorder) ItemCollected(name string) {
	r.count(KeyItemsCollected, 1)
	r.append("select", name)
}

func (r *Recorder) count(key string, delta int64) {
	if err := r.store.Incr(key, delta); err != nil {
		r.log.Warn("cannot update stat", "key", key, "error", err)
	}
}

func (r *Recorder) append(kind, detail string) {
	if r.runID == 0 {
		return
	}
	if err := r.store.AppendRunEntry(r.runID, r.seq, kind, detail); err != nil {
		r.log.Warn("cannot append run entry", "error", err)
		return
	}
	r.seq++
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
