// Package events defines the callback surface the engine exposes to
// external collaborators (achievement tracking, run logging). Sinks are
// invoked synchronously at well-defined points and never drive control
// flow; a slow or failing sink is the collaborator's problem.
package events

// Sink receives engine notifications. Implementations must tolerate
// being called from any engine phase and must not call back into the
// engine.
type Sink interface {
	// RunStart fires when a run's first phase is requested.
	RunStart(level int)
	// RunEnd fires exactly once per run, on natural or forced completion.
	RunEnd(level int, win bool)
	// WaveComplete fires once per wave that reaches a terminal status.
	WaveComplete(level, wave int, frameScores []int, win bool)
	// GridScored fires once per submitted frame.
	GridScored(total int, componentTotals []int)
	// ItemCollected fires once per select resolution that adds an item.
	ItemCollected(name string)
}

// Nop is a Sink that ignores everything.
type Nop struct{}

func (Nop) RunStart(int)                       {}
func (Nop) RunEnd(int, bool)                   {}
func (Nop) WaveComplete(int, int, []int, bool) {}
func (Nop) GridScored(int, []int)              {}
func (Nop) ItemCollected(string)               {}

// Multi fans notifications out to several sinks in order.
type Multi []Sink

func (m Multi) RunStart(level int) {
	for _, s := range m {
		s.RunStart(level)
	}
}

func (m Multi) RunEnd(level int, win bool) {
	for _, s := range m {
		s.RunEnd(level, win)
	}
}

func (m Multi) WaveComplete(level, wave int, frameScores []int, win bool) {
	for _, s := range m {
		s.WaveComplete(level, wave, frameScores, win)
	}
}

func (m Multi) GridScored(total int, componentTotals []int) {
	for _, s := range m {
		s.GridScored(total, componentTotals)
	}
}

func (m Multi) ItemCollected(name string) {
	for _, s := range m {
		s.ItemCollected(name)
	}
}
