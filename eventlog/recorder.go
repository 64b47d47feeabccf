package eventlog

import "github.com/pnpsc/pnpsc-go/simulator"

// Recorder captures one Event per Simulator.Step call, for post-hoc
// analysis or replay. It does not mutate the simulator; the caller drives
// stepping and calls Record after each step.
type Recorder struct {
	trace *Trace
	step  int
}

// NewRecorder starts a recorder under a fresh run ID.
func NewRecorder() *Recorder {
	return &Recorder{trace: NewTrace()}
}

// Record appends one event reflecting sim's state immediately after a Step
// call (or a Reset, in which case Fired is empty).
func (r *Recorder) Record(sim *simulator.Simulator) {
	r.trace.Append(Event{
		Step:    r.step,
		Clock:   sim.Clock(),
		Fired:   sim.LastFired(),
		Updated: sim.Updated(),
	})
	r.step++
}

// Trace returns the accumulated trace.
func (r *Recorder) Trace() *Trace { return r.trace }
