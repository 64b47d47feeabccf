// Package eventlog records and replays per-run telemetry: the sequence of
// firing events produced by a simulator.Simulator over the course of an
// episode, keyed by a generated run ID, adapted from the teacher's
// process-mining event log (Case/Trace/EventLog) to PNPSC's simulation
// telemetry (Trace/Event).
package eventlog

import "github.com/google/uuid"

// Event is one simulated step: the clock time, the transition that fired
// (empty if the step was a no-op because the run was already done), and
// any transition names whose rate was updated immediately before the step.
type Event struct {
	Step    int      `json:"step"`
	Clock   float64  `json:"clock"`
	Fired   string   `json:"fired"`
	Updated []string `json:"updated,omitempty"`
}

// Trace is the full sequence of events recorded for a single run.
type Trace struct {
	RunID  string  `json:"run_id"`
	Events []Event `json:"events"`
}

// NewTrace starts an empty trace under a freshly generated run ID.
func NewTrace() *Trace {
	return &Trace{RunID: uuid.NewString()}
}

// Append records one event.
func (t *Trace) Append(e Event) {
	t.Events = append(t.Events, e)
}

// NumFirings returns the count of events where a transition actually fired.
func (t *Trace) NumFirings() int {
	n := 0
	for _, e := range t.Events {
		if e.Fired != "" {
			n++
		}
	}
	return n
}

// FiringCounts returns how many times each transition fired over the trace.
func (t *Trace) FiringCounts() map[string]int {
	out := make(map[string]int)
	for _, e := range t.Events {
		if e.Fired != "" {
			out[e.Fired]++
		}
	}
	return out
}
