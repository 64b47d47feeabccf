// Package simulator implements the PNPSC discrete-event engine: the
// enabledness test, control-rate composition, exponential firing-time
// sampling with the cloud-compatible reset rule, token movement, and cost
// accounting, over a *petri.Net.
//
// This replaces the teacher's continuous ODE harness (pflow's engine
// package) with a discrete-event one: a PNPSC net advances by sampling one
// exponential firing time per enabled transition and firing whichever comes
// due first, not by integrating a rate equation.
package simulator

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pnpsc/pnpsc-go/petri"
)

// Config holds the four PNPSC simulation toggles. These are per-Simulator
// fields, not process-global flags, so that parallel simulators with
// different semantics can coexist (Design Note "Global mutable flags").
type Config struct {
	// Reset resamples every enabled transition's firing time on every
	// step (the default, cloud-compatible policy). When false, a
	// transition's pending firing time is only sampled once and carried
	// across steps until it fires or becomes disabled.
	Reset bool
	// UseFireCost charges a fired transition's FireCost to its owning
	// player. Off by default, matching the reference cloud simulator.
	UseFireCost bool
	// ResetControlRate persists the composed effective rate (base +
	// active control-rate modifiers) back into the transition's base
	// rate. Off by default: control-rate modifiers are purely
	// observational.
	ResetControlRate bool
	// LargeTime is the sentinel firing time offset used for an enabled
	// transition whose effective rate is exactly 0, so it can still
	// eventually fire if nothing else becomes enabled.
	LargeTime float64
}

// DefaultConfig returns the cloud-compatible default configuration.
func DefaultConfig() Config {
	return Config{
		Reset:            true,
		UseFireCost:      false,
		ResetControlRate: false,
		LargeTime:        100,
	}
}

// RNG draws an exponential firing-time sample for an enabled transition
// firing at rate (mean 1/rate). It is injected so simulation is
// reproducible and so tests can substitute a deterministic fake.
type RNG interface {
	Exp(rate float64) float64
}

type arcIndex struct {
	input, output, inhibitor []int
	controlPlace             []int
	controlDelta             []float64
}

// Simulator advances a *petri.Net by exactly one firing per Step call.
// It owns exclusive write access to the net's marking, rates, costs, and
// done flag for the duration of a Step; nothing else should mutate them.
type Simulator struct {
	net *petri.Net
	cfg Config
	rng RNG
	log zerolog.Logger

	arcs []arcIndex // one per transition, by canonical index

	t       float64
	ft      []float64
	fired   int // canonical index of the last fired transition, -1 if none
	updated []string
}

// New builds a Simulator over net with the given configuration and
// exponential-sampling source, and resets it to the net's initial state.
func New(net *petri.Net, cfg Config, rng RNG) *Simulator {
	s := &Simulator{
		net: net,
		cfg: cfg,
		rng: rng,
		log: zerolog.Nop(),
	}
	s.arcs = make([]arcIndex, net.NumTransitions())
	for i := 0; i < net.NumTransitions(); i++ {
		t := net.Transition(i)
		idx := arcIndex{}
		for _, name := range t.Input {
			pi, _ := net.PlaceIndex(name)
			idx.input = append(idx.input, pi)
		}
		for _, name := range t.Output {
			pi, _ := net.PlaceIndex(name)
			idx.output = append(idx.output, pi)
		}
		for _, name := range t.Inhibitor {
			pi, _ := net.PlaceIndex(name)
			idx.inhibitor = append(idx.inhibitor, pi)
		}
		for _, cr := range t.ControlRate {
			pi, _ := net.PlaceIndex(cr.Place)
			idx.controlPlace = append(idx.controlPlace, pi)
			idx.controlDelta = append(idx.controlDelta, cr.Delta)
		}
		s.arcs[i] = idx
	}
	s.Reset()
	return s
}

// SetLogger attaches a logger for debug-level step tracing. The zero value
// (zerolog.Nop()) is used until this is called, so logging is entirely
// optional.
func (s *Simulator) SetLogger(l zerolog.Logger) { s.log = l }

// Net returns the underlying net.
func (s *Simulator) Net() *petri.Net { return s.net }

// Clock returns the simulated clock time.
func (s *Simulator) Clock() float64 { return s.t }

// LastFired returns the name of the transition fired by the most recent
// Step, or "" if none has fired yet (e.g. immediately after Reset) or the
// most recent Step found nothing enabled.
func (s *Simulator) LastFired() string {
	if s.fired < 0 {
		return ""
	}
	return s.net.Transition(s.fired).Name
}

// Updated returns the transition names most recently passed to UpdateRates.
func (s *Simulator) Updated() []string { return s.updated }

// Reset restores the initial marking and base rates, zeroes every player's
// cost, clears the done flag and simulated clock, and clears all pending
// firing times.
func (s *Simulator) Reset() {
	for i := 0; i < s.net.NumPlaces(); i++ {
		p := s.net.Place(i)
		p.Marking = p.Initial
	}
	for i := 0; i < s.net.NumTransitions(); i++ {
		t := s.net.Transition(i)
		t.Rate = t.Initial
	}
	for _, pv := range s.net.Players() {
		pv.Cost = 0
	}
	s.net.Done = false
	s.t = 0
	s.fired = -1
	s.updated = nil
	s.ft = make([]float64, s.net.NumTransitions())
	for i := range s.ft {
		s.ft[i] = math.Inf(1)
	}
}

// UpdateRates overwrites the base rate of each named transition and
// records the names touched, for telemetry/rendering consumers.
func (s *Simulator) UpdateRates(changes map[string]float64) {
	s.updated = nil
	for name, rate := range changes {
		if idx, ok := s.net.TransitionIndex(name); ok {
			s.net.Transition(idx).Rate = rate
			s.updated = append(s.updated, name)
		}
	}
	sort.Strings(s.updated)
}

// Enabled returns, for every transition in canonical index order, whether
// it is currently enabled: every input place marked and every inhibitor
// place unmarked.
func (s *Simulator) Enabled() []bool {
	out := make([]bool, s.net.NumTransitions())
	for i := range out {
		out[i] = s.isEnabled(i)
	}
	return out
}

func (s *Simulator) isEnabled(i int) bool {
	idx := s.arcs[i]
	for _, pi := range idx.input {
		if s.net.Place(pi).Marking < 1 {
			return false
		}
	}
	for _, pi := range idx.inhibitor {
		if s.net.Place(pi).Marking > 0 {
			return false
		}
	}
	return true
}

// effectiveRate returns base rate plus every active control-rate modifier.
func (s *Simulator) effectiveRate(i int) float64 {
	t := s.net.Transition(i)
	idx := s.arcs[i]
	r := t.Rate
	for k, pi := range idx.controlPlace {
		if s.net.Place(pi).Marking >= 1 {
			r += idx.controlDelta[k]
		}
	}
	return r
}

// Step advances the net by exactly one firing. A step after Done is a
// no-op.
func (s *Simulator) Step() {
	if s.net.Done {
		return
	}

	enabled := s.Enabled()
	anyEnabled := false
	for _, e := range enabled {
		anyEnabled = anyEnabled || e
	}
	if !anyEnabled {
		s.net.Done = true
		s.fired = -1
		return
	}

	for i := 0; i < s.net.NumTransitions(); i++ {
		r := s.effectiveRate(i)
		if enabled[i] {
			if s.cfg.Reset || math.IsInf(s.ft[i], 1) {
				if r == 0 {
					s.ft[i] = s.t + s.cfg.LargeTime
				} else {
					s.ft[i] = s.t + s.rng.Exp(r)
				}
			}
		} else {
			s.ft[i] = math.Inf(1)
		}
		if s.cfg.ResetControlRate {
			s.net.Transition(i).Rate = r
		}
	}

	j := argmin(s.ft)
	s.t = s.ft[j]
	s.fired = j
	s.ft[j] = math.Inf(1)

	idx := s.arcs[j]
	for _, pi := range idx.input {
		s.net.Place(pi).Marking--
	}
	for _, pi := range idx.output {
		s.net.Place(pi).Marking++
	}

	fired := s.net.Transition(j)
	if s.cfg.UseFireCost && fired.PlayerControl != "" {
		s.net.AddCost(fired.PlayerControl, fired.FireCost)
	}

	s.log.Debug().
		Str("fired", fired.Name).
		Float64("t", s.t).
		Msg("step")
}

// argmin returns the index of the smallest value, breaking ties by lowest
// index (Design Note: "the source's argmin breaks ties by index; keep
// this behavior").
func argmin(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[best] {
			best = i
		}
	}
	return best
}
