// Package env implements the scalar, gym-shaped PNPSC environment: one
// primary player's Observation/Action/Reward/Termination contract wrapped
// around a simulator.Simulator, with other players driven by their
// registered Agent.
package env

import (
	"math"
	"sort"

	"github.com/pnpsc/pnpsc-go/petri"
	"github.com/pnpsc/pnpsc-go/simulator"
)

// CostFunc computes the cost of moving a player's controlled rates from
// old to new. The default is a Lipschitz, symmetric L1 distance scaled by
// 1/10; CostFunc(x, x) must always be 0.
type CostFunc func(new, old []float64) float64

// DefaultCostFunc is ||new - old||_1 / 10.
func DefaultCostFunc(new, old []float64) float64 {
	sum := 0.0
	for i := range new {
		d := new[i] - old[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum / 10
}

// Config holds the environment's tunable contract parameters.
type Config struct {
	MaxRate   float64
	GoalBonus float64
	Cost      CostFunc
	StepSim   bool // false lets the primary apply several updates before a firing
}

// DefaultConfig returns the reference contract defaults.
func DefaultConfig() Config {
	return Config{MaxRate: 10, GoalBonus: 100, Cost: DefaultCostFunc, StepSim: true}
}

// Environment wraps a Simulator with the gym-shaped step contract for one
// primary player; other players act through their registered Agent, in
// net player-registration order.
type Environment struct {
	sim     *simulator.Simulator
	primary string
	agents  map[string]Agent // keyed by player name, excludes primary
	cfg     Config

	primaryCostPrev float64
	done            bool
	lastObs         []float64
}

// New builds an Environment over sim for the given primary player. agents
// maps every other player's name to the Agent that drives it; a player
// with no entry is treated as a StaticAgent.
func New(sim *simulator.Simulator, primary string, agents map[string]Agent, cfg Config) *Environment {
	e := &Environment{sim: sim, primary: primary, agents: agents, cfg: cfg}
	e.primaryCostPrev = sim.Net().PlayerCost(primary)
	e.lastObs = e.observe()
	return e
}

// ObservationSpec returns the dimensionality of the primary player's
// observation vector: visible places followed by controlled rates.
func (e *Environment) ObservationSpec() int {
	net := e.sim.Net()
	return len(net.VisiblePlaces(e.primary)) + len(net.ControlledRates(e.primary))
}

// ActionSpec returns the dimensionality of the primary player's action
// vector: one entry per controlled transition.
func (e *Environment) ActionSpec() int {
	return len(e.sim.Net().ControlledRates(e.primary))
}

// Reset restores the underlying simulator to its initial state and
// returns the primary player's initial observation.
func (e *Environment) Reset() []float64 {
	e.sim.Reset()
	e.primaryCostPrev = e.sim.Net().PlayerCost(e.primary)
	e.done = false
	e.lastObs = e.observe()
	return e.lastObs
}

// Step applies action (the primary player's desired controlled rates,
// clipped to [0, MaxRate]), then every other agent's action in
// registration order, advances the simulator by one firing unless
// cfg.StepSim is false, and returns the primary player's observation,
// reward, and done flag. A nil action leaves the primary's rates
// unchanged (used for run-to-completion with no agent). A Step call
// after done is a no-op: it returns the last observation and a reward
// of 0 without touching the simulator or re-awarding the goal bonus.
func (e *Environment) Step(action []float64) ([]float64, float64, bool) {
	if e.done {
		return e.lastObs, 0, true
	}

	net := e.sim.Net()

	current := sortedRates(net.ControlledRates(e.primary))
	if action == nil {
		action = current
	}
	clipped := clip(action, e.cfg.MaxRate)
	cost := e.cfg.Cost(clipped, current)
	net.AddCost(e.primary, cost)
	e.applyRates(e.primary, clipped)

	for _, name := range net.PlayerNames {
		if name == e.primary {
			continue
		}
		agent := e.agentFor(name)
		want := agent.Act(net, name)
		before := sortedRates(net.ControlledRates(name))
		applied := clip(want, e.cfg.MaxRate)
		net.AddCost(name, e.cfg.Cost(applied, before))
		e.applyRates(name, applied)
	}

	if e.cfg.StepSim {
		e.sim.Step()
	}

	costNow := net.PlayerCost(e.primary)
	reward := -(costNow - e.primaryCostPrev)
	e.primaryCostPrev = costNow

	goalHit := anyMarked(net, net.GoalPlaces(e.primary))
	endHit := anyMarked(net, net.EndPlaces(e.primary))
	done := net.Done || goalHit || endHit
	if done && goalHit {
		reward += e.cfg.GoalBonus
	}

	e.done = done
	e.lastObs = e.observe()
	return e.lastObs, reward, done
}

// RunToCompletion steps with no primary action until done, summing reward.
func (e *Environment) RunToCompletion() float64 {
	total := 0.0
	for {
		_, reward, done := e.Step(nil)
		total += reward
		if done {
			return total
		}
	}
}

func (e *Environment) agentFor(player string) Agent {
	if a, ok := e.agents[player]; ok {
		return a
	}
	return StaticAgent{}
}

func (e *Environment) applyRates(player string, rates []float64) {
	names := sortedNames(e.sim.Net().ControlledRates(player))
	changes := make(map[string]float64, len(names))
	for i, name := range names {
		changes[name] = rates[i]
	}
	e.sim.UpdateRates(changes)
}

func (e *Environment) observe() []float64 {
	net := e.sim.Net()
	out := make([]float64, 0, e.ObservationSpec())
	for _, name := range sortedNames(net.VisiblePlaces(e.primary)) {
		out = append(out, float64(net.VisiblePlaces(e.primary)[name]))
	}
	for _, v := range sortedRates(net.ControlledRates(e.primary)) {
		out = append(out, v)
	}
	return out
}

func anyMarked(net *petri.Net, places []string) bool {
	marking := net.AllPlaces()
	for _, p := range places {
		if marking[p] > 0 {
			return true
		}
	}
	return false
}

func clip(xs []float64, max float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Max(0, math.Min(max, x))
	}
	return out
}

func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
