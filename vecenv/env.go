package vecenv

import (
	"math"

	"github.com/pnpsc/pnpsc-go/env"
	"github.com/pnpsc/pnpsc-go/petri"
	"github.com/pnpsc/pnpsc-go/simulator"
)

// Config tunes the single-step advantage-form environment.
type Config struct {
	MaxRate float64
	Cost    env.CostFunc
	Rows    int // Monte-Carlo rows per mean-reward re-estimate, default 10000
	StepSim bool
}

// DefaultConfig returns the reference defaults: 10000 rollout rows per
// re-estimate, the default rate-change cost, step_sim enabled.
func DefaultConfig() Config {
	return Config{MaxRate: 10, Cost: env.DefaultCostFunc, Rows: 10000, StepSim: true}
}

// Env is the single-step, advantage-form environment described in the
// vectorized rollout engine's component design: between actions it
// estimates E[return] by batch rollout and rewards the player with the
// per-step change in that estimate, in addition to the immediate rate
// change cost.
type Env struct {
	net     *petri.Net
	primary string
	m       *Matrices
	rng     simulator.RNG
	cfg     Config

	marking []float64
	rates   []float64

	lastMeanReward  *float64
	primaryRateIdx  []int
	playerRateIdx   map[string][]int // every player's controlled-rate transition indices
	otherPlayerRate map[string]float64
}

// New builds an Env over net for the primary player, sharing rng with any
// concrete simulation the caller performs alongside the estimate.
func New(net *petri.Net, primary string, rng simulator.RNG, cfg Config) *Env {
	m := Build(net, primary)
	e := &Env{
		net:             net,
		primary:         primary,
		m:               m,
		rng:             rng,
		cfg:             cfg,
		otherPlayerRate: make(map[string]float64),
	}
	e.playerRateIdx = make(map[string][]int, len(net.PlayerNames))
	for _, name := range net.PlayerNames {
		e.playerRateIdx[name] = rateIndices(m, net, name)
	}
	e.primaryRateIdx = e.playerRateIdx[primary]
	e.reset()
	return e
}

func rateIndices(m *Matrices, net *petri.Net, player string) []int {
	controlled := net.ControlledRates(player)
	var idx []int
	for i, name := range m.Trans {
		if _, ok := controlled[name]; ok {
			idx = append(idx, i)
		}
	}
	return idx
}

func (e *Env) reset() {
	e.marking = e.m.InitialMarking(e.net)
	e.rates = append([]float64(nil), e.m.TransRate...)
	e.lastMeanReward = nil
}

// Reset restores initial marking/rates and clears the cached mean-reward
// baseline, so the next Step call re-estimates it.
func (e *Env) Reset() {
	e.reset()
}

// SetOpponentStrategy installs a pre-computed mean final rate for a
// transition, overriding its entry in the rate vector during rollouts
// (see PrecomputeOpponentStrategy).
func (e *Env) SetOpponentStrategy(transition string, meanRate float64) {
	e.otherPlayerRate[transition] = meanRate
	for i, name := range e.m.Trans {
		if name == transition {
			e.rates[i] = meanRate
		}
	}
}

// Step applies action (the primary's desired controlled rates, clipped to
// [0, MaxRate]) and returns the advantage-form reward plus the done flag.
func (e *Env) Step(action []float64) (float64, bool) {
	if e.lastMeanReward == nil {
		baseline := RunBatchUntilComplete(e.m, e.marking, e.rates, e.rng, e.cfg.Rows)
		e.lastMeanReward = &baseline
	}

	reward := 0.0
	if action != nil {
		current := takeRates(e.rates, e.primaryRateIdx)
		clipped := clipAll(action, e.cfg.MaxRate)
		reward -= e.cfg.Cost(clipped, current)
		putRates(e.rates, e.primaryRateIdx, clipped)
	}

	done := false
	if e.cfg.StepSim {
		done = e.stepSim()
		if done {
			reward -= *e.lastMeanReward
		}
	}

	if !done {
		current := RunBatchUntilComplete(e.m, e.marking, e.rates, e.rng, e.cfg.Rows)
		reward += current - *e.lastMeanReward
		e.lastMeanReward = &current
	}

	return reward, done
}

func (e *Env) stepSim() bool {
	t := e.m.NumTrans()
	eff := make([]float64, t)
	anyPositive := false
	for j := 0; j < t; j++ {
		if !enabled(e.m, e.marking, j) {
			continue
		}
		v := e.rates[j]
		for i := 0; i < e.m.NumPlaces(); i++ {
			if e.marking[i] >= 1 && e.m.CR.At(i, j) != 0 {
				v += e.m.CR.At(i, j)
			}
		}
		eff[j] = v
		if v > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return true
	}

	ft := make([]float64, t)
	for j := 0; j < t; j++ {
		if eff[j] > 0 {
			ft[j] = e.rng.Exp(eff[j])
		} else {
			ft[j] = math.Inf(1)
		}
	}
	j := argmin(ft)
	for i := 0; i < e.m.NumPlaces(); i++ {
		e.marking[i] -= e.m.IN.At(i, j)
		e.marking[i] += e.m.OUT.At(i, j)
	}

	for _, gi := range e.m.GoalPlaces {
		if e.marking[gi] > 0 {
			return true
		}
	}
	for _, ei := range e.m.EndPlaces {
		if e.marking[ei] > 0 {
			return true
		}
	}
	return false
}

func takeRates(rates []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = rates[j]
	}
	return out
}

func putRates(rates []float64, idx []int, values []float64) {
	for i, j := range idx {
		rates[j] = values[i]
	}
}

func clipAll(xs []float64, max float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Max(0, math.Min(max, x))
	}
	return out
}
