package vecenv

import (
	"github.com/pnpsc/pnpsc-go/env"
	"github.com/pnpsc/pnpsc-go/petri"
	"github.com/pnpsc/pnpsc-go/simulator"
)

// PrecomputeOpponentStrategy approximates agent's fixed-point strategy by
// running runs full episodes of the scalar environment against it and
// averaging every controlled transition's final rate across the runs
// where the agent actually changed it, so the vectorized engine's hot
// rollout loop never has to call an opponent agent directly. Adapted from
// original_source's PnpscVecEnv._eval_strategy.
func PrecomputeOpponentStrategy(net *petri.Net, player string, agent env.Agent, rng simulator.RNG, runs int) map[string]float64 {
	controlled := net.ControlledRates(player)
	names := make([]string, 0, len(controlled))
	for name := range controlled {
		names = append(names, name)
	}

	sums := make(map[string]float64, len(names))
	counts := make(map[string]int, len(names))
	startRates := make(map[string]float64, len(names))
	for _, name := range names {
		startRates[name] = controlled[name]
	}

	for run := 0; run < runs; run++ {
		sim := simulator.New(net, simulator.DefaultConfig(), rng)
		e := env.New(sim, player, nil, env.DefaultConfig())
		e.Reset()

		done := false
		for !done {
			action := agent.Act(sim.Net(), player)
			_, _, done = e.Step(action)
		}

		final := sim.Net().ControlledRates(player)
		for _, name := range names {
			if final[name] != startRates[name] {
				sums[name] += final[name]
				counts[name]++
			}
		}
	}

	out := make(map[string]float64)
	for _, name := range names {
		if counts[name] > 0 {
			out[name] = sums[name] / float64(counts[name])
		}
	}
	return out
}
