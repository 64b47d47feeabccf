package env

import (
	"math/rand"
	"sort"

	"github.com/pnpsc/pnpsc-go/petri"
)

// Agent produces a desired-rate action for a single player from the
// current net state. Implementations must not mutate net; all writes are
// routed through the Environment.
type Agent interface {
	Act(net *petri.Net, player string) []float64
}

// StaticAgent takes no action: it always returns the player's current
// controlled rates unchanged, adapted from original_source's StaticAgent.
type StaticAgent struct{}

// Act returns the player's current controlled rates, sorted by transition
// name, so applying the result back is a no-op.
func (StaticAgent) Act(net *petri.Net, player string) []float64 {
	return sortedRates(net.ControlledRates(player))
}

// RandomAgent updates a single randomly chosen controlled rate to a
// random value in [0, MaxRate) with probability Eps, otherwise leaves
// every rate unchanged, adapted from original_source's RandomAgent.
type RandomAgent struct {
	Eps     float64
	MaxRate float64
	Rand    *rand.Rand
}

// NewRandomAgent returns a RandomAgent with the reference default eps=1.0
// and a maxRate, seeded deterministically.
func NewRandomAgent(maxRate float64, seed int64) *RandomAgent {
	return &RandomAgent{Eps: 1.0, MaxRate: maxRate, Rand: rand.New(rand.NewSource(seed))}
}

// Act implements Agent.
func (a *RandomAgent) Act(net *petri.Net, player string) []float64 {
	rates := sortedRates(net.ControlledRates(player))
	if len(rates) == 0 || a.Rand.Float64() >= a.Eps {
		return rates
	}
	i := a.Rand.Intn(len(rates))
	rates[i] = a.Rand.Float64() * a.MaxRate
	return rates
}

func sortedRates(m map[string]float64) []float64 {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]float64, len(names))
	for i, name := range names {
		out[i] = m[name]
	}
	return out
}
