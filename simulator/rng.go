package simulator

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ExpRNG draws exponential samples via gonum's distuv.Exponential over a
// seeded golang.org/x/exp/rand source, the same pairing
// samuelfneumann-GoLearn uses throughout its environment package (e.g.
// UniformStarter, CategoricalStarter) to get reproducible distribution
// sampling.
type ExpRNG struct {
	src *rand.Rand
}

// NewExpRNG returns an RNG seeded deterministically from seed. Two
// Simulators built with the same seed and stepped the same number of
// times draw identical firing-time sequences in row-major order.
func NewExpRNG(seed uint64) *ExpRNG {
	return &ExpRNG{src: rand.New(rand.NewSource(seed))}
}

// Exp draws one sample of an exponential distribution with the given
// rate (mean 1/rate). rate must be > 0.
func (e *ExpRNG) Exp(rate float64) float64 {
	return distuv.Exponential{Rate: rate, Src: e.src}.Rand()
}
