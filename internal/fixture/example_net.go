// Package fixture provides the shared example_net fixture used by
// spec.md §8's end-to-end scenarios, consumed by the simulator, env, and
// vecenv test suites alike.
package fixture

import "github.com/pnpsc/pnpsc-go/petri"

// ControlRateDelta is the boost aT3's effective rate receives while aP3
// is marked.
const ControlRateDelta = 15.0

// ExampleNet builds the net.md §8 fixture: places aP1..aP5, transitions
// aT1..aT4, initial marking {aP1:10, rest:0}, base rates
// {aT1:10, aT2:5, aT3:10, aT4:2}, a single player Attacker controlling
// aT1 and observing only aP1.
//
// Arc layout (derived from the §8 scenarios, which are otherwise silent
// on structure):
//
//	aT1: aP1 -> aP3                      (controlled by Attacker)
//	aT2: aP1 -> aP2, aP3   inhibited by aP5
//	aT3: aP3 -> aP4        control-rate: aP3 += ControlRateDelta
//	aT4: aP3 -> aP5
func ExampleNet() (*petri.Net, error) {
	return petri.Build().
		Players("Attacker").
		Place("aP1", 10).ObservableTo("aP1", "Attacker").
		Place("aP2", 0).
		Place("aP3", 0).
		Place("aP4", 0).
		Place("aP5", 0).
		Transition("aT1").Rate("aT1", 10).ControlledBy("aT1", "Attacker").
		Transition("aT2").Rate("aT2", 5).
		Transition("aT3").Rate("aT3", 10).
		Transition("aT4").Rate("aT4", 2).
		Arc("aP1", "aT1").Arc("aT1", "aP3").
		Arc("aP1", "aT2").Arc("aT2", "aP2").Arc("aT2", "aP3").
		InhibitorArc("aP5", "aT2").
		Arc("aP3", "aT3").Arc("aT3", "aP4").
		ControlRate("aT3", "aP3", ControlRateDelta).
		Arc("aP3", "aT4").Arc("aT4", "aP5").
		Done()
}

// FixedExp is a deterministic RNG stand-in for tests that need an exact
// firing outcome: it always returns a small constant sample, so any
// enabled positive-rate transition always comes due before an enabled
// zero-rate transition on the LargeTime sentinel.
type FixedExp struct {
	// Sample is the value returned for every call, regardless of rate.
	Sample float64
}

// Exp implements simulator.RNG.
func (f FixedExp) Exp(rate float64) float64 { return f.Sample }
