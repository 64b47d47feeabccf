package vecenv

import (
	"testing"

	"github.com/pnpsc/pnpsc-go/internal/fixture"
	"github.com/pnpsc/pnpsc-go/simulator"
)

func TestEnvStepReturnsFiniteReward(t *testing.T) {
	net, err := fixture.ExampleNet()
	if err != nil {
		t.Fatalf("ExampleNet: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Rows = 100 // keep the test fast
	e := New(net, "Attacker", simulator.NewExpRNG(1), cfg)

	done := false
	steps := 0
	for !done && steps < 100 {
		reward, d := e.Step(nil)
		done = d
		steps++
		if reward != reward { // NaN check
			t.Fatalf("reward is NaN at step %d", steps)
		}
	}
	if !done {
		t.Fatalf("episode did not terminate within %d steps", steps)
	}
}

func TestEnvResetClearsBaseline(t *testing.T) {
	net, err := fixture.ExampleNet()
	if err != nil {
		t.Fatalf("ExampleNet: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Rows = 50
	e := New(net, "Attacker", simulator.NewExpRNG(2), cfg)
	e.Step(nil)
	if e.lastMeanReward == nil {
		t.Fatalf("expected baseline to be set after first step")
	}
	e.Reset()
	if e.lastMeanReward != nil {
		t.Errorf("expected baseline to be cleared after Reset")
	}
}

func TestSetOpponentStrategyOverridesRate(t *testing.T) {
	net, err := fixture.ExampleNet()
	if err != nil {
		t.Fatalf("ExampleNet: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Rows = 10
	e := New(net, "Attacker", simulator.NewExpRNG(4), cfg)
	e.SetOpponentStrategy("aT2", 7.5)

	for i, name := range e.m.Trans {
		if name == "aT2" && e.rates[i] != 7.5 {
			t.Errorf("aT2 rate = %v, want 7.5", e.rates[i])
		}
	}
}
