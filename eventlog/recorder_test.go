package eventlog

import (
	"testing"

	"github.com/pnpsc/pnpsc-go/internal/fixture"
	"github.com/pnpsc/pnpsc-go/simulator"
)

func TestRecorderCapturesSteps(t *testing.T) {
	net, err := fixture.ExampleNet()
	if err != nil {
		t.Fatalf("ExampleNet: %v", err)
	}
	sim := simulator.New(net, simulator.DefaultConfig(), simulator.NewExpRNG(1))
	rec := NewRecorder()

	for i := 0; i < 50 && !net.Done; i++ {
		sim.Step()
		rec.Record(sim)
	}

	trace := rec.Trace()
	if len(trace.Events) == 0 {
		t.Fatalf("expected at least one recorded event")
	}
	for i, e := range trace.Events {
		if e.Step != i {
			t.Errorf("event %d has Step %d, want %d", i, e.Step, i)
		}
	}
	if trace.NumFirings() == 0 {
		t.Errorf("expected at least one firing recorded")
	}
}
