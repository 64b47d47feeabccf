package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pnpsc/pnpsc-go/env"
	"github.com/pnpsc/pnpsc-go/parser"
	"github.com/pnpsc/pnpsc-go/report"
	"github.com/pnpsc/pnpsc-go/simulator"
)

// run steps a net's discrete-event simulator to completion and writes a
// report.Run summary. Adapted from the teacher's simulate command (load,
// solve, write results, print a stderr summary); the ODE solver is
// replaced by simulator.Simulator stepping one firing at a time, and rate
// overrides are written into each transition's base and initial rate
// before the simulator is built, instead of a solver.Problem.
func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	output := fs.String("output", "", "Output file for the run report (optional, prints to stdout if empty)")
	seed := fs.Uint64("seed", 1, "RNG seed")
	primary := fs.String("primary", "", "Player to score as the primary for the reward field (optional)")
	rateFlags := fs.String("rates", "", "Override base rates (format: trans1=0.5,trans2=0.3)")
	maxSteps := fs.Int("max-steps", 100000, "Safety cap on firings before giving up")
	debug := fs.Bool("debug", false, "Enable debug-level step tracing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pnpsc run [options] <net.json>

Run the discrete-event simulator to completion and report the final
marking, every player's accumulated cost, and (with --primary) the
primary player's total reward under the default environment contract.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  pnpsc run --output run.json net.json
  pnpsc run --primary Attacker --seed 42 net.json
  pnpsc run --rates "aT1=2.5,aT2=0.5" net.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("net file required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read net: %w", err)
	}
	net, err := parser.FromJSON(data)
	if err != nil {
		return fmt.Errorf("parse net: %w", err)
	}

	if *rateFlags != "" {
		overrides, err := parseKeyValue(*rateFlags)
		if err != nil {
			return fmt.Errorf("parse rates: %w", err)
		}
		for name, rate := range overrides {
			if idx, ok := net.TransitionIndex(name); ok {
				net.Transition(idx).Rate = rate
				net.Transition(idx).Initial = rate
			}
		}
	}

	sim := simulator.New(net, simulator.DefaultConfig(), simulator.NewExpRNG(*seed))
	sim.SetLogger(setupLogger(*debug))

	var e *env.Environment
	if *primary != "" {
		e = env.New(sim, *primary, nil, env.DefaultConfig())
	}

	steps := 0
	reward := 0.0
	if e != nil {
		done := false
		for !done && steps < *maxSteps {
			_, r, d := e.Step(nil)
			reward += r
			done = d
			steps++
		}
	} else {
		for !net.Done && steps < *maxSteps {
			sim.Step()
			steps++
		}
	}

	run := report.FromNet(net, steps, sim.Clock(), reward)

	if *output != "" {
		if err := report.WriteJSON(run, *output); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Run complete: %d steps, t=%.3f, output=%s\n", steps, sim.Clock(), *output)
		return nil
	}

	text, err := report.ToJSON(run)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

// parseKeyValue parses "key1=val1,key2=val2" into a float64 map.
func parseKeyValue(s string) (map[string]float64, error) {
	result := make(map[string]float64)
	if s == "" {
		return result, nil
	}
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid format: %s (expected key=value)", pair)
		}
		key := strings.TrimSpace(parts[0])
		var value float64
		if _, err := fmt.Sscanf(parts[1], "%f", &value); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %s", key, parts[1])
		}
		result[key] = value
	}
	return result, nil
}
