// Command pnpsc loads, validates, runs, and rolls out PNPSC nets described
// by the declarative JSON format in parser.FromJSON. Grounded on the
// teacher's cmd/pflow dispatch shape (flag.NewFlagSet per subcommand,
// stderr usage text, stderr run summaries), retargeted at the discrete-
// event simulator, env, and vecenv packages instead of the ODE solver.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "validate":
		err = validate(args)
	case "run":
		err = run(args)
	case "rollout":
		err = rollout(args)
	case "compare":
		err = compare(args)
	case "help", "-h", "--help":
		printUsage()
		return
	case "version", "-v", "--version":
		fmt.Println("pnpsc version 1.0.0")
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pnpsc - PNPSC stochastic Petri net simulator

Usage:
  pnpsc <command> [options]

Commands:
  validate   Load a net and report structural errors
  run        Run the discrete-event simulator to completion
  rollout    Estimate mean terminal reward via vectorized Monte Carlo
  compare    Show structural differences between two nets
  help       Show this help message
  version    Show version information

Examples:
  pnpsc validate net.json
  pnpsc run --output run.json net.json
  pnpsc rollout --player Attacker --rows 20000 net.json
  pnpsc compare baseline.json variant.json

For command-specific help, run:
  pnpsc <command> --help`)
}
