package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pnpsc/pnpsc-go/parser"
)

// validate loads a net and reports whether it is structurally sound.
// Structural validation now lives entirely inside petri.New (duplicate
// names, negative markings/rates, dangling place/player references,
// input-arcs-doubling-as-inhibitors), so this command is just a thin
// load-and-report wrapper instead of the teacher's separate reachability
// analyzer.
func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pnpsc validate <net.json>

Load a net definition and report any structural errors: duplicate
names, negative markings or rates, dangling place/player references,
or a place used as both an input and an inhibitor arc on the same
transition.

Examples:
  pnpsc validate net.json
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
		fmt.Printf("✗ invalid: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ valid")
	fmt.Printf("  players:     %d\n", len(net.PlayerNames))
	fmt.Printf("  places:      %d\n", net.NumPlaces())
	fmt.Printf("  transitions: %d\n", net.NumTransitions())
	return nil
}
