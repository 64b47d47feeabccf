package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/pnpsc/pnpsc-go/parser"
	"github.com/pnpsc/pnpsc-go/petri"
)

// compare reports the structural differences between two net definitions:
// added/removed places and transitions, and rate differences on
// transitions both nets share. Adapted from the teacher's compare command
// (load two documents, diff field by field, print to stdout), retargeted
// from two solver.Results documents to two petri.Net definitions since
// there is no continuous-time results format left in this module.
func compare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pnpsc compare <baseline.json> <variant.json>

Compare two net definitions and show added/removed places and
transitions, and rate differences on transitions both nets share.

Examples:
  pnpsc compare baseline.json variant.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("two net files required")
	}

	baseline, err := loadNet(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read baseline: %w", err)
	}
	variant, err := loadNet(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("read variant: %w", err)
	}

	fmt.Println("=== Comparison ===")

	fmt.Println("Places:")
	diffNames(baseline.PlaceNames(), variant.PlaceNames())

	fmt.Println("Transitions:")
	diffNames(baseline.TransitionNames(), variant.TransitionNames())

	fmt.Println("Rates:")
	compareRates(baseline, variant)

	return nil
}

func loadNet(filename string) (*petri.Net, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parser.FromJSON(data)
}

func diffNames(base, variant []string) {
	baseSet := toSet(base)
	varSet := toSet(variant)

	var added, removed []string
	for _, name := range variant {
		if !baseSet[name] {
			added = append(added, name)
		}
	}
	for _, name := range base {
		if !varSet[name] {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)

	if len(added) == 0 && len(removed) == 0 {
		fmt.Println("  no changes")
		return
	}
	for _, name := range added {
		fmt.Printf("  + %s\n", name)
	}
	for _, name := range removed {
		fmt.Printf("  - %s\n", name)
	}
}

func compareRates(base, variant *petri.Net) {
	baseRates := base.AllRates()
	varRates := variant.AllRates()

	changed := false
	for name, baseRate := range baseRates {
		varRate, ok := varRates[name]
		if ok && math.Abs(varRate-baseRate) > 1e-9 {
			fmt.Printf("  %s: %.6f -> %.6f\n", name, baseRate, varRate)
			changed = true
		}
	}
	if !changed {
		fmt.Println("  no changes")
	}
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
