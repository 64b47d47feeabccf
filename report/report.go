// Package report produces a JSON summary of a completed run: the final
// marking, every player's accumulated cost, the step count, and the
// reward the primary player received. Grounded on the teacher's
// results package I/O conventions (WriteJSON/ToJSON/FromJSON over a
// MarshalIndent'd struct), trimmed to PNPSC's much smaller run shape.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pnpsc/pnpsc-go/petri"
)

// Run is the final-state summary of one completed episode.
type Run struct {
	RunID        string             `json:"run_id,omitempty"`
	Steps        int                `json:"steps"`
	Clock        float64            `json:"clock"`
	FinalMarking map[string]int     `json:"final_marking"`
	PlayerCosts  map[string]float64 `json:"player_costs"`
	Reward       float64            `json:"reward"`
	Done         bool               `json:"done"`
}

// FromNet builds a Run summary from a net's current (post-episode) state.
func FromNet(net *petri.Net, steps int, clock, reward float64) Run {
	costs := make(map[string]float64, len(net.PlayerNames))
	for _, name := range net.PlayerNames {
		costs[name] = net.PlayerCost(name)
	}
	return Run{
		Steps:        steps,
		Clock:        clock,
		FinalMarking: net.AllPlaces(),
		PlayerCosts:  costs,
		Reward:       reward,
		Done:         net.Done,
	}
}

// WriteJSON writes a run summary to filename.
func WriteJSON(run Run, filename string) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// ReadJSON reads a run summary from filename.
func ReadJSON(filename string) (Run, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Run{}, fmt.Errorf("read file: %w", err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, fmt.Errorf("unmarshal run: %w", err)
	}
	return run, nil
}

// ToJSON renders a run summary as a JSON string.
func ToJSON(run Run) (string, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
