// Package parser handles the declarative JSON loader for PNPSC nets: a
// document listing players, places, and transitions, with comma-separated
// arc and control-rate lists, matching the net-definition format in the
// component design (§4.E / §6 of the net loader design).
package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pnpsc/pnpsc-go/petri"
)

// rawNet mirrors the declarative document structure: players, places, and
// transitions, with comma-separated string lists standing in for sets.
type rawNet struct {
	Players     []rawPlayer     `json:"players"`
	Places      []rawPlace      `json:"places"`
	Transitions []rawTransition `json:"transitions"`
}

type rawPlayer struct {
	Name string `json:"name"`
}

type rawPlace struct {
	Name             string `json:"name"`
	Marking          int    `json:"marking"`
	PlayerObservable string `json:"player_observable"`
	Goal             string `json:"goal,omitempty"`
	Description      string `json:"description,omitempty"`
}

type rawTransition struct {
	Name          string  `json:"name"`
	Rate          float64 `json:"rate"`
	Input         string  `json:"input"`
	Output        string  `json:"output"`
	Inhibitor     string  `json:"inhibitor"`
	ControlRate   string  `json:"control_rate"`
	PlayerControl string  `json:"player_control,omitempty"`
	FireCost      float64 `json:"fire_cost,omitempty"`
	Description   string  `json:"description,omitempty"`
}

// LoadError reports a malformed net-definition document: invalid JSON, a
// malformed control-rate pair, or any structural problem petri.New
// reports once the document has been parsed into a *petri.Net.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parser: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parser: %s", e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FromJSON parses a declarative net-definition document into a *petri.Net.
// All comma-separated lists treat the empty string as an empty set; a
// player_control of "" or "None" means the transition is uncontrolled.
func FromJSON(data []byte) (*petri.Net, error) {
	var raw rawNet
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Reason: "invalid JSON", Err: err}
	}

	players := make([]string, 0, len(raw.Players))
	for _, p := range raw.Players {
		players = append(players, p.Name)
	}

	places := make([]*petri.Place, 0, len(raw.Places))
	for _, p := range raw.Places {
		observable := make(map[string]bool)
		for _, name := range splitCSV(p.PlayerObservable) {
			observable[name] = true
		}
		goal := p.Goal
		if goal == "None" {
			goal = ""
		}
		places = append(places, &petri.Place{
			Name:        p.Name,
			Initial:     p.Marking,
			Observable:  observable,
			Goal:        goal,
			Description: p.Description,
		})
	}

	trans := make([]*petri.Transition, 0, len(raw.Transitions))
	for _, t := range raw.Transitions {
		controlRate, err := parseControlRate(t.ControlRate)
		if err != nil {
			return nil, &LoadError{Reason: fmt.Sprintf("transition %q control_rate", t.Name), Err: err}
		}
		playerControl := t.PlayerControl
		if playerControl == "None" {
			playerControl = ""
		}
		trans = append(trans, &petri.Transition{
			Name:          t.Name,
			Rate:          t.Rate,
			PlayerControl: playerControl,
			Input:         splitCSV(t.Input),
			Output:        splitCSV(t.Output),
			Inhibitor:     splitCSV(t.Inhibitor),
			ControlRate:   controlRate,
			FireCost:      t.FireCost,
			Description:   t.Description,
		})
	}

	net, err := petri.New(players, places, trans)
	if err != nil {
		return nil, &LoadError{Reason: "structural validation failed", Err: err}
	}
	return net, nil
}

// ToJSON serializes a *petri.Net back to the declarative document format,
// round-tripping through FromJSON.
func ToJSON(net *petri.Net) ([]byte, error) {
	raw := rawNet{}
	for _, name := range net.PlayerNames {
		raw.Players = append(raw.Players, rawPlayer{Name: name})
	}
	for _, name := range net.PlaceNames() {
		idx, _ := net.PlaceIndex(name)
		p := net.Place(idx)
		var observable []string
		for _, player := range net.PlayerNames {
			if p.Observable[player] {
				observable = append(observable, player)
			}
		}
		raw.Places = append(raw.Places, rawPlace{
			Name:             p.Name,
			Marking:          p.Initial,
			PlayerObservable: strings.Join(observable, ","),
			Goal:             p.Goal,
			Description:      p.Description,
		})
	}
	for _, name := range net.TransitionNames() {
		idx, _ := net.TransitionIndex(name)
		t := net.Transition(idx)
		raw.Transitions = append(raw.Transitions, rawTransition{
			Name:          t.Name,
			Rate:          t.Initial,
			Input:         strings.Join(t.Input, ","),
			Output:        strings.Join(t.Output, ","),
			Inhibitor:     strings.Join(t.Inhibitor, ","),
			ControlRate:   joinControlRate(t.ControlRate),
			PlayerControl: t.PlayerControl,
			FireCost:      t.FireCost,
			Description:   t.Description,
		})
	}
	return json.MarshalIndent(raw, "", "  ")
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseControlRate(s string) ([]petri.ControlRateModifier, error) {
	if s == "" {
		return nil, nil
	}
	var out []petri.ControlRateModifier
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed place=delta pair %q", pair)
		}
		delta, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid delta in %q: %w", pair, err)
		}
		out = append(out, petri.ControlRateModifier{Place: strings.TrimSpace(kv[0]), Delta: delta})
	}
	return out, nil
}

func joinControlRate(crs []petri.ControlRateModifier) string {
	parts := make([]string, 0, len(crs))
	for _, cr := range crs {
		parts = append(parts, fmt.Sprintf("%s=%s", cr.Place, strconv.FormatFloat(cr.Delta, 'g', -1, 64)))
	}
	return strings.Join(parts, ",")
}
