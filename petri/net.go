// Package petri implements the PNPSC net data model: a Petri net extended
// with inhibitor arcs, per-transition stochastic rates, per-place
// player-observability, per-transition player-control, fire costs, and
// control-rate modifiers.
//
// A Net is built once (by the loader) from a declarative description and is
// thereafter structurally constant. Only marking, rates, costs, and the
// done flag mutate during simulation, and the Simulator is the only caller
// that should mutate them.
package petri

import (
	"fmt"
	"sort"
)

// ControlRateModifier adds Delta to a transition's effective rate while
// Place holds at least one token.
type ControlRateModifier struct {
	Place string
	Delta float64
}

// Place is a state in a PNPSC net that holds a non-negative integer number
// of tokens.
type Place struct {
	Name        string
	Initial     int
	Marking     int
	Observable  map[string]bool // players this place is visible to
	Goal        string          // owning player, "" if this place is not a goal
	Description string
}

// Transition is an event that moves tokens from its input places to its
// output places when fired, provided it is enabled.
type Transition struct {
	Name          string
	Rate          float64 // current base rate, mutable via UpdateRates
	Initial       float64
	PlayerControl string // owning player, "" if uncontrolled
	Input         []string
	Output        []string
	Inhibitor     []string
	ControlRate   []ControlRateModifier
	FireCost      float64
	Description   string
}

// Player owns a subset of transitions, observes a subset of places, and
// accumulates cost over the course of an episode.
type Player struct {
	Name string
	Cost float64

	visiblePlaces   []int // sorted indices into Net.places
	controlledRates []int // sorted indices into Net.transitions
	goalPlaces      []int
	endPlaces       []int
}

// Net is the complete, validated PNPSC net model.
type Net struct {
	PlayerNames []string // declaration order; turn sequencing uses this order

	places    []*Place
	placeIdx  map[string]int
	trans     []*Transition
	transIdx  map[string]int
	players   map[string]*Player
	Done      bool
}

// New validates and assembles a Net from its structural pieces. Arc
// references to unknown places, unknown player references, and negative
// initial markings are reported as a *StructuralError. Place and
// transition ordering is irrelevant on input: New sorts both by name to
// obtain the canonical dense index used internally (Design Note "Dynamic
// dictionaries of places/rates to dense vectors").
func New(players []string, places []*Place, transitions []*Transition) (*Net, error) {
	playerSet := make(map[string]bool, len(players))
	for _, p := range players {
		if p == "" {
			return nil, &StructuralError{Kind: "player", Ref: p, Reason: "player name must not be empty"}
		}
		playerSet[p] = true
	}

	sortedPlaces := append([]*Place(nil), places...)
	sort.Slice(sortedPlaces, func(i, j int) bool { return sortedPlaces[i].Name < sortedPlaces[j].Name })

	placeIdx := make(map[string]int, len(sortedPlaces))
	for i, p := range sortedPlaces {
		if _, dup := placeIdx[p.Name]; dup {
			return nil, &StructuralError{Kind: "place", Ref: p.Name, Reason: "duplicate place name"}
		}
		if p.Initial < 0 {
			return nil, &StructuralError{Kind: "place", Ref: p.Name, Reason: "negative initial marking"}
		}
		for player := range p.Observable {
			if !playerSet[player] {
				return nil, &StructuralError{Kind: "place", Ref: p.Name, Reason: fmt.Sprintf("observable to unknown player %q", player)}
			}
		}
		if p.Goal != "" && !playerSet[p.Goal] {
			return nil, &StructuralError{Kind: "place", Ref: p.Name, Reason: fmt.Sprintf("goal owner %q is not a known player", p.Goal)}
		}
		p.Marking = p.Initial
		placeIdx[p.Name] = i
	}

	sortedTrans := append([]*Transition(nil), transitions...)
	sort.Slice(sortedTrans, func(i, j int) bool { return sortedTrans[i].Name < sortedTrans[j].Name })

	transIdx := make(map[string]int, len(sortedTrans))
	for i, t := range sortedTrans {
		if _, dup := transIdx[t.Name]; dup {
			return nil, &StructuralError{Kind: "transition", Ref: t.Name, Reason: "duplicate transition name"}
		}
		if t.Rate < 0 {
			return nil, &StructuralError{Kind: "transition", Ref: t.Name, Reason: "negative base rate"}
		}
		if t.PlayerControl != "" && !playerSet[t.PlayerControl] {
			return nil, &StructuralError{Kind: "transition", Ref: t.Name, Reason: fmt.Sprintf("controlled by unknown player %q", t.PlayerControl)}
		}
		inhibitSet := make(map[string]bool, len(t.Inhibitor))
		for _, p := range t.Inhibitor {
			if _, ok := placeIdx[p]; !ok {
				return nil, &StructuralError{Kind: "transition", Ref: t.Name, Reason: fmt.Sprintf("inhibitor arc references unknown place %q", p)}
			}
			inhibitSet[p] = true
		}
		for _, p := range t.Input {
			if _, ok := placeIdx[p]; !ok {
				return nil, &StructuralError{Kind: "transition", Ref: t.Name, Reason: fmt.Sprintf("input arc references unknown place %q", p)}
			}
			if inhibitSet[p] {
				return nil, &StructuralError{Kind: "transition", Ref: t.Name, Reason: fmt.Sprintf("place %q is both an input and an inhibitor arc", p)}
			}
		}
		for _, p := range t.Output {
			if _, ok := placeIdx[p]; !ok {
				return nil, &StructuralError{Kind: "transition", Ref: t.Name, Reason: fmt.Sprintf("output arc references unknown place %q", p)}
			}
		}
		for _, cr := range t.ControlRate {
			if _, ok := placeIdx[cr.Place]; !ok {
				return nil, &StructuralError{Kind: "transition", Ref: t.Name, Reason: fmt.Sprintf("control-rate modifier references unknown place %q", cr.Place)}
			}
		}
		t.Initial = t.Rate
		transIdx[t.Name] = i
	}

	n := &Net{
		PlayerNames: append([]string(nil), players...),
		places:      sortedPlaces,
		placeIdx:    placeIdx,
		trans:       sortedTrans,
		transIdx:    transIdx,
		players:     make(map[string]*Player, len(players)),
	}

	for _, name := range players {
		n.players[name] = n.buildPlayerView(name)
	}

	return n, nil
}

func (n *Net) buildPlayerView(player string) *Player {
	pv := &Player{Name: player}
	for i, p := range n.places {
		if p.Observable[player] {
			pv.visiblePlaces = append(pv.visiblePlaces, i)
		}
		if p.Goal == player {
			pv.goalPlaces = append(pv.goalPlaces, i)
		}
	}
	for i, t := range n.trans {
		if t.PlayerControl == player {
			pv.controlledRates = append(pv.controlledRates, i)
		}
	}
	// end places: union of every OTHER player's goal places (Design Note §9
	// fix for the single-other-player bug in the source).
	seen := make(map[int]bool)
	for _, p := range n.places {
		if p.Goal != "" && p.Goal != player {
			if idx, ok := n.placeIdx[p.Name]; ok && !seen[idx] {
				seen[idx] = true
				pv.endPlaces = append(pv.endPlaces, idx)
			}
		}
	}
	sort.Ints(pv.endPlaces)
	return pv
}

// StructuralError reports a fatal construction-time problem: an unknown
// place/transition/player reference, a negative initial marking, or an
// input arc that doubles as an inhibitor arc.
type StructuralError struct {
	Kind   string // "place", "transition", or "player"
	Ref    string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("petri: invalid %s %q: %s", e.Kind, e.Ref, e.Reason)
}

// AllPlaces returns the current marking for every place, keyed by name.
func (n *Net) AllPlaces() map[string]int {
	out := make(map[string]int, len(n.places))
	for _, p := range n.places {
		out[p.Name] = p.Marking
	}
	return out
}

// PlaceNames returns every place name in canonical sorted order.
func (n *Net) PlaceNames() []string {
	names := make([]string, len(n.places))
	for i, p := range n.places {
		names[i] = p.Name
	}
	return names
}

// TransitionNames returns every transition name in canonical sorted order.
func (n *Net) TransitionNames() []string {
	names := make([]string, len(n.trans))
	for i, t := range n.trans {
		names[i] = t.Name
	}
	return names
}

// AllRates returns the current base rate for every transition, keyed by
// name.
func (n *Net) AllRates() map[string]float64 {
	out := make(map[string]float64, len(n.trans))
	for _, t := range n.trans {
		out[t.Name] = t.Rate
	}
	return out
}

// VisiblePlaces returns the current marking of every place observable by
// player, keyed by name.
func (n *Net) VisiblePlaces(player string) map[string]int {
	pv := n.players[player]
	out := make(map[string]int, len(pv.visiblePlaces))
	for _, idx := range pv.visiblePlaces {
		out[n.places[idx].Name] = n.places[idx].Marking
	}
	return out
}

// ControlledRates returns the current base rate of every transition
// controlled by player, keyed by name.
func (n *Net) ControlledRates(player string) map[string]float64 {
	pv := n.players[player]
	out := make(map[string]float64, len(pv.controlledRates))
	for _, idx := range pv.controlledRates {
		out[n.trans[idx].Name] = n.trans[idx].Rate
	}
	return out
}

// GoalPlaces returns the sorted names of player's goal places.
func (n *Net) GoalPlaces(player string) []string {
	return n.namesOf(n.players[player].goalPlaces)
}

// EndPlaces returns the sorted names of the union of every other player's
// goal places. Empty if there is only one player.
func (n *Net) EndPlaces(player string) []string {
	return n.namesOf(n.players[player].endPlaces)
}

func (n *Net) namesOf(idxs []int) []string {
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = n.places[idx].Name
	}
	return out
}

// PlayerCost returns the accumulated cost for player.
func (n *Net) PlayerCost(player string) float64 {
	return n.players[player].Cost
}

// AddCost adds delta to player's accumulated cost. Costs only ever grow;
// callers must not pass a negative delta.
func (n *Net) AddCost(player string, delta float64) {
	n.players[player].Cost += delta
}

// Snapshot is an external view of simulator state, used by Net.UpdateFromSnapshot
// to let an external authority (e.g. a remote simulator) overwrite local
// state. The core never produces a Snapshot itself from HTTP, but the hook
// is part of the Net model's public surface per the component design.
type Snapshot struct {
	Marking map[string]int
	Costs   map[string]float64
	Done    bool
}

// UpdateFromSnapshot overwrites marking, costs, and done from an external
// authority. Unknown place or player names in the snapshot are ignored.
func (n *Net) UpdateFromSnapshot(s Snapshot) {
	for name, tokens := range s.Marking {
		if idx, ok := n.placeIdx[name]; ok {
			n.places[idx].Marking = tokens
		}
	}
	for name, cost := range s.Costs {
		if pv, ok := n.players[name]; ok {
			pv.Cost = cost
		}
	}
	n.Done = s.Done
}

// PlaceIndex returns the canonical dense index of a place name.
func (n *Net) PlaceIndex(name string) (int, bool) {
	i, ok := n.placeIdx[name]
	return i, ok
}

// TransitionIndex returns the canonical dense index of a transition name.
func (n *Net) TransitionIndex(name string) (int, bool) {
	i, ok := n.transIdx[name]
	return i, ok
}

// Place returns the place at canonical index i.
func (n *Net) Place(i int) *Place { return n.places[i] }

// Transition returns the transition at canonical index i.
func (n *Net) Transition(i int) *Transition { return n.trans[i] }

// NumPlaces returns the number of places in the net.
func (n *Net) NumPlaces() int { return len(n.places) }

// NumTransitions returns the number of transitions in the net.
func (n *Net) NumTransitions() int { return len(n.trans) }

// Players returns the player views in declaration order.
func (n *Net) Players() []*Player {
	out := make([]*Player, len(n.PlayerNames))
	for i, name := range n.PlayerNames {
		out[i] = n.players[name]
	}
	return out
}
