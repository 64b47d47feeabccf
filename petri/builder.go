package petri

// Builder provides a fluent API for constructing PNPSC nets in tests and
// CLI fixtures, generalizing the teacher's place/transition/arc builder
// with inhibitor arcs, control-rate modifiers, goals, and per-player
// visibility/control.
//
// Example:
//
//	net, err := petri.Build().
//	    Players("Attacker", "Defender").
//	    Place("aP1", 10).ObservableTo("aP1", "Attacker").
//	    Place("aP2", 0).
//	    Transition("aT1").ControlledBy("aT1", "Attacker").Rate("aT1", 10).
//	    Arc("aP1", "aT1").Arc("aT1", "aP2").
//	    Done()
type Builder struct {
	players    []string
	places     map[string]*Place
	placeOrder []string
	trans      map[string]*Transition
	transOrder []string
}

// Build starts a new Builder.
func Build() *Builder {
	return &Builder{
		places: make(map[string]*Place),
		trans:  make(map[string]*Transition),
	}
}

// Players declares the players of the net, in registration order.
func (b *Builder) Players(names ...string) *Builder {
	b.players = append(b.players, names...)
	return b
}

// Place adds a place with the given initial marking.
func (b *Builder) Place(name string, initial int) *Builder {
	if _, exists := b.places[name]; exists {
		return b
	}
	b.places[name] = &Place{Name: name, Initial: initial, Observable: make(map[string]bool)}
	b.placeOrder = append(b.placeOrder, name)
	return b
}

// ObservableTo marks place as visible to player.
func (b *Builder) ObservableTo(place, player string) *Builder {
	if p, ok := b.places[place]; ok {
		p.Observable[player] = true
	}
	return b
}

// Goal marks place as a win condition for player.
func (b *Builder) Goal(place, player string) *Builder {
	if p, ok := b.places[place]; ok {
		p.Goal = player
	}
	return b
}

// Transition adds a transition with the default rate of 0.
func (b *Builder) Transition(name string) *Builder {
	if _, exists := b.trans[name]; exists {
		return b
	}
	b.trans[name] = &Transition{Name: name}
	b.transOrder = append(b.transOrder, name)
	return b
}

// Rate sets a transition's base rate.
func (b *Builder) Rate(name string, rate float64) *Builder {
	if t, ok := b.trans[name]; ok {
		t.Rate = rate
	}
	return b
}

// ControlledBy assigns a transition's owning player.
func (b *Builder) ControlledBy(transition, player string) *Builder {
	if t, ok := b.trans[transition]; ok {
		t.PlayerControl = player
	}
	return b
}

// FireCost sets the cost charged to the owning player when transition
// fires (only applied when fire-cost accounting is enabled).
func (b *Builder) FireCost(transition string, cost float64) *Builder {
	if t, ok := b.trans[transition]; ok {
		t.FireCost = cost
	}
	return b
}

// Arc adds a place->transition input arc or transition->place output arc,
// inferred from which side is a known place vs. transition.
func (b *Builder) Arc(source, target string) *Builder {
	if t, ok := b.trans[source]; ok {
		t.Output = append(t.Output, target)
		return b
	}
	if t, ok := b.trans[target]; ok {
		t.Input = append(t.Input, source)
		return b
	}
	return b
}

// InhibitorArc adds an inhibitor arc from place to transition.
func (b *Builder) InhibitorArc(place, transition string) *Builder {
	if t, ok := b.trans[transition]; ok {
		t.Inhibitor = append(t.Inhibitor, place)
	}
	return b
}

// ControlRate adds a control-rate modifier: while place holds a token,
// transition's effective rate is adjusted by delta.
func (b *Builder) ControlRate(transition, place string, delta float64) *Builder {
	if t, ok := b.trans[transition]; ok {
		t.ControlRate = append(t.ControlRate, ControlRateModifier{Place: place, Delta: delta})
	}
	return b
}

// Done assembles and validates the net.
func (b *Builder) Done() (*Net, error) {
	places := make([]*Place, 0, len(b.placeOrder))
	for _, name := range b.placeOrder {
		places = append(places, b.places[name])
	}
	trans := make([]*Transition, 0, len(b.transOrder))
	for _, name := range b.transOrder {
		trans = append(trans, b.trans[name])
	}
	return New(b.players, places, trans)
}
