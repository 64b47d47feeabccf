// Package vecenv implements the vectorized rollout engine: the net's
// dense structural matrices (IN/OUT/INH/CR/N_IN) over gonum/mat, a
// batched Monte-Carlo rollout-to-completion used to estimate mean
// terminal reward, and a single-step advantage-form environment that
// uses that estimate as a baseline.
//
// Grounded on original_source's PnpscVecEnv (the enabled/inhibitor/input/
// output/control_rate mask construction and the batched rollout loop) and
// on samuelfneumann-GoLearn's pervasive use of gonum.org/v1/gonum/mat for
// dense state.
package vecenv

import (
	"gonum.org/v1/gonum/mat"

	"github.com/pnpsc/pnpsc-go/petri"
)

// Matrices holds the net's structure in dense form, built once from a
// *petri.Net and constant thereafter.
type Matrices struct {
	Places []string
	Trans  []string

	// IN, OUT, INH, CR are [P,T]: place-row, transition-column.
	IN, OUT, INH, CR *mat.Dense
	// NIn is the input-arc count per transition (column sum of IN).
	NIn []float64

	// TransRate is each transition's current base rate, indexed with Trans.
	TransRate []float64
	// GoalPlaces, EndPlaces are place indices relevant to the primary player.
	GoalPlaces, EndPlaces []int
}

// Build constructs the dense structural matrices for net, relative to
// primary's goal/end places.
func Build(net *petri.Net, primary string) *Matrices {
	places := net.PlaceNames()
	trans := net.TransitionNames()
	p, t := len(places), len(trans)

	placeIdx := make(map[string]int, p)
	for i, name := range places {
		placeIdx[name] = i
	}

	in := mat.NewDense(p, t, nil)
	out := mat.NewDense(p, t, nil)
	inh := mat.NewDense(p, t, nil)
	cr := mat.NewDense(p, t, nil)
	nIn := make([]float64, t)
	rates := make([]float64, t)

	for j, name := range trans {
		idx, _ := net.TransitionIndex(name)
		tr := net.Transition(idx)
		rates[j] = tr.Rate
		for _, pname := range tr.Input {
			in.Set(placeIdx[pname], j, 1)
			nIn[j]++
		}
		for _, pname := range tr.Output {
			out.Set(placeIdx[pname], j, 1)
		}
		for _, pname := range tr.Inhibitor {
			inh.Set(placeIdx[pname], j, 1)
		}
		for _, modifier := range tr.ControlRate {
			cr.Set(placeIdx[modifier.Place], j, modifier.Delta)
		}
	}

	var goalIdx, endIdx []int
	goalSet := make(map[string]bool)
	for _, name := range net.GoalPlaces(primary) {
		goalSet[name] = true
	}
	endSet := make(map[string]bool)
	for _, name := range net.EndPlaces(primary) {
		endSet[name] = true
	}
	for i, name := range places {
		if goalSet[name] {
			goalIdx = append(goalIdx, i)
		}
		if endSet[name] {
			endIdx = append(endIdx, i)
		}
	}

	return &Matrices{
		Places:     places,
		Trans:      trans,
		IN:         in,
		OUT:        out,
		INH:        inh,
		CR:         cr,
		NIn:        nIn,
		TransRate:  rates,
		GoalPlaces: goalIdx,
		EndPlaces:  endIdx,
	}
}

// InitialMarking returns net's current marking as a dense vector indexed
// with Places.
func (m *Matrices) InitialMarking(net *petri.Net) []float64 {
	marking := net.AllPlaces()
	out := make([]float64, len(m.Places))
	for i, name := range m.Places {
		out[i] = float64(marking[name])
	}
	return out
}

// NumPlaces returns the place dimension.
func (m *Matrices) NumPlaces() int { return len(m.Places) }

// NumTrans returns the transition dimension.
func (m *Matrices) NumTrans() int { return len(m.Trans) }
