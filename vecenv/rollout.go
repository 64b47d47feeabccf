package vecenv

import (
	"math"

	"github.com/pnpsc/pnpsc-go/simulator"
)

// row is one batch trajectory's mutable state during a rollout.
type row struct {
	marking []float64
	done    bool
	reward  float64
}

// RunBatchUntilComplete runs rows independent Monte-Carlo trajectories
// from (marking, rates) to completion with no further player action, and
// returns the mean terminal reward. Samples are drawn from rng in
// row-major order so a seeded rng reproduces deterministically. This is
// deliberately uncached: per the component design, a per-state memoization
// cache is not worth its complexity unless profiling demonstrates repeat
// hits, which the reference workload does not.
func RunBatchUntilComplete(m *Matrices, marking, rates []float64, rng simulator.RNG, rows int) float64 {
	p, t := m.NumPlaces(), m.NumTrans()
	batch := make([]row, rows)
	for k := range batch {
		mk := make([]float64, p)
		copy(mk, marking)
		batch[k] = row{marking: mk}
	}

	allDone := false
	for !allDone {
		allDone = true
		for k := range batch {
			if batch[k].done {
				continue
			}
			stepRow(m, &batch[k], rates, rng, t)
			if !batch[k].done {
				allDone = false
			}
		}
	}

	sum := 0.0
	for _, r := range batch {
		sum += r.reward
	}
	return sum / float64(rows)
}

// stepRow advances one trajectory by exactly one firing, or marks it done
// if no enabled transition has a positive effective rate.
func stepRow(m *Matrices, r *row, rates []float64, rng simulator.RNG, t int) {
	eff := make([]float64, t)
	anyPositive := false
	for j := 0; j < t; j++ {
		if !enabled(m, r.marking, j) {
			continue
		}
		e := rates[j]
		for i := 0; i < m.NumPlaces(); i++ {
			if r.marking[i] >= 1 && m.CR.At(i, j) != 0 {
				e += m.CR.At(i, j)
			}
		}
		eff[j] = e
		if e > 0 {
			anyPositive = true
		}
	}

	if !anyPositive {
		r.done = true
		return
	}

	ft := make([]float64, t)
	for j := 0; j < t; j++ {
		if eff[j] > 0 {
			ft[j] = rng.Exp(eff[j])
		} else {
			ft[j] = math.Inf(1)
		}
	}
	j := argmin(ft)

	for i := 0; i < m.NumPlaces(); i++ {
		r.marking[i] -= m.IN.At(i, j)
		r.marking[i] += m.OUT.At(i, j)
	}

	for _, gi := range m.GoalPlaces {
		if r.marking[gi] > 0 {
			r.reward += 100
			r.done = true
			return
		}
	}
	for _, ei := range m.EndPlaces {
		if r.marking[ei] > 0 {
			r.done = true
			return
		}
	}
}

func enabled(m *Matrices, marking []float64, j int) bool {
	count := 0.0
	for i := 0; i < m.NumPlaces(); i++ {
		if m.IN.At(i, j) != 0 && marking[i] >= 1 {
			count++
		}
	}
	if count != m.NIn[j] {
		return false
	}
	for i := 0; i < m.NumPlaces(); i++ {
		if m.INH.At(i, j) != 0 && marking[i] > 0 {
			return false
		}
	}
	return true
}

func argmin(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[best] {
			best = i
		}
	}
	return best
}
