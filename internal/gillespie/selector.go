package gillespie

// computePropensities fills prop with the instantaneous firing rate of
// each reaction: kStoc[i] times the power product of the current
// populations raised to their reactant coefficients. This is the
// simplified convention (x^v rather than the falling-factorial form).
func computePropensities(kStoc []float64, reactants [][]int, state []int, prop []float64) {
	for i, k := range kStoc {
		p := k
		for j, coef := range reactants[i] {
			for c := 0; c < coef; c++ {
				p *= float64(state[j])
			}
		}
		prop[i] = p
	}
}

// selectReaction performs roulette-wheel selection over the propensity
// vector: the next reaction is the smallest index whose cumulative
// normalized propensity reaches a fresh uniform deviate.
//
// When the total propensity is zero no reaction can fire; the returned
// status distinguishes a fully extinct population (StatusExtinction)
// from a deadlocked one (StatusNoPropensity). The returned index is -1
// in both cases.
func selectReaction(prop []float64, state []int, src UniformSource) (choice int, total float64, status Status) {
	for _, p := range prop {
		total += p
	}

	if total == 0 {
		pop := 0
		for _, x := range state {
			pop += x
		}
		if pop == 0 {
			return -1, 0, StatusExtinction
		}
		return -1, 0, StatusNoPropensity
	}

	r := src.Float64()
	cum := 0.0
	for i, p := range prop {
		cum += p / total
		if cum >= r {
			return i, total, StatusRunning
		}
	}
	// Rounding can leave the final cumulative value fractionally below r;
	// the draw must still land on a valid reaction.
	return len(prop) - 1, total, StatusRunning
}
