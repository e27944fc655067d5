package gillespie

import "math"

// Avogadro's number (CODATA 2018). Used to scale volumes to molecule
// counts when a system is declared with molar rate constants.
const avogadro = 6.02214076e23

// stochasticRates converts deterministic mass-action rate constants into
// the per-molecule stochastic constants used for propensity computation.
//
// For each reaction the divisor is (factor*volume)^(order-1), where factor
// is Avogadro's number when chemFlag is set and 1 otherwise. Reactions
// whose largest reactant coefficient is 2 or 3 pick up the combinatorial
// corrections 2 and 6. Only the row maximum is examined: a reaction with
// two distinct species each at coefficient 2 is treated like any other
// fourth-order reaction and rejected upstream by the order check.
//
// Inputs are assumed validated (non-negative vr, order <= 3, volume > 0).
func stochasticRates(kDet []float64, vr [][]int, volume float64, chemFlag bool) []float64 {
	factor := 1.0
	if chemFlag {
		factor = avogadro
	}

	kStoc := make([]float64, len(kDet))
	for i, k := range kDet {
		order := 0
		maxCoef := 0
		for _, c := range vr[i] {
			order += c
			if c > maxCoef {
				maxCoef = c
			}
		}

		scale := math.Pow(factor*volume, float64(order-1))
		switch maxCoef {
		case 3:
			kStoc[i] = k * 6 / ((factor * volume) * (factor * volume))
		case 2:
			kStoc[i] = k * 2 / scale
		default:
			kStoc[i] = k / scale
		}
	}
	return kStoc
}
