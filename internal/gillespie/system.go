package gillespie

import "fmt"

// ReactionSystem is an immutable description of a reaction network:
// stoichiometry, initial populations, rate constants and the volume
// scaling convention. All fatal input validation happens in
// NewReactionSystem, before any stochastic state exists.
type ReactionSystem struct {
	reactants [][]int // (reactions x species) coefficients consumed
	products  [][]int // (reactions x species) coefficients produced
	net       [][]int // products - reactants, applied on each firing
	initial   []int
	kDet      []float64
	kStoc     []float64
	volume    float64
	chemFlag  bool
}

// NewReactionSystem validates the network and derives the net-change
// matrix and stochastic rate constants. reactants and products are
// (reactions x species) matrices; initial is the starting population
// vector; kDet holds one deterministic rate constant per reaction.
// chemFlag selects molar units (divide by Avogadro's number when
// converting rates).
func NewReactionSystem(reactants, products [][]int, initial []int, kDet []float64, volume float64, chemFlag bool) (*ReactionSystem, error) {
	nr := len(reactants)
	if len(products) != nr {
		return nil, fmt.Errorf("%w: %d reactant rows vs %d product rows", ErrShapeMismatch, nr, len(products))
	}
	if nr == 0 {
		return nil, fmt.Errorf("%w: system has no reactions", ErrShapeMismatch)
	}

	ns := len(reactants[0])
	for i := range reactants {
		if len(reactants[i]) != ns || len(products[i]) != ns {
			return nil, fmt.Errorf("%w: row %d has inconsistent species count", ErrShapeMismatch, i)
		}
	}
	if len(initial) != ns {
		return nil, fmt.Errorf("%w: initial state has %d species, matrices have %d", ErrShapeMismatch, len(initial), ns)
	}
	if len(kDet) != nr {
		return nil, fmt.Errorf("%w: %d rate constants for %d reactions", ErrShapeMismatch, len(kDet), nr)
	}
	if volume <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidVolume, volume)
	}

	for i := range reactants {
		order := 0
		for j := range reactants[i] {
			if reactants[i][j] < 0 {
				return nil, fmt.Errorf("%w: reactant coefficient at (%d,%d)", ErrNegativeEntry, i, j)
			}
			if products[i][j] < 0 {
				return nil, fmt.Errorf("%w: product coefficient at (%d,%d)", ErrNegativeEntry, i, j)
			}
			order += reactants[i][j]
		}
		if order > 3 {
			return nil, fmt.Errorf("%w: reaction %d has order %d", ErrOrderTooHigh, i, order)
		}
	}
	for j, x := range initial {
		if x < 0 {
			return nil, fmt.Errorf("%w: initial population of species %d", ErrNegativeEntry, j)
		}
	}

	var negRates []int
	for i, k := range kDet {
		if k < 0 {
			negRates = append(negRates, i)
		}
	}
	if len(negRates) > 0 {
		return nil, &NegativeRateError{Indices: negRates}
	}

	sys := &ReactionSystem{
		reactants: copyMatrix(reactants),
		products:  copyMatrix(products),
		initial:   append([]int(nil), initial...),
		kDet:      append([]float64(nil), kDet...),
		volume:    volume,
		chemFlag:  chemFlag,
	}

	sys.net = make([][]int, nr)
	for i := range sys.net {
		row := make([]int, ns)
		for j := range row {
			row[j] = sys.products[i][j] - sys.reactants[i][j]
		}
		sys.net[i] = row
	}

	sys.kStoc = stochasticRates(sys.kDet, sys.reactants, volume, chemFlag)
	return sys, nil
}

// NumReactions returns the number of reactions in the network.
func (s *ReactionSystem) NumReactions() int { return len(s.reactants) }

// NumSpecies returns the number of species in the network.
func (s *ReactionSystem) NumSpecies() int { return len(s.initial) }

// InitialState returns a copy of the initial population vector.
func (s *ReactionSystem) InitialState() []int {
	return append([]int(nil), s.initial...)
}

// StochasticRates returns a copy of the derived stochastic rate constants.
func (s *ReactionSystem) StochasticRates() []float64 {
	return append([]float64(nil), s.kStoc...)
}

func copyMatrix(m [][]int) [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}
	return out
}
