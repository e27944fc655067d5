package gillespie

import "fmt"

// Results aggregates the trajectories of repeated independent runs of
// the same system.
type Results struct {
	Runs []Result `json:"runs"`
}

// RunEnsemble executes nRep independent trajectories. Each repetition
// gets its own deviate stream seeded from seeds; when seeds is nil the
// seeds default to 0..nRep-1. An explicit seed list must match nRep.
//
// Runs are sequential; each owns its state and propensity buffers, so
// callers wanting parallel ensembles can instead invoke Simulate from
// their own goroutines with distinct seeds.
func RunEnsemble(sys *ReactionSystem, opts Options, nRep int, seeds []int64) (Results, error) {
	if nRep <= 0 {
		return Results{}, fmt.Errorf("gillespie: ensemble repetitions must be positive, got %d", nRep)
	}
	if seeds == nil {
		seeds = make([]int64, nRep)
		for i := range seeds {
			seeds[i] = int64(i)
		}
	}
	if len(seeds) != nRep {
		return Results{}, fmt.Errorf("gillespie: %d seeds for %d repetitions", len(seeds), nRep)
	}

	results := Results{Runs: make([]Result, 0, nRep)}
	for _, seed := range seeds {
		runOpts := opts
		runOpts.Seed = seed
		runOpts.Source = nil
		res, err := Simulate(sys, runOpts)
		if err != nil {
			return results, err
		}
		results.Runs = append(results.Runs, res)
	}
	return results, nil
}

// FinalTimes returns the end time of every run.
func (r Results) FinalTimes() []float64 {
	out := make([]float64, len(r.Runs))
	for i, run := range r.Runs {
		out[i] = run.Time
	}
	return out
}

// FinalStates returns the final population vector of every run.
func (r Results) FinalStates() [][]int {
	out := make([][]int, len(r.Runs))
	for i, run := range r.Runs {
		out[i] = run.State
	}
	return out
}

// Statuses returns the terminal status of every run.
func (r Results) Statuses() []Status {
	out := make([]Status, len(r.Runs))
	for i, run := range r.Runs {
		out[i] = run.Status
	}
	return out
}
