package gillespie

import (
	"fmt"
	"math"
)

// Options controls a single direct-method run.
type Options struct {
	// MaxT is the simulated end time; the run stops once the clock
	// crosses it.
	MaxT float64

	// MaxIter caps the number of accepted reaction events.
	MaxIter int

	// Seed initializes the uniform deviate stream when Source is nil.
	Seed int64

	// Source overrides the default math/rand-backed deviate stream.
	// The run takes exclusive ownership of it.
	Source UniformSource

	// MaxRejections caps consecutive negative-population rejections
	// within one step. Rejected draws never count against MaxIter, so
	// without a cap a pathological stoichiometry could retry forever.
	MaxRejections int

	// RecordTrajectory enables per-event time and state recording in
	// the Result.
	RecordTrajectory bool
}

// DefaultOptions mirrors the conventional single-trajectory defaults.
func DefaultOptions() Options {
	return Options{
		MaxT:             1.0,
		MaxIter:          100,
		MaxRejections:    10000,
		RecordTrajectory: true,
	}
}

// Result is the outcome of one trajectory: the final clock value, final
// populations and the terminal status, plus the accepted-event count and
// the recorded trajectory when enabled.
type Result struct {
	Time   float64 `json:"time"`
	State  []int   `json:"state"`
	Status Status  `json:"status"`
	Steps  int     `json:"steps"`
	Seed   int64   `json:"seed"`

	// Times[k] and States[k] are the clock and populations after the
	// k-th accepted event; index 0 holds the initial condition.
	Times  []float64 `json:"times,omitempty"`
	States [][]int   `json:"states,omitempty"`
}

// Simulate runs the exact direct-method loop: recompute propensities,
// select the next reaction, apply its net change with rejection of
// negative populations, advance the clock by an exponential holding
// time, and stop on extinction, deadlock, or the time/iteration limits.
//
// An error is returned only for the rejection-cap availability guard;
// every modeled stopping condition arrives as a Status on the Result.
func Simulate(sys *ReactionSystem, opts Options) (Result, error) {
	src := opts.Source
	if src == nil {
		src = NewSource(opts.Seed)
	}
	maxRej := opts.MaxRejections
	if maxRej <= 0 {
		maxRej = DefaultOptions().MaxRejections
	}

	state := sys.InitialState()
	prop := make([]float64, sys.NumReactions())
	candidate := make([]int, sys.NumSpecies())

	res := Result{Time: 0, Status: StatusRunning, Seed: opts.Seed}
	if opts.RecordTrajectory {
		res.Times = append(res.Times, 0)
		res.States = append(res.States, append([]int(nil), state...))
	}

	iter := 0
	rejections := 0
	for {
		computePropensities(sys.kStoc, sys.reactants, state, prop)

		choice, total, status := selectReaction(prop, state, src)
		if status.Terminal() {
			res.State = state
			res.Status = status
			res.Steps = iter
			return res, nil
		}

		negative := false
		for j := range state {
			candidate[j] = state[j] + sys.net[choice][j]
			if candidate[j] < 0 {
				negative = true
			}
		}
		if negative {
			// Discard the draw without advancing the clock or the
			// iteration counter; re-entering the loop redraws the
			// selection deviate over unchanged propensities.
			rejections++
			if rejections > maxRej {
				res.State = state
				res.Status = StatusRunning
				res.Steps = iter
				return res, fmt.Errorf("%w: %d rejections at t=%g", ErrRejectionLimit, rejections-1, res.Time)
			}
			continue
		}
		rejections = 0

		copy(state, candidate)
		r2 := src.Float64()
		res.Time += math.Log(1/r2) / total

		if opts.RecordTrajectory {
			res.Times = append(res.Times, res.Time)
			res.States = append(res.States, append([]int(nil), state...))
		}

		if res.Time > opts.MaxT {
			res.State = state
			res.Status = StatusMaxTime
			res.Steps = iter + 1
			return res, nil
		}

		iter++
		if iter >= opts.MaxIter {
			res.State = state
			res.Status = StatusMaxIter
			res.Steps = iter
			return res, nil
		}
	}
}
