package gillespie

import "math/rand"

// UniformSource supplies the uniform(0,1) deviates that drive a run.
// Implementations must be deterministic: reseeding with the same value
// must reproduce the same sequence, so that identical inputs plus an
// identical seed give a bit-identical trajectory.
type UniformSource interface {
	// Seed resets the source to a deterministic initial state.
	Seed(seed int64)

	// Float64 returns the next deviate in [0.0, 1.0).
	Float64() float64
}

// randSource is the default UniformSource backed by math/rand.
type randSource struct {
	rng *rand.Rand
}

// NewSource returns a seeded UniformSource. Each run should own its
// source exclusively; the implementation is not safe for concurrent use.
func NewSource(seed int64) UniformSource {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (r *randSource) Seed(seed int64) {
	r.rng = rand.New(rand.NewSource(seed))
}

func (r *randSource) Float64() float64 {
	return r.rng.Float64()
}
