package growth

import (
	"math/rand"
	"time"
)

// Option configures a Developer.
type Option func(*Developer)

// WithRand makes the developer draw from r. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("growth: WithRand(nil)")
	}
	return func(d *Developer) {
		d.rng = r
	}
}

// WithSeed seeds a private generator so runs are reproducible.
func WithSeed(seed int64) Option {
	return func(d *Developer) {
		d.rng = rand.New(rand.NewSource(seed))
	}
}

func defaultRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
