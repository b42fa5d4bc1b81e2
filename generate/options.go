// SPDX-License-Identifier: MIT
// Package: lvsparse/generate
//
// options.go — functional options and the resolved generator config.
//
// Contract (strict):
//   • Options are functional (type Option func(*config)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Generators themselves MUST NOT panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.
//
// Deterministic defaults:
//   • rng      = nil            (pure/deterministic unless seeded)
//   • valueFn  = constant DefaultValue
//   • shuffle  = false          (elements in row-major order)

package generate

import (
	"math/rand"
)

// DefaultValue is the constant element value when no value policy is set.
const DefaultValue = 1.0

// MaxCells bounds the coordinates swept by RandomSparse and the element
// count drawn by RandomNNZ.
const MaxCells = 1 << 24

// Option customizes a generator.
type Option func(*config)

type config struct {
	rng     *rand.Rand
	valueFn func(*rand.Rand) float64
	shuffle bool
}

// WithRand provides an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("generate: WithRand(nil)")
	}

	return func(c *config) { c.rng = r }
}

// WithSeed creates a seeded RNG (deterministic).
func WithSeed(seed int64) Option {
	return func(c *config) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithValueFn overrides the per-element value generator. The function
// receives the (possibly nil) RNG. Panics on nil.
func WithValueFn(fn func(*rand.Rand) float64) Option {
	if fn == nil {
		panic("generate: WithValueFn(nil)")
	}

	return func(c *config) { c.valueFn = fn }
}

// WithUniformValues draws integral values uniformly from [lo, hi]; without
// an RNG every value is lo. Panics if hi < lo.
func WithUniformValues(lo, hi int) Option {
	if hi < lo {
		panic("generate: WithUniformValues(hi<lo)")
	}

	return WithValueFn(func(r *rand.Rand) float64 {
		if r == nil {
			return float64(lo)
		}

		return float64(lo + r.Intn(hi-lo+1))
	})
}

// WithShuffle permutes the generated elements (needs an RNG), so the
// scheme starts unsorted.
func WithShuffle() Option {
	return func(c *config) { c.shuffle = true }
}

func newConfig(opts ...Option) config {
	cfg := config{valueFn: func(*rand.Rand) float64 { return DefaultValue }}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
