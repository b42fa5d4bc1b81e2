// SPDX-License-Identifier: MIT

// Package sparse: functional configuration for construction and verification.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that resolves the effective settings.
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//   - Options fields are unexported; public APIs consume ...Option.
package sparse

import "go.uber.org/zap"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultCapacity is the element capacity reserved by NewCOO when no
	// WithCapacity option is given (0 ⇒ grow on demand).
	DefaultCapacity = 0

	// DefaultReserve toggles the capacity hints that FromCOO/NewInserter apply
	// to pointers and indices (product of extents since the last compressed
	// dimension, as in the classic runtime).
	DefaultReserve = true

	// DefaultMaxReserve caps a single capacity hint, so that a declared
	// 10^6×10^6 tensor does not try to reserve 10^12 slots up front.
	DefaultMaxReserve = 1 << 20
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicCapacityInvalid = "sparse: WithCapacity: capacity must be >= 0"
	panicMaxReserve      = "sparse: WithMaxReserve: limit must be >= 0"
	panicNilLogger       = "sparse: WithLogger: logger must be non-nil"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	capacity   int                // COO element capacity
	reserve    bool               // apply overhead capacity hints
	maxReserve int                // upper bound of one capacity hint
	sizes      []uint64           // declared extents for FromCOO (0 = wildcard); nil = unchecked
	logger     *zap.SugaredLogger // never nil after gatherOptions
}

// WithCapacity reserves room for n elements in a COO.
// Panics when n < 0.
func WithCapacity(n int) Option {
	if n < 0 {
		panic(panicCapacityInvalid)
	}

	return func(o *Options) { o.capacity = n }
}

// WithoutReserve disables overhead capacity hints (useful for tensors whose
// declared extents are huge compared to their nonzero count).
func WithoutReserve() Option {
	return func(o *Options) { o.reserve = false }
}

// WithMaxReserve caps a single capacity hint. Panics when limit < 0.
func WithMaxReserve(limit int) Option {
	if limit < 0 {
		panic(panicMaxReserve)
	}

	return func(o *Options) { o.maxReserve = limit }
}

// WithSizeCheck makes FromCOO assert that the COO carries the given
// extents (in original dimension order). A zero entry is a wildcard.
func WithSizeCheck(sizes []uint64) Option {
	cp := append([]uint64(nil), sizes...)
	return func(o *Options) { o.sizes = cp }
}

// WithLogger routes construction diagnostics to l.
// Panics on nil to surface programmer error early.
func WithLogger(l *zap.SugaredLogger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *Options) { o.logger = l }
}

// gatherOptions resolves opts over the documented defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		capacity:   DefaultCapacity,
		reserve:    DefaultReserve,
		maxReserve: DefaultMaxReserve,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = zap.NewNop().Sugar()
	}

	return o
}

// hint clamps a capacity hint to the configured maximum (0 when disabled).
func (o Options) hint(n uint64) int {
	if !o.reserve {
		return 0
	}
	if n > uint64(o.maxReserve) {
		return o.maxReserve
	}

	return int(n)
}

// ---------- Verification options ----------

// VerifyOption configures Storage.Verify.
type VerifyOption func(*verifyOptions)

type verifyOptions struct {
	logger  *zap.SugaredLogger
	classic bool
}

// WithVerifyLogger logs every diagnostic at warn level through l.
// Panics on nil.
func WithVerifyLogger(l *zap.SugaredLogger) VerifyOption {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *verifyOptions) { o.logger = l }
}

// WithClassicBounds adds the pointer-length heuristics of the classic
// runtime: len(ptr) <= len(idx)+1 below a compressed ancestor and the two
// previous-pointer bounds. They hold for rank-2 layouts but can reject
// valid higher-rank tensors (e.g. dense,compressed,compressed).
func WithClassicBounds() VerifyOption {
	return func(o *verifyOptions) { o.classic = true }
}

func gatherVerifyOptions(opts ...VerifyOption) verifyOptions {
	o := verifyOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = zap.NewNop().Sugar()
	}

	return o
}
