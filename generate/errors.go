// SPDX-License-Identifier: MIT
// Package: lvsparse/generate
//
// errors.go — sentinel errors for the fixture generators.
//
// Error policy:
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Shape errors from the coordinate scheme (sparse.ErrBadRank,
//     sparse.ErrBadShape) pass through wrapped with the method name.
//   • Generators MUST NOT panic at runtime; validation panics are confined to
//     option constructors (WithX...).

package generate

import (
	"errors"
	"fmt"
)

// ErrInvalidProbability indicates a density outside the closed interval [0,1].
var ErrInvalidProbability = errors.New("generate: probability out of range")

// ErrNeedRandSource indicates a stochastic generator without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("generate: rng is required")

// ErrTooManyElements indicates a request for more distinct elements than the
// shape holds, or more than MaxCells coordinates swept or drawn.
var ErrTooManyElements = errors.New("generate: too many elements")

// ErrBadSize indicates a non-positive extent, rank or band width.
var ErrBadSize = errors.New("generate: invalid size")

// generatorErrorf prefixes err with the generator name and detail.
func generatorErrorf(method string, err error, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}
