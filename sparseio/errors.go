// SPDX-License-Identifier: MIT
// Package: lvsparse/sparseio
//
// errors.go — sentinel errors for the interchange readers and writers.
//
// Error policy:
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Rank and size mismatches additionally match the sparse sentinels
//     (sparse.ErrRankMismatch, sparse.ErrSizeMismatch).
//   • Readers never abort the process; every failure is returned.

package sparseio

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptHeader indicates a Matrix Market header line without the five
	// expected tokens.
	ErrCorruptHeader = errors.New("sparseio: corrupt header")

	// ErrUnsupportedMatrix indicates a Matrix Market file that is not a
	// general or symmetric real coordinate matrix.
	ErrUnsupportedMatrix = errors.New("sparseio: not a general or symmetric real coordinate matrix")

	// ErrMissingData indicates that the input ended before the size line,
	// the extents or the declared number of entries.
	ErrMissingData = errors.New("sparseio: missing data")

	// ErrRankMismatch indicates that the file rank differs from the caller's.
	ErrRankMismatch = errors.New("sparseio: rank mismatch")

	// ErrSizeMismatch indicates that a file extent differs from a declared one.
	ErrSizeMismatch = errors.New("sparseio: dimension size mismatch")

	// ErrBadEntry indicates an unparsable or out-of-range entry line.
	ErrBadEntry = errors.New("sparseio: malformed entry")

	// ErrUnknownFormat indicates a path with neither a .mtx nor a .tns suffix.
	ErrUnknownFormat = errors.New("sparseio: unknown file format")
)

// wrapf attaches an operation tag and detail to a sentinel.
func wrapf(op string, err error, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), err)
}
