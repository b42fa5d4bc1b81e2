// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the sparse
// package. All operations MUST return these sentinels and tests MUST check them
// via errors.Is. No operation should panic on user-triggered error conditions.
// Panics are reserved for option constructors given nonsensical arguments.

package sparse

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "sparse: ..." so it can be grepped in logs.
// Sentinels are returned wrapped with call-site context via errorf below;
// callers still match them with errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// released/locked/finished state -> rank -> shape/permutation/levels
// -> index range -> ordering/duplicates -> overhead width.

var (
	// ErrBadRank is returned when a tensor of rank 0 is requested.
	ErrBadRank = errors.New("sparse: rank must be >= 1")

	// ErrBadShape is returned when a dimension extent is zero.
	ErrBadShape = errors.New("sparse: dimension sizes must be > 0")

	// ErrRankMismatch indicates that a coordinate, permutation, level list or
	// COO does not have the tensor's rank.
	ErrRankMismatch = errors.New("sparse: rank mismatch")

	// ErrOutOfRange indicates that an index component or a dimension number
	// is outside its valid bounds.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrBadPermutation indicates that a dimension ordering is not a
	// permutation of 0..rank-1.
	ErrBadPermutation = errors.New("sparse: invalid dimension permutation")

	// ErrUnsupportedLevel indicates a level annotation other than dense or
	// compressed (singleton is recognized but not supported).
	ErrUnsupportedLevel = errors.New("sparse: unsupported dimension level type")

	// ErrUnsupportedKind indicates an unsupported (pointer, index, value)
	// type combination.
	ErrUnsupportedKind = errors.New("sparse: unsupported combination of types")

	// ErrSizeMismatch indicates that declared extents disagree with the
	// extents carried by the source data.
	ErrSizeMismatch = errors.New("sparse: dimension size mismatch")

	// ErrIteratorLocked is returned by Add/Sort once iteration has started.
	ErrIteratorLocked = errors.New("sparse: coordinate scheme is in iterator mode")

	// ErrIteratorNotStarted is returned by Next before StartIterator.
	ErrIteratorNotStarted = errors.New("sparse: iterator not started")

	// ErrReleased is returned when a COO is used after its ownership moved
	// (consumed by FromCOO or exhausted by iteration).
	ErrReleased = errors.New("sparse: coordinate scheme released")

	// ErrNonLexicographic indicates an insertion below the previous cursor.
	ErrNonLexicographic = errors.New("sparse: non-lexicographic insertion")

	// ErrDuplicate indicates an insertion equal to the previous cursor, or a
	// repeated position in an expanded insertion.
	ErrDuplicate = errors.New("sparse: duplicate insertion")

	// ErrNotFilled indicates an expanded-insertion position whose filled
	// switch was not set.
	ErrNotFilled = errors.New("sparse: expanded position not marked filled")

	// ErrFinished is returned when an Inserter is used after Finish.
	ErrFinished = errors.New("sparse: insertion already finished")

	// ErrDimensionMismatch indicates incompatible buffer lengths.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrOverheadOverflow indicates that a pointer or index does not fit the
	// configured overhead bit-width.
	ErrOverheadOverflow = errors.New("sparse: overhead type overflow")

	// ErrTypeMismatch indicates that two storages (or a storage and a
	// requested element type) do not share the same kind.
	ErrTypeMismatch = errors.New("sparse: element type mismatch")

	// ErrCorrupt is returned by Report.Err when the verifier found structural
	// violations, and by traversals that meet malformed arrays.
	ErrCorrupt = errors.New("sparse: corrupt tensor structure")

	// ErrInternal signals a broken internal invariant (a bug, not misuse).
	ErrInternal = errors.New("sparse: internal invariant violated")
)

// errorf wraps a sentinel with an operation tag and optional detail.
// Used at the nearest detection site so messages carry coordinates.
func errorf(op string, err error, format string, args ...any) error {
	if format == "" {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), err)
}
