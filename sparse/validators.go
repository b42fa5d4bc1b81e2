// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - Provide a single, canonical source of truth for shape, permutation and
//    level checks shared by COO, FromCOO, NewInserter and the flat interop.
//  - Keep the builders minimal by delegating guard logic here.
//
// Determinism & Performance:
//  - All checks are pure and deterministic.
//  - ValidatePermutation allocates one rank-sized bitmap.
//
// AI-Hints:
//  - Composite validators follow a fixed sequence: rank → shape → perm → levels.
//  - Every failure is a wrapped sentinel; match with errors.Is.

package sparse

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return errorf(tag, err, "")
}

// ValidateShape ensures rank >= 1 and every extent is > 0.
//
// Errors: ErrBadRank, ErrBadShape.
// Complexity: O(rank).
func ValidateShape(sizes []uint64) error {
	if len(sizes) == 0 {
		return validatorErrorf("ValidateShape", ErrBadRank)
	}
	for d, sz := range sizes {
		if sz == 0 {
			return errorf("ValidateShape", ErrBadShape, "dim %d", d)
		}
	}

	return nil
}

// ValidatePermutation ensures perm is a permutation of 0..rank-1.
//
// Errors: ErrRankMismatch when len(perm) != rank, ErrBadPermutation otherwise.
// Complexity: O(rank) time, O(rank) space.
func ValidatePermutation(perm []uint64, rank int) error {
	if len(perm) != rank {
		return errorf("ValidatePermutation", ErrRankMismatch, "len %d, rank %d", len(perm), rank)
	}
	seen := make([]bool, rank)
	for r, p := range perm {
		if p >= uint64(rank) || seen[p] {
			return errorf("ValidatePermutation", ErrBadPermutation, "perm[%d]=%d", r, p)
		}
		seen[p] = true
	}

	return nil
}

// ValidateLevels ensures one dense/compressed annotation per dimension.
//
// Errors: ErrRankMismatch, ErrUnsupportedLevel.
// Complexity: O(rank).
func ValidateLevels(levels []DimLevelType, rank int) error {
	if len(levels) != rank {
		return errorf("ValidateLevels", ErrRankMismatch, "len %d, rank %d", len(levels), rank)
	}
	for d, l := range levels {
		if l != LevelDense && l != LevelCompressed {
			return errorf("ValidateLevels", ErrUnsupportedLevel, "dim %d: %s", d, l)
		}
	}

	return nil
}

// ValidateCursor ensures a coordinate has the given rank and lies inside sizes.
//
// Errors: ErrRankMismatch, ErrOutOfRange.
// Complexity: O(rank).
func ValidateCursor(cursor, sizes []uint64) error {
	if len(cursor) != len(sizes) {
		return errorf("ValidateCursor", ErrRankMismatch, "len %d, rank %d", len(cursor), len(sizes))
	}
	for d, c := range cursor {
		if c >= sizes[d] {
			return errorf("ValidateCursor", ErrOutOfRange, "dim %d: %d >= %d", d, c, sizes[d])
		}
	}

	return nil
}

// validateLayout runs the composite sequence used by both packed builders.
func validateLayout(sizes, perm []uint64, levels []DimLevelType) error {
	if err := ValidateShape(sizes); err != nil {
		return err
	}
	if err := ValidatePermutation(perm, len(sizes)); err != nil {
		return err
	}

	return ValidateLevels(levels, len(sizes))
}

// fitsOverhead reports whether v is representable in T.
func fitsOverhead[T Overhead](v uint64) bool {
	return uint64(T(v)) == v
}

// identityPerm returns 0..rank-1.
func identityPerm(rank int) []uint64 {
	p := make([]uint64, rank)
	for i := range p {
		p[i] = uint64(i)
	}

	return p
}

// isIdentity reports whether perm[i] == i for all i.
func isIdentity(perm []uint64) bool {
	for i, p := range perm {
		if p != uint64(i) {
			return false
		}
	}

	return true
}
