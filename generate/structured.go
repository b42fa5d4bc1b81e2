// SPDX-License-Identifier: MIT
// Package: lvsparse/generate
//
// structured.go — deterministic fixtures: Diagonal(n, rank), Banded(rows, cols, lower, upper).
//
// Both emit elements in row-major (sorted) order unless WithShuffle is set.
// Values come from the configured value policy (DefaultValue otherwise).

package generate

import (
	"github.com/katalvlaran/lvsparse/sparse"
)

const (
	methodDiagonal = "Diagonal"
	methodBanded   = "Banded"
)

// Diagonal returns the rank-dimensional hyper-diagonal of extent n:
// elements at (i, i, ..., i) for i < n.
func Diagonal[V sparse.Value](n uint64, rank int, opts ...Option) (*sparse.COO[V], error) {
	cfg := newConfig(opts...)
	if n == 0 || rank < 1 {
		return nil, generatorErrorf(methodDiagonal, ErrBadSize, "n=%d rank=%d", n, rank)
	}
	if n > MaxCells {
		return nil, generatorErrorf(methodDiagonal, ErrTooManyElements, "n=%d > %d", n, MaxCells)
	}
	sizes := make([]uint64, rank)
	for d := range sizes {
		sizes[d] = n
	}
	items := make([]item, 0, n)
	for i := uint64(0); i < n; i++ {
		idx := make([]uint64, rank)
		for d := range idx {
			idx[d] = i
		}
		items = append(items, item{idx: idx, val: cfg.valueFn(cfg.rng)})
	}

	return emit[V](methodDiagonal, sizes, items, cfg)
}

// Banded returns a rows×cols matrix with elements on the main diagonal,
// lower sub-diagonals and upper super-diagonals.
func Banded[V sparse.Value](rows, cols uint64, lower, upper int, opts ...Option) (*sparse.COO[V], error) {
	cfg := newConfig(opts...)
	if rows == 0 || cols == 0 || lower < 0 || upper < 0 {
		return nil, generatorErrorf(methodBanded, ErrBadSize, "rows=%d cols=%d lower=%d upper=%d", rows, cols, lower, upper)
	}
	width := uint64(lower) + uint64(upper) + 1
	if rows > MaxCells || rows*min(width, cols) > MaxCells {
		return nil, generatorErrorf(methodBanded, ErrTooManyElements, "rows=%d band=%d", rows, width)
	}
	var items []item
	for i := uint64(0); i < rows; i++ {
		first := uint64(0)
		if i > uint64(lower) {
			first = i - uint64(lower)
		}
		last := min(i+uint64(upper), cols-1)
		for j := first; j <= last && first < cols; j++ {
			items = append(items, item{idx: []uint64{i, j}, val: cfg.valueFn(cfg.rng)})
		}
	}

	return emit[V](methodBanded, []uint64{rows, cols}, items, cfg)
}
