// SPDX-License-Identifier: MIT
// Package: lvsparse/generate
//
// random.go — stochastic fixtures: RandomSparse(sizes, p), RandomNNZ(sizes, nnz).
//
// Canonical models:
//   - RandomSparse: include each coordinate independently with probability p
//     (Bernoulli sweep in row-major order).
//   - RandomNNZ: exactly nnz distinct coordinates drawn uniformly.
//
// Contract:
//   - 0 ≤ p ≤ 1 (else ErrInvalidProbability); 0 ≤ nnz ≤ cells (else
//     ErrBadSize / ErrTooManyElements).
//   - An RNG is required whenever an outcome is random (else ErrNeedRandSource).
//   - Returns only sentinel errors; never panics at runtime.
//
// Complexity:
//   - RandomSparse: O(cells · rank) time, bounded by MaxCells.
//   - RandomNNZ: O(nnz · rank) expected time while nnz ≪ cells; nnz is
//     bounded by MaxCells.
//
// Determinism:
//   - Fixed seed ⇒ identical element sequence (trial order is row-major).

package generate

import (
	"encoding/binary"
	"math/bits"

	"github.com/katalvlaran/lvsparse/sparse"
)

const (
	methodRandomSparse = "RandomSparse"
	methodRandomNNZ    = "RandomNNZ"
	probMin            = 0.0
	probMax            = 1.0
)

// RandomSparse returns a scheme over sizes where every coordinate holds an
// element with probability p.
func RandomSparse[V sparse.Value](sizes []uint64, p float64, opts ...Option) (*sparse.COO[V], error) {
	cfg := newConfig(opts...)
	if p < probMin || p > probMax {
		return nil, generatorErrorf(methodRandomSparse, ErrInvalidProbability, "p=%.6f not in [%.1f,%.1f]", p, probMin, probMax)
	}
	if cfg.rng == nil && p > probMin && p < probMax {
		return nil, generatorErrorf(methodRandomSparse, ErrNeedRandSource, "p=%.6f", p)
	}
	cells, err := cellCount(methodRandomSparse, sizes)
	if err != nil {
		return nil, err
	}
	if cells > MaxCells {
		return nil, generatorErrorf(methodRandomSparse, ErrTooManyElements, "%d cells > %d", cells, MaxCells)
	}

	var items []item
	cursor := make([]uint64, len(sizes))
	for c := uint64(0); c < cells; c++ {
		if p == probMax || (p > probMin && cfg.rng.Float64() < p) {
			items = append(items, item{idx: append([]uint64(nil), cursor...), val: cfg.valueFn(cfg.rng)})
		}
		advance(cursor, sizes)
	}

	return emit[V](methodRandomSparse, sizes, items, cfg)
}

// RandomNNZ returns a scheme over sizes holding exactly nnz distinct
// coordinates.
func RandomNNZ[V sparse.Value](sizes []uint64, nnz int, opts ...Option) (*sparse.COO[V], error) {
	cfg := newConfig(opts...)
	if nnz < 0 {
		return nil, generatorErrorf(methodRandomNNZ, ErrBadSize, "nnz=%d", nnz)
	}
	cells, err := cellCount(methodRandomNNZ, sizes)
	if err != nil {
		return nil, err
	}
	if uint64(nnz) > cells {
		return nil, generatorErrorf(methodRandomNNZ, ErrTooManyElements, "nnz=%d > %d cells", nnz, cells)
	}
	if nnz > MaxCells {
		return nil, generatorErrorf(methodRandomNNZ, ErrTooManyElements, "nnz=%d > %d", nnz, MaxCells)
	}
	if cfg.rng == nil && nnz > 0 {
		return nil, generatorErrorf(methodRandomNNZ, ErrNeedRandSource, "nnz=%d", nnz)
	}

	seen := make(map[string]struct{}, nnz)
	items := make([]item, 0, nnz)
	key := make([]byte, 0, 8*len(sizes))
	for len(items) < nnz {
		idx := make([]uint64, len(sizes))
		key = key[:0]
		for d, sz := range sizes {
			idx[d] = uint64(cfg.rng.Int63n(int64(min(sz, 1<<62))))
			key = binary.LittleEndian.AppendUint64(key, idx[d])
		}
		if _, dup := seen[string(key)]; dup {
			continue
		}
		seen[string(key)] = struct{}{}
		items = append(items, item{idx: idx, val: cfg.valueFn(cfg.rng)})
	}

	return emit[V](methodRandomNNZ, sizes, items, cfg)
}

type item struct {
	idx []uint64
	val float64
}

// emit optionally shuffles items and loads them into a fresh scheme.
func emit[V sparse.Value](method string, sizes []uint64, items []item, cfg config) (*sparse.COO[V], error) {
	if cfg.shuffle {
		if cfg.rng == nil {
			return nil, generatorErrorf(method, ErrNeedRandSource, "shuffle")
		}
		cfg.rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	}
	coo, err := sparse.NewCOO[V](sizes, sparse.WithCapacity(len(items)))
	if err != nil {
		return nil, generatorErrorf(method, err, "sizes=%v", sizes)
	}
	for _, it := range items {
		if err = coo.Add(it.idx, V(it.val)); err != nil {
			return nil, generatorErrorf(method, err, "Add(%v)", it.idx)
		}
	}

	return coo, nil
}

// cellCount validates sizes and returns their saturated product.
func cellCount(method string, sizes []uint64) (uint64, error) {
	if err := sparse.ValidateShape(sizes); err != nil {
		return 0, generatorErrorf(method, err, "sizes=%v", sizes)
	}
	cells := uint64(1)
	for _, sz := range sizes {
		hi, lo := bits.Mul64(cells, sz)
		if hi != 0 {
			return ^uint64(0), nil
		}
		cells = lo
	}

	return cells, nil
}

// advance steps cursor to the next coordinate in row-major order.
func advance(cursor, sizes []uint64) {
	for d := len(cursor) - 1; d >= 0; d-- {
		cursor[d]++
		if cursor[d] < sizes[d] {
			return
		}
		cursor[d] = 0
	}
}
