// SPDX-License-Identifier: MIT
// Package: lvsparse/cmd/lvsparse
//
// typed.go — value-type dispatch for the commands that touch elements.

package main

import (
	"fmt"

	"github.com/katalvlaran/lvsparse/generate"
	"github.com/katalvlaran/lvsparse/sparse"
	"github.com/katalvlaran/lvsparse/sparseio"
)

// writeTensor unpacks t in original dimension order and writes it to path.
// It returns the number of elements written.
func writeTensor(t sparse.Tensor, path string) (int, error) {
	switch t.Kind().Value {
	case sparse.PrimaryF64:
		return writeAs[float64](t, path)
	case sparse.PrimaryF32:
		return writeAs[float32](t, path)
	case sparse.PrimaryI64:
		return writeAs[int64](t, path)
	case sparse.PrimaryI32:
		return writeAs[int32](t, path)
	case sparse.PrimaryI16:
		return writeAs[int16](t, path)
	case sparse.PrimaryI8:
		return writeAs[int8](t, path)
	default:
		return 0, fmt.Errorf("write %s: %w", t.Kind(), sparse.ErrUnsupportedKind)
	}
}

func writeAs[V sparse.Value](t sparse.Tensor, path string) (int, error) {
	tt, ok := t.(sparse.Typed[V])
	if !ok {
		return 0, fmt.Errorf("write %s: %w", t.Kind(), sparse.ErrTypeMismatch)
	}
	perm := make([]uint64, t.Rank())
	for d := range perm {
		perm[d] = uint64(d)
	}
	coo, err := tt.ToCOO(perm)
	if err != nil {
		return 0, err
	}
	if err = sparseio.WriteFile(path, coo); err != nil {
		return 0, err
	}

	return coo.Len(), nil
}

// genSpec selects one generator and its parameters.
type genSpec struct {
	shape   []uint64
	density float64
	nnz     int
	diag    bool
	band    []int
	seed    int64
	shuffle bool
	lo, hi  int
}

// generateFile runs the selected generator with value type v and writes
// the result to path.
func generateFile(v sparse.PrimaryType, g genSpec, path string) (int, error) {
	switch v {
	case sparse.PrimaryF64:
		return generateAs[float64](g, path)
	case sparse.PrimaryF32:
		return generateAs[float32](g, path)
	case sparse.PrimaryI64:
		return generateAs[int64](g, path)
	case sparse.PrimaryI32:
		return generateAs[int32](g, path)
	case sparse.PrimaryI16:
		return generateAs[int16](g, path)
	case sparse.PrimaryI8:
		return generateAs[int8](g, path)
	default:
		return 0, fmt.Errorf("gen %s: %w", v, sparse.ErrUnsupportedKind)
	}
}

func generateAs[V sparse.Value](g genSpec, path string) (int, error) {
	opts := []generate.Option{generate.WithSeed(g.seed), generate.WithUniformValues(g.lo, g.hi)}
	if g.shuffle {
		opts = append(opts, generate.WithShuffle())
	}

	var (
		coo *sparse.COO[V]
		err error
	)
	switch {
	case g.diag:
		if len(g.shape) == 0 {
			return 0, fmt.Errorf("gen: diagonal: %w", sparse.ErrBadRank)
		}
		coo, err = generate.Diagonal[V](g.shape[0], len(g.shape), opts...)
	case g.band != nil:
		if len(g.shape) != 2 || len(g.band) != 2 {
			return 0, fmt.Errorf("gen: band needs a 2-d shape and lower,upper: %w", sparse.ErrRankMismatch)
		}
		coo, err = generate.Banded[V](g.shape[0], g.shape[1], g.band[0], g.band[1], opts...)
	case g.nnz > 0:
		coo, err = generate.RandomNNZ[V](g.shape, g.nnz, opts...)
	default:
		coo, err = generate.RandomSparse[V](g.shape, g.density, opts...)
	}
	if err != nil {
		return 0, err
	}
	if err = sparseio.WriteFile(path, coo); err != nil {
		return 0, err
	}

	return coo.Len(), nil
}
