// SPDX-License-Identifier: MIT
// Package sparse_test contains test helpers
//
// Purpose:
//   - Small deterministic fixtures (the 2×3 CSR matrix, rank-3 random sets).
//   - Must* helpers that fail the test on construction errors.

package sparse_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsparse/sparse"
)

var (
	dd = []sparse.DimLevelType{sparse.LevelDense, sparse.LevelDense}
	dc = []sparse.DimLevelType{sparse.LevelDense, sparse.LevelCompressed}
	cc = []sparse.DimLevelType{sparse.LevelCompressed, sparse.LevelCompressed}
)

var id2 = []uint64{0, 1}

// entry is a test-side coordinate/value pair.
type entry struct {
	idx []uint64
	val float64
}

// csrEntries is
//
//	| 1 0 0 |
//	| 0 5 3 |
func csrEntries() []entry {
	return []entry{
		{[]uint64{1, 2}, 3},
		{[]uint64{0, 0}, 1},
		{[]uint64{1, 1}, 5},
	}
}

// mustCOO builds a scheme over sizes holding entries (in scheme order).
func mustCOO(t testing.TB, sizes []uint64, entries []entry) *sparse.COO[float64] {
	t.Helper()
	coo, err := sparse.NewCOO[float64](sizes, sparse.WithCapacity(len(entries)))
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, coo.Add(e.idx, e.val))
	}

	return coo
}

// mustStorage packs entries with the identity permutation.
func mustStorage(t testing.TB, sizes []uint64, levels []sparse.DimLevelType, entries []entry) *sparse.Storage[uint64, uint64, float64] {
	t.Helper()
	s, err := sparse.FromCOO[uint64, uint64, float64](mustCOO(t, sizes, entries), identity(len(sizes)), levels)
	require.NoError(t, err)

	return s
}

// mustInsert builds the same tensor through the lexicographic protocol.
func mustInsert(t testing.TB, sizes []uint64, levels []sparse.DimLevelType, entries []entry) *sparse.Storage[uint64, uint64, float64] {
	t.Helper()
	in, err := sparse.NewInserter[uint64, uint64, float64](sizes, identity(len(sizes)), levels)
	require.NoError(t, err)
	for _, e := range sortedEntries(entries) {
		require.NoError(t, in.Insert(e.idx, e.val))
	}
	s, err := in.Finish()
	require.NoError(t, err)

	return s
}

func identity(rank int) []uint64 {
	p := make([]uint64, rank)
	for i := range p {
		p[i] = uint64(i)
	}

	return p
}

func sortedEntries(entries []entry) []entry {
	out := slices.Clone(entries)
	slices.SortFunc(out, func(a, b entry) int { return slices.Compare(a.idx, b.idx) })

	return out
}

// randomEntries draws n distinct coordinates over sizes with nonzero values.
func randomEntries(seed int64, sizes []uint64, n int) []entry {
	rng := rand.New(rand.NewSource(seed))
	seen := map[string]bool{}
	out := make([]entry, 0, n)
	for len(out) < n {
		idx := make([]uint64, len(sizes))
		key := make([]byte, 0, 8*len(sizes))
		for d, sz := range sizes {
			idx[d] = uint64(rng.Int63n(int64(sz)))
			key = append(key, byte(idx[d]), byte(idx[d]>>8), ',')
		}
		if seen[string(key)] {
			continue
		}
		seen[string(key)] = true
		out = append(out, entry{idx: idx, val: float64(rng.Intn(9) + 1)})
	}

	return out
}

// nonzeros collects the nonzero elements of a scheme, sorted.
func nonzeros(t testing.TB, coo *sparse.COO[float64]) []entry {
	t.Helper()
	require.NoError(t, coo.Sort())
	var out []entry
	for _, e := range coo.Elements() {
		if e.Value != 0 {
			out = append(out, entry{idx: e.Indices, val: e.Value})
		}
	}

	return out
}

// allLevels enumerates every dense/compressed annotation of the given rank.
func allLevels(rank int) [][]sparse.DimLevelType {
	var out [][]sparse.DimLevelType
	for mask := 0; mask < 1<<rank; mask++ {
		lv := make([]sparse.DimLevelType, rank)
		for d := 0; d < rank; d++ {
			if mask&(1<<d) != 0 {
				lv[d] = sparse.LevelCompressed
			}
		}
		out = append(out, lv)
	}

	return out
}
