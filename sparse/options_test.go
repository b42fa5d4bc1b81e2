// SPDX-License-Identifier: MIT
package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsparse/sparse"
)

func TestOptions_PanicOnNonsense(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { sparse.WithCapacity(-1) })
	require.Panics(t, func() { sparse.WithMaxReserve(-1) })
	require.Panics(t, func() { sparse.WithLogger(nil) })
	require.NotPanics(t, func() { sparse.WithCapacity(0) })
}

func TestOptions_ReserveDoesNotChangeLayout(t *testing.T) {
	t.Parallel()

	sizes := []uint64{40, 50}
	entries := randomEntries(3, sizes, 60)
	want := mustStorage(t, sizes, dc, entries)

	for _, opts := range [][]sparse.Option{
		{sparse.WithoutReserve()},
		{sparse.WithMaxReserve(1)},
		{sparse.WithMaxReserve(0), sparse.WithCapacity(3)},
		{nil},
	} {
		coo := mustCOO(t, sizes, entries)
		got, err := sparse.FromCOO[uint64, uint64, float64](coo, id2, dc, opts...)
		require.NoError(t, err)
		requireSameLayout(t, want, got)
	}
}
