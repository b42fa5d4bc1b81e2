// SPDX-License-Identifier: MIT
package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsparse/sparse"
)

func TestSnapshot_RestoreRoundTrip(t *testing.T) {
	t.Parallel()

	in, err := sparse.NewInserter[uint32, uint16, float32]([]uint64{2, 3}, []uint64{1, 0}, dc)
	require.NoError(t, err)
	require.NoError(t, in.Insert([]uint64{0, 0}, 1.5))
	require.NoError(t, in.Insert([]uint64{2, 1}, -3))
	s, err := in.Finish()
	require.NoError(t, err)

	sn := s.Snapshot()
	require.Equal(t, s.Kind(), sn.Kind)
	require.Equal(t, 2, sn.NumValues())
	require.Empty(t, sn.Ints)

	back, err := sparse.Restore(sn)
	require.NoError(t, err)
	got, ok := back.(*sparse.Storage[uint32, uint16, float32])
	require.True(t, ok)
	require.Equal(t, s.Values(), got.Values())
	require.Equal(t, s.Rev(), got.Rev())
	for d := 0; d < 2; d++ {
		wp, _ := s.Pointers(d)
		gp, _ := got.Pointers(d)
		require.Equal(t, len(wp), len(gp))
		if len(wp) > 0 {
			require.Equal(t, wp, gp)
		}
	}
}

func TestSnapshot_IntegralValues(t *testing.T) {
	t.Parallel()

	coo, err := sparse.NewCOO[int64]([]uint64{4})
	require.NoError(t, err)
	require.NoError(t, coo.Add([]uint64{3}, 1<<40))
	s, err := sparse.FromCOO[uint64, uint64, int64](coo, []uint64{0}, []sparse.DimLevelType{sparse.LevelCompressed})
	require.NoError(t, err)

	sn := s.Snapshot()
	require.Equal(t, []int64{1 << 40}, sn.Ints)
	require.Empty(t, sn.Floats)
	back, err := sparse.Restore(sn)
	require.NoError(t, err)
	require.Equal(t, []int64{1 << 40}, back.(sparse.Typed[int64]).Values())
}

func TestRestore_Errors(t *testing.T) {
	t.Parallel()

	base := mustStorage(t, []uint64{2, 300}, dc, []entry{{[]uint64{1, 299}, 1}}).Snapshot()

	narrow := base
	narrow.Kind = sparse.Kind{Pointer: sparse.OverheadU8, Index: sparse.OverheadU8, Value: sparse.PrimaryF64}
	_, err := sparse.Restore(narrow)
	require.ErrorIs(t, err, sparse.ErrOverheadOverflow)

	bad := base
	bad.Kind = sparse.Kind{Pointer: sparse.OverheadU8, Index: sparse.OverheadU16, Value: sparse.PrimaryI16}
	_, err = sparse.Restore(bad)
	require.ErrorIs(t, err, sparse.ErrUnsupportedKind)

	short := base
	short.Rev = []uint64{0}
	_, err = sparse.Restore(short)
	require.ErrorIs(t, err, sparse.ErrCorrupt)

	corrupt := base
	corrupt.Floats = []float64{1, 2}
	_, err = sparse.Restore(corrupt)
	require.ErrorIs(t, err, sparse.ErrCorrupt)

	tooBig := base
	tooBig.Kind = sparse.Kind{Pointer: sparse.OverheadU16, Index: sparse.OverheadU16, Value: sparse.PrimaryI8}
	tooBig.Floats = nil
	tooBig.Ints = []int64{300}
	_, err = sparse.Restore(tooBig)
	require.ErrorIs(t, err, sparse.ErrOverheadOverflow)

	empty := base
	empty.Sizes = nil
	_, err = sparse.Restore(empty)
	require.ErrorIs(t, err, sparse.ErrBadRank)
	require.EqualError(t, err, "Restore: restore: "+sparse.ErrBadRank.Error())
}
