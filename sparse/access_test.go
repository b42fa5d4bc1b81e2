// SPDX-License-Identifier: MIT
package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsparse/sparse"
)

func TestAccessors(t *testing.T) {
	t.Parallel()

	s := mustStorage(t, []uint64{2, 3}, dc, csrEntries())
	require.Equal(t, 2, s.Rank())
	sz, err := s.DimSize(1)
	require.NoError(t, err)
	require.Equal(t, uint64(3), sz)
	_, err = s.DimSize(2)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)
	_, err = s.Pointers(-1)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)
	_, err = s.Indices(5)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)
	require.False(t, s.IsCompressed(0))
	require.True(t, s.IsCompressed(1))
	require.False(t, s.IsCompressed(9))
	require.Equal(t, 3, s.NumValues())
	require.Equal(t, sparse.KindOf[uint64, uint64, float64](), s.Kind())

	// Copies, not views.
	sizes := s.Sizes()
	sizes[0] = 99
	require.Equal(t, []uint64{2, 3}, s.Sizes())
}

func TestResize(t *testing.T) {
	t.Parallel()

	s := mustStorage(t, []uint64{2, 3}, dc, csrEntries())
	require.NoError(t, s.ResizeValues(5))
	require.Equal(t, []float64{1, 5, 3, 0, 0}, s.Values())
	require.NoError(t, s.ResizeValues(1))
	require.Equal(t, []float64{1}, s.Values())
	// Regrowing within capacity zeroes the reclaimed tail.
	require.NoError(t, s.ResizeValues(3))
	require.Equal(t, []float64{1, 0, 0}, s.Values())

	require.NoError(t, s.ResizePointers(1, 1))
	ptr, _ := s.Pointers(1)
	require.Equal(t, []uint64{0}, ptr)
	require.NoError(t, s.ResizeIndices(1, 0))
	idx, _ := s.Indices(1)
	require.Empty(t, idx)

	require.ErrorIs(t, s.ResizePointers(2, 1), sparse.ErrOutOfRange)
	require.ErrorIs(t, s.ResizeIndices(0, -1), sparse.ErrOutOfRange)
	require.ErrorIs(t, s.ResizeValues(-1), sparse.ErrOutOfRange)
	require.ErrorIs(t, s.ResizeDim(3, 1), sparse.ErrOutOfRange)
	require.ErrorIs(t, s.AssignRev(2, 0), sparse.ErrOutOfRange)
}

func TestDupIsIndependent(t *testing.T) {
	t.Parallel()

	s := mustStorage(t, []uint64{2, 3}, dc, csrEntries())
	d := s.Dup()
	d.Values()[0] = 42
	idx, _ := d.Indices(1)
	idx[0] = 2
	require.NoError(t, d.AssignRev(0, 1))

	require.Equal(t, []float64{1, 5, 3}, s.Values())
	orig, _ := s.Indices(1)
	require.Equal(t, []uint64{0, 1, 2}, orig)
	require.Equal(t, []uint64{0, 1}, s.Rev())

	c := s.Clone()
	require.Equal(t, s.Kind(), c.Kind())
	require.True(t, c.Verify().OK())
}

func TestSwap(t *testing.T) {
	t.Parallel()

	a := mustStorage(t, []uint64{2, 3}, dc, csrEntries())
	b := mustStorage(t, []uint64{2, 3}, dc, []entry{{[]uint64{0, 2}, 8}})

	require.NoError(t, a.SwapField(b, sparse.FieldValues))
	require.Equal(t, []float64{8}, a.Values())
	require.Equal(t, []float64{1, 5, 3}, b.Values())
	require.False(t, a.Verify().OK())

	require.NoError(t, a.SwapField(b, sparse.FieldPointers))
	require.NoError(t, a.SwapField(b, sparse.FieldIndices))
	require.True(t, a.Verify().OK())
	require.True(t, b.Verify().OK())
	require.NoError(t, a.SwapField(b, sparse.FieldSizes))
	require.NoError(t, a.SwapField(b, sparse.FieldRev))

	other := mustStorage(t, []uint64{2, 3}, dc, nil).Snapshot()
	f32, err := sparse.Restore(sparse.Snapshot{
		Kind:     sparse.Kind{Pointer: sparse.OverheadU64, Index: sparse.OverheadU64, Value: sparse.PrimaryF32},
		Sizes:    other.Sizes,
		Rev:      other.Rev,
		Pointers: other.Pointers,
		Indices:  other.Indices,
	})
	require.NoError(t, err)
	require.ErrorIs(t, a.SwapField(f32, sparse.FieldValues), sparse.ErrTypeMismatch)
	require.ErrorIs(t, a.SwapField(b, sparse.Field(42)), sparse.ErrOutOfRange)

	vals := []float64{7, 7, 7}
	a.SwapValues(&vals)
	require.Equal(t, []float64{1, 5, 3}, vals)
	require.Equal(t, []float64{7, 7, 7}, a.Values())
}

func TestToCOO_CorruptStorage(t *testing.T) {
	t.Parallel()

	s := mustStorage(t, []uint64{2, 3}, dc, csrEntries())
	require.NoError(t, s.AssignRev(0, 1))
	_, err := s.ToCOO(id2)
	require.ErrorIs(t, err, sparse.ErrCorrupt)

	s = mustStorage(t, []uint64{2, 3}, dc, csrEntries())
	require.NoError(t, s.ResizeValues(2))
	_, err = s.ToCOO(id2)
	require.ErrorIs(t, err, sparse.ErrCorrupt)
	_, err = s.ToDense()
	require.ErrorIs(t, err, sparse.ErrCorrupt)

	_, err = s.ToCOO([]uint64{0})
	require.ErrorIs(t, err, sparse.ErrRankMismatch)
}
