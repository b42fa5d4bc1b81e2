// SPDX-License-Identifier: MIT
package sparse_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lvsparse/sparse"
)

// diag3 is the 3×3 identity-pattern CSR: ptr [0 1 2 3], idx [0 1 2].
func diag3(t *testing.T) *sparse.Storage[uint64, uint64, float64] {
	t.Helper()
	return mustStorage(t, []uint64{3, 3}, dc, []entry{
		{[]uint64{0, 0}, 1}, {[]uint64{1, 1}, 2}, {[]uint64{2, 2}, 3},
	})
}

func TestVerify_PointerViolationsDetectedIndividually(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		ptr     []uint64
		want    sparse.Code
		notWant []sparse.Code
	}{
		{"unsorted", []uint64{0, 2, 1, 3}, sparse.CodePointerOrder, []sparse.Code{sparse.CodePointerFirst, sparse.CodePointerLast}},
		{"nonzero first", []uint64{1, 1, 2, 3}, sparse.CodePointerFirst, []sparse.Code{sparse.CodePointerOrder, sparse.CodePointerLast}},
		{"last != len(idx)", []uint64{0, 1, 2, 2}, sparse.CodePointerLast, []sparse.Code{sparse.CodePointerOrder, sparse.CodePointerFirst}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := diag3(t).Dup()
			ptrs := [][]uint64{nil, tc.ptr}
			s.SwapPointers(&ptrs)

			r := s.Verify()
			require.False(t, r.OK())
			require.True(t, r.Has(tc.want), "%v", r.Diagnostics)
			for _, c := range tc.notWant {
				require.False(t, r.Has(c), "unexpected %s: %v", c, r.Diagnostics)
			}
			require.ErrorIs(t, r.Err(), sparse.ErrCorrupt)
			for _, d := range r.Diagnostics {
				if d.Code == tc.want {
					require.Equal(t, 1, d.Dim)
				}
			}
		})
	}
}

func TestVerify_OtherViolations(t *testing.T) {
	t.Parallel()

	t.Run("rev", func(t *testing.T) {
		s := diag3(t)
		require.NoError(t, s.AssignRev(1, 0))
		r := s.Verify()
		require.True(t, r.Has(sparse.CodeRevDuplicate))
		require.NoError(t, s.AssignRev(1, 5))
		require.True(t, s.Verify().Has(sparse.CodeRevRange))
		rev := []uint64{0}
		s.SwapRev(&rev)
		require.True(t, s.Verify().Has(sparse.CodeRevLength))
	})
	t.Run("array count", func(t *testing.T) {
		s := diag3(t)
		var none [][]uint64
		s.SwapIndices(&none)
		r := s.Verify()
		require.True(t, r.Has(sparse.CodeArrayCount))
		require.Len(t, r.Diagnostics, 1)
	})
	t.Run("zero extent", func(t *testing.T) {
		s := diag3(t)
		require.NoError(t, s.ResizeDim(0, 0))
		require.True(t, s.Verify().Has(sparse.CodeExtent))
	})
	t.Run("orphan indices", func(t *testing.T) {
		s := diag3(t)
		require.NoError(t, s.ResizeIndices(0, 2))
		require.True(t, s.Verify().Has(sparse.CodeOrphanIndices))
	})
	t.Run("index range", func(t *testing.T) {
		s := diag3(t)
		idx, _ := s.Indices(1)
		idx[2] = 7
		r := s.Verify()
		require.True(t, r.Has(sparse.CodeIndexRange))
		require.False(t, r.Has(sparse.CodeSegmentOrder))
	})
	t.Run("segment order", func(t *testing.T) {
		s := mustStorage(t, []uint64{2, 3}, dc, csrEntries())
		idx, _ := s.Indices(1)
		idx[1], idx[2] = idx[2], idx[1]
		require.True(t, s.Verify().Has(sparse.CodeSegmentOrder))
	})
	t.Run("value count", func(t *testing.T) {
		s := diag3(t)
		require.NoError(t, s.ResizeValues(2))
		require.True(t, s.Verify().Has(sparse.CodeValueCount))

		d := mustStorage(t, []uint64{2, 3}, dd, nil)
		require.NoError(t, d.ResizeValues(7))
		require.True(t, d.Verify().Has(sparse.CodeValueCount))
	})
	t.Run("pointer length", func(t *testing.T) {
		s := diag3(t)
		require.NoError(t, s.ResizePointers(1, 3))
		require.True(t, s.Verify().Has(sparse.CodePointerLength))
	})
}

func TestVerify_HigherRankSoundness(t *testing.T) {
	t.Parallel()

	// dense,compressed,compressed with a single nonzero: valid, yet outside
	// the classic previous-pointer bound.
	lv := []sparse.DimLevelType{sparse.LevelDense, sparse.LevelCompressed, sparse.LevelCompressed}
	s := mustStorage(t, []uint64{3, 2, 2}, lv, []entry{{[]uint64{2, 1, 0}, 1}})
	require.True(t, s.Verify().OK(), "%v", s.Verify().Err())
	require.True(t, s.Verify(sparse.WithClassicBounds()).Has(sparse.CodeCrossDim))

	// compressed,dense,compressed with empty segments.
	lv = []sparse.DimLevelType{sparse.LevelCompressed, sparse.LevelDense, sparse.LevelCompressed}
	s = mustStorage(t, []uint64{2, 3, 2}, lv, []entry{{[]uint64{0, 0, 0}, 1}})
	require.True(t, s.Verify().OK(), "%v", s.Verify().Err())
}

func TestVerify_Logger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.AddSync(&buf), zapcore.WarnLevel)
	log := zap.New(core).Sugar()

	s := diag3(t)
	require.NoError(t, s.ResizeValues(1))
	require.False(t, s.Verify(sparse.WithVerifyLogger(log)).OK())
	require.Contains(t, buf.String(), "value-count")

	require.Panics(t, func() { sparse.WithVerifyLogger(nil) })
}
