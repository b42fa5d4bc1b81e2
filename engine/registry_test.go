// SPDX-License-Identifier: MIT
package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/lvsparse/engine"
	"github.com/katalvlaran/lvsparse/sparse"
)

var dc = []sparse.DimLevelType{sparse.LevelDense, sparse.LevelCompressed}

// csr is the 2×3 matrix
//
//	| 1 0 0 |
//	| 0 5 3 |
var csr = []struct {
	idx []uint64
	val float64
}{
	{[]uint64{1, 2}, 3},
	{[]uint64{0, 0}, 1},
	{[]uint64{1, 1}, 5},
}

func f64Request(action engine.Action) engine.Request {
	return engine.Request{
		Levels:  dc,
		Sizes:   []uint64{2, 3},
		Pointer: sparse.OverheadU64,
		Index:   sparse.OverheadU64,
		Value:   sparse.PrimaryF64,
		Action:  action,
	}
}

// newCSR builds the csr tensor through an empty scheme and returns its handle.
func newCSR(t *testing.T, r *engine.Registry) engine.Handle {
	t.Helper()
	coo, err := r.New(f64Request(engine.ActionEmptyCOO))
	require.NoError(t, err)
	for _, e := range csr {
		require.NoError(t, engine.AddElement(r, coo, e.idx, e.val))
	}
	req := f64Request(engine.ActionFromCOO)
	req.Source = coo
	h, err := r.New(req)
	require.NoError(t, err)

	return h
}

func requireCSRLayout(t *testing.T, r *engine.Registry, h engine.Handle) {
	t.Helper()
	ptr, err := engine.Pointers[uint64](r, h, 1)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1, 3}, ptr.Data)
	require.Equal(t, 3, ptr.Size)
	require.Equal(t, 1, ptr.Stride)
	idx, err := engine.Indices[uint64](r, h, 1)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1, 2}, idx.Data)
	vals, err := engine.Values[float64](r, h)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 5, 3}, vals.Data)
}

func TestRegistry_FromCOOConsumesSource(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	coo, err := r.New(f64Request(engine.ActionEmptyCOO))
	require.NoError(t, err)
	for _, e := range csr {
		require.NoError(t, engine.AddElement(r, coo, e.idx, e.val))
	}
	n, err := r.Len(coo)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	req := f64Request(engine.ActionFromCOO)
	req.Source = coo
	h, err := r.New(req)
	require.NoError(t, err)
	requireCSRLayout(t, r, h)

	_, err = r.Len(coo)
	require.ErrorIs(t, err, engine.ErrUnknownHandle)
	require.Equal(t, 1, r.Count())

	rep, err := r.Verify(h)
	require.NoError(t, err)
	require.True(t, rep.OK())
}

func TestRegistry_FromCOOFailureKeepsSource(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	coo, err := r.New(f64Request(engine.ActionEmptyCOO))
	require.NoError(t, err)
	require.NoError(t, engine.AddElement(r, coo, []uint64{1, 1}, 2.0))

	req := f64Request(engine.ActionFromCOO)
	req.Source = coo
	req.Sizes = []uint64{2, 4}
	_, err = r.New(req)
	require.ErrorIs(t, err, sparse.ErrSizeMismatch)

	n, err := r.Len(coo)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	req.Value = sparse.PrimaryF32
	_, err = r.New(req)
	require.ErrorIs(t, err, engine.ErrTypeMismatch)
}

func TestRegistry_LexInsertAndEndInsert(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	h, err := r.New(f64Request(engine.ActionEmpty))
	require.NoError(t, err)

	for _, c := range [][]uint64{{0, 0}, {1, 1}, {1, 2}} {
		v := map[uint64]float64{0: 1, 1: 5, 2: 3}[c[1]]
		require.NoError(t, engine.LexInsert(r, h, c, v))
	}
	require.ErrorIs(t, engine.LexInsert(r, h, []uint64{0, 1}, 1.0), sparse.ErrNonLexicographic)
	n, err := r.Len(h)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = engine.Values[float64](r, h)
	require.ErrorIs(t, err, engine.ErrWrongState)

	require.NoError(t, r.EndInsert(h))
	requireCSRLayout(t, r, h)

	require.ErrorIs(t, r.EndInsert(h), engine.ErrWrongState)
	require.ErrorIs(t, engine.LexInsert(r, h, []uint64{1, 2}, 1.0), engine.ErrWrongState)
}

func TestRegistry_ExpInsert(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	h, err := r.New(f64Request(engine.ActionEmpty))
	require.NoError(t, err)

	values := make([]float64, 3)
	filled := make([]bool, 3)
	values[0], filled[0] = 1, true
	require.NoError(t, engine.ExpInsert(r, h, []uint64{0, 0}, values, filled, []uint64{0}))
	values[2], filled[2] = 3, true
	values[1], filled[1] = 5, true
	require.NoError(t, engine.ExpInsert(r, h, []uint64{1, 0}, values, filled, []uint64{2, 1}))
	require.Equal(t, []bool{false, false, false}, filled)

	require.ErrorIs(t, engine.ExpInsert(r, h, []uint64{1, 0}, values, filled, []uint64{0}), sparse.ErrNotFilled)
	require.ErrorIs(t, engine.ExpInsert[float32](r, h, []uint64{1, 0}, nil, nil, []uint64{0}), engine.ErrTypeMismatch)

	require.NoError(t, r.EndInsert(h))
	requireCSRLayout(t, r, h)
}

func TestRegistry_IteratorReleasesOnExhaustion(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	h := newCSR(t, r)

	req := f64Request(engine.ActionToIterator)
	req.Source = h
	it, err := r.New(req)
	require.NoError(t, err)

	require.ErrorIs(t, engine.AddElement(r, it, []uint64{0, 1}, 1.0), sparse.ErrIteratorLocked)

	var got []sparse.Element[float64]
	for {
		el, ok, err := engine.GetNext[float64](r, it)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, el)
	}
	require.Equal(t, []sparse.Element[float64]{
		{Indices: []uint64{0, 0}, Value: 1},
		{Indices: []uint64{1, 1}, Value: 5},
		{Indices: []uint64{1, 2}, Value: 3},
	}, got)

	_, _, err = engine.GetNext[float64](r, it)
	require.ErrorIs(t, err, engine.ErrUnknownHandle)
	_, err = r.Tensor(h)
	require.NoError(t, err)
}

func TestRegistry_ToCOOPermuted(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	h := newCSR(t, r)

	req := f64Request(engine.ActionToCOO)
	req.Source = h
	req.Perm = []uint64{1, 0}
	coo, err := r.New(req)
	require.NoError(t, err)

	rank, err := r.Rank(coo)
	require.NoError(t, err)
	require.Equal(t, 2, rank)
	sz, err := r.DimSize(coo, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(3), sz)
	_, err = r.DimSize(coo, 2)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)

	_, _, err = engine.GetNext[float64](r, coo)
	require.ErrorIs(t, err, engine.ErrWrongState)

	// Repack the transposed scheme as CSC.
	back := f64Request(engine.ActionFromCOO)
	back.Source = coo
	back.Perm = []uint64{1, 0}
	csc, err := r.New(back)
	require.NoError(t, err)
	dense, err := engine.ToDense[float64](r, csc)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 0, 0, 5, 3}, dense)
}

func TestRegistry_FromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "m.mtx")
	require.NoError(t, os.WriteFile(path, []byte(
		"%%MatrixMarket matrix coordinate real general\n2 3 3\n1 1 1\n2 3 3\n2 2 5\n"), 0o600))

	r := engine.NewRegistry()
	req := f64Request(engine.ActionFromFile)
	req.Path = path
	req.Sizes = []uint64{0, 3}
	h, err := r.New(req)
	require.NoError(t, err)
	requireCSRLayout(t, r, h)

	req.Path = ""
	_, err = r.New(req)
	require.ErrorIs(t, err, engine.ErrMissingPath)
}

func TestRegistry_FromFileDenseBound(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "big.mtx")
	require.NoError(t, os.WriteFile(path, []byte(
		"%%MatrixMarket matrix coordinate real general\n100000 100000 1\n1 1 1\n"), 0o600))

	r := engine.NewRegistry()
	req := f64Request(engine.ActionFromFile)
	req.Path = path
	req.Levels = []sparse.DimLevelType{sparse.LevelDense, sparse.LevelDense}
	_, err := r.New(req)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)

	req.Levels = dc
	h, err := r.New(req)
	require.NoError(t, err)
	vals, err := engine.Values[float64](r, h)
	require.NoError(t, err)
	require.Equal(t, 1, vals.Size)
}

func TestRegistry_EmptyAllDense(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	req := f64Request(engine.ActionEmpty)
	req.Levels = []sparse.DimLevelType{sparse.LevelDense, sparse.LevelDense}
	h, err := r.New(req)
	require.NoError(t, err)

	vals, err := engine.Values[float64](r, h)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0, 0, 0, 0}, vals.Data)
	vals.Data[4] = 5

	dense, err := engine.ToDense[float64](r, h)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0, 0, 5, 0}, dense)

	require.ErrorIs(t, r.EndInsert(h), engine.ErrWrongState)
	require.ErrorIs(t, engine.LexInsert(r, h, []uint64{0, 0}, 1.0), engine.ErrWrongState)
}

func TestRegistry_KindErrors(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	req := f64Request(engine.ActionEmpty)
	req.Value = sparse.PrimaryI64
	req.Index = sparse.OverheadU32
	_, err := r.New(req)
	require.ErrorIs(t, err, sparse.ErrUnsupportedKind)

	req = f64Request(engine.Action(42))
	_, err = r.New(req)
	require.ErrorIs(t, err, engine.ErrUnknownAction)

	h := newCSR(t, r)
	_, err = engine.Values[float32](r, h)
	require.ErrorIs(t, err, engine.ErrTypeMismatch)
	_, err = engine.Pointers[uint32](r, h, 1)
	require.ErrorIs(t, err, engine.ErrTypeMismatch)
	_, err = engine.Indices[uint8](r, h, 1)
	require.ErrorIs(t, err, engine.ErrTypeMismatch)
	_, err = engine.Pointers[uint64](r, h, 5)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)

	toCOO := f64Request(engine.ActionToCOO)
	toCOO.Source = h
	toCOO.Index = sparse.OverheadU32
	_, err = r.New(toCOO)
	require.ErrorIs(t, err, engine.ErrTypeMismatch)
}

func TestRegistry_NarrowKind(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	req := engine.Request{
		Levels:  []sparse.DimLevelType{sparse.LevelCompressed, sparse.LevelCompressed},
		Sizes:   []uint64{4, 4},
		Pointer: sparse.OverheadU16,
		Index:   sparse.OverheadU16,
		Value:   sparse.PrimaryI32,
		Action:  engine.ActionEmpty,
	}
	h, err := r.New(req)
	require.NoError(t, err)
	require.NoError(t, engine.LexInsert(r, h, []uint64{0, 3}, int32(7)))
	require.NoError(t, engine.LexInsert(r, h, []uint64{2, 1}, int32(-2)))
	require.NoError(t, r.EndInsert(h))

	k, err := r.Kind(h)
	require.NoError(t, err)
	require.Equal(t, sparse.Kind{Pointer: sparse.OverheadU16, Index: sparse.OverheadU16, Value: sparse.PrimaryI32}, k)

	ptr, err := engine.Pointers[uint16](r, h, 0)
	require.NoError(t, err)
	require.Equal(t, []uint16{0, 2}, ptr.Data)
	idx, err := engine.Indices[uint16](r, h, 1)
	require.NoError(t, err)
	require.Equal(t, []uint16{3, 1}, idx.Data)
	vals, err := engine.Values[int32](r, h)
	require.NoError(t, err)
	require.Equal(t, []int32{7, -2}, vals.Data)
}

func TestRegistry_DupReleaseSwap(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	a := newCSR(t, r)
	b, err := r.Dup(a)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	// Mutating the duplicate leaves the original intact.
	vals, err := engine.Values[float64](r, b)
	require.NoError(t, err)
	vals.Data[0] = 42
	orig, err := engine.Values[float64](r, a)
	require.NoError(t, err)
	require.Equal(t, 1.0, orig.Data[0])

	require.NoError(t, r.Swap(a, b, sparse.FieldValues))
	orig, err = engine.Values[float64](r, a)
	require.NoError(t, err)
	require.Equal(t, 42.0, orig.Data[0])
	require.NoError(t, r.Swap(a, a, sparse.FieldValues))

	require.NoError(t, r.Release(b))
	require.ErrorIs(t, r.Release(b), engine.ErrUnknownHandle)
	require.ErrorIs(t, r.Swap(a, b, sparse.FieldValues), engine.ErrUnknownHandle)
	_, err = r.Dup(engine.NilHandle)
	require.ErrorIs(t, err, engine.ErrUnknownHandle)
}

func TestRegistry_MutationsReachVerifier(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	h := newCSR(t, r)

	require.NoError(t, r.ResizeIndices(h, 1, 2))
	rep, err := r.Verify(h)
	require.NoError(t, err)
	require.False(t, rep.OK())
	require.True(t, rep.Has(sparse.CodePointerLast))

	require.NoError(t, r.ResizeIndices(h, 1, 3))
	require.NoError(t, r.ResizeValues(h, 3))
	require.NoError(t, r.AssignRev(h, 0, 0))
	require.NoError(t, r.ResizePointers(h, 1, 3))
	require.NoError(t, r.ResizeDim(h, 1, 3))
	rep, err = r.Verify(h)
	require.NoError(t, err)
	require.False(t, rep.OK())

	coo, err := r.New(f64Request(engine.ActionEmptyCOO))
	require.NoError(t, err)
	_, err = r.Verify(coo)
	require.ErrorIs(t, err, engine.ErrWrongState)
	require.ErrorIs(t, r.ResizeValues(coo, 1), engine.ErrWrongState)
}

func TestRegistry_FlatConversion(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	h, err := r.ConvertToSparse([]uint64{2, 3}, []float64{1, 5, 3}, []uint64{0, 0, 1, 1, 1, 2})
	require.NoError(t, err)

	f, err := r.ConvertFromSparse(h)
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 3}, f.Shape)
	require.Equal(t, []float64{1, 5, 3}, f.Values)
	require.Equal(t, []uint64{0, 0, 1, 1, 1, 2}, f.Indices)

	_, err = r.ConvertToSparse([]uint64{2, 3}, []float64{1}, []uint64{0})
	require.ErrorIs(t, err, sparse.ErrDimensionMismatch)

	narrow, err := r.New(engine.Request{
		Levels: dc, Sizes: []uint64{2, 3}, Value: sparse.PrimaryF32, Action: engine.ActionEmpty,
	})
	require.NoError(t, err)
	require.NoError(t, r.EndInsert(narrow))
	_, err = r.ConvertFromSparse(narrow)
	require.ErrorIs(t, err, engine.ErrTypeMismatch)
}

func TestRegistry_HandleText(t *testing.T) {
	t.Parallel()

	r := engine.NewRegistry()
	h := newCSR(t, r)
	parsed, err := engine.ParseHandle(h.String())
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	_, err = engine.ParseHandle("not-a-uuid")
	require.Error(t, err)
	require.Equal(t, "to-iterator", engine.ActionToIterator.String())
}

func TestRegistry_Logging(t *testing.T) {
	t.Parallel()

	obs, logs := observer.New(zapcore.DebugLevel)
	r := engine.NewRegistry(engine.WithLogger(zap.New(obs).Sugar()))
	h := newCSR(t, r)
	require.NoError(t, r.Release(h))

	require.Equal(t, 2, logs.FilterMessage("handle created").Len())
	require.Equal(t, 1, logs.FilterMessage("handle released").Len())
	require.Panics(t, func() { engine.WithLogger(nil) })
}
