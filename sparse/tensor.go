// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - Tensor: the type-erased view of any Storage[P, I, V], for callers that
//    select the instantiation at runtime from a Kind.
//  - Runtime dispatch from Kind to the generic constructors.
//
// Dispatch:
//  Stage 1: the caller fixes V (it owns typed values, e.g. a COO[V]).
//  Stage 2: factoryFor[V] switches on the pointer width, then indexFactory
//           on the index width, yielding impl[P, I, V].
//  Restore switches on the value type first.
//
// AI-Hints:
//  - Type-assert a Tensor to Typed[V], PointerSource[P] or IndexSource[I]
//    to reach the typed arrays without knowing the other parameters.

package sparse

// Tensor is the type-erased surface of a packed storage.
type Tensor interface {
	Kind() Kind
	Rank() int
	DimSize(d int) (uint64, error)
	Sizes() []uint64
	Rev() []uint64
	Levels() []DimLevelType
	IsCompressed(d int) bool
	NumValues() int
	Verify(opts ...VerifyOption) *Report
	AssignRev(d int, v uint64) error
	ResizePointers(d, n int) error
	ResizeIndices(d, n int) error
	ResizeValues(n int) error
	ResizeDim(d int, size uint64) error
	SwapField(other Tensor, f Field) error
	Clone() Tensor
	Snapshot() Snapshot
}

// Typed is implemented by every storage whose value type is V.
type Typed[V Value] interface {
	Tensor
	Values() []V
	ToCOO(perm []uint64) (*COO[V], error)
	ToDense() ([]V, error)
	ToFlat() (Flat[V], error)
}

// PointerSource is implemented by every storage whose pointer type is P.
type PointerSource[P Overhead] interface {
	Pointers(d int) ([]P, error)
}

// IndexSource is implemented by every storage whose index type is I.
type IndexSource[I Overhead] interface {
	Indices(d int) ([]I, error)
}

// Builder is the type-erased surface of an Inserter with value type V.
type Builder[V Value] interface {
	Kind() Kind
	Rank() int
	Sizes() []uint64
	Len() int
	Insert(cursor []uint64, v V) error
	Expand(cursor []uint64, values []V, filled []bool, added []uint64) error
	FinishTensor() (Tensor, error)
}

// Kind returns the runtime tag of the storage being built.
func (in *Inserter[P, I, V]) Kind() Kind { return KindOf[P, I, V]() }

// FinishTensor is Finish behind the Builder interface.
func (in *Inserter[P, I, V]) FinishTensor() (Tensor, error) {
	s, err := in.Finish()
	if err != nil {
		return nil, err
	}

	return s, nil
}

// NewTensor packs coo into the storage instantiation named by k.
//
// Errors: ErrUnsupportedKind, ErrTypeMismatch (k.Value is not V), plus
// every FromCOO error.
func NewTensor[V Value](coo *COO[V], perm []uint64, levels []DimLevelType, k Kind, opts ...Option) (Tensor, error) {
	f, err := factoryFor[V](k)
	if err != nil {
		return nil, errorf("NewTensor", err, "")
	}

	return f.fromCOO(coo, perm, levels, opts)
}

// NewBuilder opens an Inserter for the storage instantiation named by k.
//
// Errors: ErrUnsupportedKind, ErrTypeMismatch, plus every NewInserter error.
func NewBuilder[V Value](sizes, perm []uint64, levels []DimLevelType, k Kind, opts ...Option) (Builder[V], error) {
	f, err := factoryFor[V](k)
	if err != nil {
		return nil, errorf("NewBuilder", err, "")
	}

	return f.builder(sizes, perm, levels, opts)
}

// factory builds one (P, I) instantiation for a fixed V.
type factory[V Value] interface {
	fromCOO(coo *COO[V], perm []uint64, levels []DimLevelType, opts []Option) (Tensor, error)
	builder(sizes, perm []uint64, levels []DimLevelType, opts []Option) (Builder[V], error)
	restore(snap Snapshot) (Tensor, error)
}

type impl[P, I Overhead, V Value] struct{}

func (impl[P, I, V]) fromCOO(coo *COO[V], perm []uint64, levels []DimLevelType, opts []Option) (Tensor, error) {
	s, err := FromCOO[P, I, V](coo, perm, levels, opts...)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (impl[P, I, V]) builder(sizes, perm []uint64, levels []DimLevelType, opts []Option) (Builder[V], error) {
	in, err := NewInserter[P, I, V](sizes, perm, levels, opts...)
	if err != nil {
		return nil, err
	}

	return in, nil
}

func (impl[P, I, V]) restore(snap Snapshot) (Tensor, error) {
	s, err := restore[P, I, V](snap)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// factoryFor selects the (P, I) instantiation of k for value type V.
func factoryFor[V Value](k Kind) (factory[V], error) {
	if !Supported(k) {
		return nil, errorf("factoryFor", ErrUnsupportedKind, "%s", k)
	}
	if k.Value != primaryTypeOf[V]() {
		return nil, errorf("factoryFor", ErrTypeMismatch, "kind %s, values %s", k, primaryTypeOf[V]())
	}
	switch k.Pointer.Normalize() {
	case OverheadU64:
		return indexFactory[uint64, V](k.Index), nil
	case OverheadU32:
		return indexFactory[uint32, V](k.Index), nil
	case OverheadU16:
		return indexFactory[uint16, V](k.Index), nil
	default:
		return indexFactory[uint8, V](k.Index), nil
	}
}

func indexFactory[P Overhead, V Value](t OverheadType) factory[V] {
	switch t.Normalize() {
	case OverheadU64:
		return impl[P, uint64, V]{}
	case OverheadU32:
		return impl[P, uint32, V]{}
	case OverheadU16:
		return impl[P, uint16, V]{}
	default:
		return impl[P, uint8, V]{}
	}
}
