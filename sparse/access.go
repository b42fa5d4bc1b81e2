// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - Read accessors over a Storage (extents, permutation, overhead arrays).
//  - Low-level mutators used by orchestration code: resize, O(1) swap of
//    owned arrays, deep duplication.
//
// Ownership:
//  - Pointers/Indices/Values return the live arrays (views); callers may
//    fill them in place after a Resize*, but must not retain them across a
//    Swap*.
//  - Mutators do not re-verify; call Verify after bulk edits.

package sparse

import "slices"

// Rank returns the number of dimensions.
func (s *Storage[P, I, V]) Rank() int { return len(s.sizes) }

// DimSize returns the extent of storage dimension d.
func (s *Storage[P, I, V]) DimSize(d int) (uint64, error) {
	if d < 0 || d >= len(s.sizes) {
		return 0, errorf("Storage.DimSize", ErrOutOfRange, "dim %d of %d", d, len(s.sizes))
	}

	return s.sizes[d], nil
}

// Sizes returns a copy of the storage-order extents.
func (s *Storage[P, I, V]) Sizes() []uint64 { return slices.Clone(s.sizes) }

// Rev returns a copy of rev (rev[storageDim] = originalDim).
func (s *Storage[P, I, V]) Rev() []uint64 { return slices.Clone(s.rev) }

// Levels derives the level annotation of every storage dimension.
func (s *Storage[P, I, V]) Levels() []DimLevelType {
	out := make([]DimLevelType, len(s.pointers))
	for d := range s.pointers {
		if len(s.pointers[d]) > 0 {
			out[d] = LevelCompressed
		}
	}

	return out
}

// IsCompressed reports whether storage dimension d carries overhead arrays.
func (s *Storage[P, I, V]) IsCompressed(d int) bool {
	return d >= 0 && d < len(s.pointers) && len(s.pointers[d]) > 0
}

// Pointers returns the live pointer array of dimension d (empty when dense).
func (s *Storage[P, I, V]) Pointers(d int) ([]P, error) {
	if d < 0 || d >= len(s.pointers) {
		return nil, errorf("Storage.Pointers", ErrOutOfRange, "dim %d of %d", d, len(s.pointers))
	}

	return s.pointers[d], nil
}

// Indices returns the live index array of dimension d (empty when dense).
func (s *Storage[P, I, V]) Indices(d int) ([]I, error) {
	if d < 0 || d >= len(s.indices) {
		return nil, errorf("Storage.Indices", ErrOutOfRange, "dim %d of %d", d, len(s.indices))
	}

	return s.indices[d], nil
}

// Values returns the live values array.
func (s *Storage[P, I, V]) Values() []V { return s.values }

// NumValues returns len(values).
func (s *Storage[P, I, V]) NumValues() int { return len(s.values) }

// Kind returns the runtime tag of this instantiation.
func (s *Storage[P, I, V]) Kind() Kind { return KindOf[P, I, V]() }

// AssignRev sets rev[d] = v. The result is not checked; see Verify.
func (s *Storage[P, I, V]) AssignRev(d int, v uint64) error {
	if d < 0 || d >= len(s.rev) {
		return errorf("Storage.AssignRev", ErrOutOfRange, "dim %d of %d", d, len(s.rev))
	}
	s.rev[d] = v

	return nil
}

// ResizePointers sets len(pointers[d]) = n; new entries are zero.
func (s *Storage[P, I, V]) ResizePointers(d, n int) error {
	if d < 0 || d >= len(s.pointers) {
		return errorf("Storage.ResizePointers", ErrOutOfRange, "dim %d of %d", d, len(s.pointers))
	}
	if n < 0 {
		return errorf("Storage.ResizePointers", ErrOutOfRange, "length %d", n)
	}
	s.pointers[d] = resize(s.pointers[d], n)

	return nil
}

// ResizeIndices sets len(indices[d]) = n; new entries are zero.
func (s *Storage[P, I, V]) ResizeIndices(d, n int) error {
	if d < 0 || d >= len(s.indices) {
		return errorf("Storage.ResizeIndices", ErrOutOfRange, "dim %d of %d", d, len(s.indices))
	}
	if n < 0 {
		return errorf("Storage.ResizeIndices", ErrOutOfRange, "length %d", n)
	}
	s.indices[d] = resize(s.indices[d], n)

	return nil
}

// ResizeValues sets len(values) = n; new entries are zero.
func (s *Storage[P, I, V]) ResizeValues(n int) error {
	if n < 0 {
		return errorf("Storage.ResizeValues", ErrOutOfRange, "length %d", n)
	}
	s.values = resize(s.values, n)

	return nil
}

// ResizeDim sets the extent of storage dimension d.
func (s *Storage[P, I, V]) ResizeDim(d int, size uint64) error {
	if d < 0 || d >= len(s.sizes) {
		return errorf("Storage.ResizeDim", ErrOutOfRange, "dim %d of %d", d, len(s.sizes))
	}
	s.sizes[d] = size

	return nil
}

// SwapRev exchanges rev with *other in O(1).
func (s *Storage[P, I, V]) SwapRev(other *[]uint64) { s.rev, *other = *other, s.rev }

// SwapSizes exchanges sizes with *other in O(1).
func (s *Storage[P, I, V]) SwapSizes(other *[]uint64) { s.sizes, *other = *other, s.sizes }

// SwapPointers exchanges the pointer arrays with *other in O(1).
func (s *Storage[P, I, V]) SwapPointers(other *[][]P) { s.pointers, *other = *other, s.pointers }

// SwapIndices exchanges the index arrays with *other in O(1).
func (s *Storage[P, I, V]) SwapIndices(other *[][]I) { s.indices, *other = *other, s.indices }

// SwapValues exchanges values with *other in O(1).
func (s *Storage[P, I, V]) SwapValues(other *[]V) { s.values, *other = *other, s.values }

// SwapField exchanges one owned array with another storage of the same kind.
//
// Errors: ErrTypeMismatch when other is not a *Storage[P, I, V];
// ErrOutOfRange for an unknown field.
func (s *Storage[P, I, V]) SwapField(other Tensor, f Field) error {
	o, ok := other.(*Storage[P, I, V])
	if !ok || o == nil {
		return errorf("Storage.SwapField", ErrTypeMismatch, "%s with %T", s.Kind(), other)
	}
	switch f {
	case FieldRev:
		s.SwapRev(&o.rev)
	case FieldSizes:
		s.SwapSizes(&o.sizes)
	case FieldPointers:
		s.SwapPointers(&o.pointers)
	case FieldIndices:
		s.SwapIndices(&o.indices)
	case FieldValues:
		s.SwapValues(&o.values)
	default:
		return errorf("Storage.SwapField", ErrOutOfRange, "%s", f)
	}

	return nil
}

// Dup returns an independent deep copy of every owned array.
func (s *Storage[P, I, V]) Dup() *Storage[P, I, V] {
	d := &Storage[P, I, V]{
		sizes:    slices.Clone(s.sizes),
		rev:      slices.Clone(s.rev),
		idx:      make([]uint64, len(s.sizes)),
		pointers: make([][]P, len(s.pointers)),
		indices:  make([][]I, len(s.indices)),
		values:   slices.Clone(s.values),
		logger:   s.logger,
	}
	for k := range s.pointers {
		d.pointers[k] = slices.Clone(s.pointers[k])
	}
	for k := range s.indices {
		d.indices[k] = slices.Clone(s.indices[k])
	}

	return d
}

// Clone is Dup behind the type-erased Tensor interface.
func (s *Storage[P, I, V]) Clone() Tensor { return s.Dup() }

// resize returns a with length n, keeping the prefix and zeroing growth.
func resize[T any](a []T, n int) []T {
	if n <= len(a) {
		return a[:n]
	}
	if n <= cap(a) {
		old := len(a)
		a = a[:n]
		clear(a[old:])
		return a
	}

	return append(a, make([]T, n-len(a))...)
}
