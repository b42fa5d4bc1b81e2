// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - FromCOO: pack a coordinate scheme into Storage[P, I, V].
//  - ToCOO:   unpack a Storage back into a coordinate scheme.
//
// Algorithm (FromCOO):
//  Stage 1 (Validate): layout, optional declared extents, overhead widths.
//  Stage 2 (Sort):     lexicographic, stable (first duplicate wins).
//  Stage 3 (Segment):  recursively split [lo,hi) by the coordinate of
//                      dimension d. Compressed d records the coordinate and
//                      closes its segment; dense d pads skipped coordinates
//                      with empty sub-structures (endDim).
//  Stage 4 (Release):  the scheme is consumed.
//
// Complexity:
//  - O(n log n · rank) for the sort, O(n · rank + dense padding) to pack.
//
// AI-Hints:
//  - COO coordinates are in storage order: build the scheme with
//    NewPermutedCOO(sizes, perm) and FromCOO(coo, perm, ...) with the same perm.

package sparse

import "slices"

// FromCOO packs coo into a new storage. The scheme's extents are taken as the
// storage-order extents; perm maps original to storage dimensions and
// levels annotates storage dimensions. On success the scheme is released.
//
// Errors: ErrReleased, ErrIteratorLocked, ErrRankMismatch, ErrBadPermutation,
// ErrUnsupportedLevel, ErrSizeMismatch, ErrUnsupportedKind, ErrOverheadOverflow,
// ErrOutOfRange (a dense run above MaxDenseElements).
func FromCOO[P, I Overhead, V Value](coo *COO[V], perm []uint64, levels []DimLevelType, opts ...Option) (*Storage[P, I, V], error) {
	const op = "FromCOO"
	if coo == nil || coo.released {
		return nil, errorf(op, ErrReleased, "")
	}
	if coo.locked {
		return nil, errorf(op, ErrIteratorLocked, "")
	}
	o := gatherOptions(opts...)
	if err := ValidatePermutation(perm, coo.Rank()); err != nil {
		return nil, errorf(op, err, "")
	}
	if o.sizes != nil {
		if len(o.sizes) != coo.Rank() {
			return nil, errorf(op, ErrRankMismatch, "declared %d extents, rank %d", len(o.sizes), coo.Rank())
		}
		for r, sz := range o.sizes {
			if sz != 0 && coo.sizes[perm[r]] != sz {
				return nil, errorf(op, ErrSizeMismatch, "dim %d: declared %d, scheme %d", r, sz, coo.sizes[perm[r]])
			}
		}
	}
	s, err := newStorage[P, I, V](coo.sizes, perm, levels, o)
	if err != nil {
		return nil, errorf(op, err, "")
	}
	if err = coo.Sort(); err != nil {
		return nil, errorf(op, err, "")
	}
	elems := coo.elements
	s.values = make([]V, 0, len(elems))
	s.fromCOO(elems, 0, len(elems), 0)
	if err = s.checkOverflow(op); err != nil {
		return nil, err
	}
	coo.release()
	s.logger.Debugw("packed coordinate scheme", "kind", KindOf[P, I, V](), "rank", len(s.sizes), "elements", len(elems), "values", len(s.values))

	return s, nil
}

// fromCOO packs the sorted elements [lo,hi) that share coordinates 0..d-1.
func (s *Storage[P, I, V]) fromCOO(elems []Element[V], lo, hi, d int) {
	if d == len(s.sizes) {
		// Leaf: duplicates collapse onto the first occurrence.
		s.values = append(s.values, elems[lo].Value)
		return
	}
	compressed := len(s.pointers[d]) > 0
	full := uint64(0)
	for lo < hi {
		i := elems[lo].Indices[d]
		seg := lo + 1
		for seg < hi && elems[seg].Indices[d] == i {
			seg++
		}
		if compressed {
			s.pushIndex(d, i)
		} else {
			for ; full < i; full++ {
				s.endDim(d + 1)
			}
			full++
		}
		s.fromCOO(elems, lo, seg, d+1)
		lo = seg
	}
	if compressed {
		s.pushPointer(d, len(s.indices[d]))
		return
	}
	for ; full < s.sizes[d]; full++ {
		s.endDim(d + 1)
	}
}

// endDim appends an empty sub-structure rooted at dimension d: a zero value
// at the leaf, an empty segment when compressed, sizes[d] empty children
// when dense.
func (s *Storage[P, I, V]) endDim(d int) {
	if d == len(s.sizes) {
		var zero V
		s.values = append(s.values, zero)
		return
	}
	if len(s.pointers[d]) > 0 {
		s.pushPointer(d, len(s.indices[d]))
		return
	}
	for full := uint64(0); full < s.sizes[d]; full++ {
		s.endDim(d + 1)
	}
}

// ToCOO unpacks the storage into a new coordinate scheme whose coordinates
// are ordered by perm (perm[originalDim] = schemeDim). With the identity
// permutation the scheme uses the original dimension order and is sorted.
//
// Errors: ErrRankMismatch, ErrBadPermutation, ErrCorrupt (malformed arrays),
// ErrInternal (element count differs from the number of values).
// Complexity: O(len(values) · rank).
func (s *Storage[P, I, V]) ToCOO(perm []uint64) (*COO[V], error) {
	const op = "Storage.ToCOO"
	rank := len(s.sizes)
	if err := ValidatePermutation(perm, rank); err != nil {
		return nil, errorf(op, err, "")
	}
	if err := s.checkArrays(); err != nil {
		return nil, errorf(op, err, "")
	}
	orgsz := make([]uint64, rank)
	for r := 0; r < rank; r++ {
		orgsz[s.rev[r]] = s.sizes[r]
	}
	coo, err := NewPermutedCOO[V](orgsz, perm, WithCapacity(len(s.values)))
	if err != nil {
		return nil, errorf(op, err, "")
	}
	// Composed permutation storage → target, computed once.
	reord := make([]uint64, rank)
	for r := 0; r < rank; r++ {
		reord[r] = perm[s.rev[r]]
	}
	err = s.walk(reord, func(cur []uint64, v V) {
		coo.pushTrusted(slices.Clone(cur), v)
	})
	if err != nil {
		return nil, errorf(op, err, "")
	}
	if coo.Len() != len(s.values) {
		return nil, errorf(op, ErrInternal, "%d elements for %d values", coo.Len(), len(s.values))
	}
	coo.sorted = isIdentity(reord)

	return coo, nil
}

// checkArrays guards traversals against storages whose arrays were swapped
// or resized into an inconsistent shape.
func (s *Storage[P, I, V]) checkArrays() error {
	rank := len(s.sizes)
	if len(s.pointers) != rank || len(s.indices) != rank {
		return errorf("checkArrays", ErrCorrupt, "%d pointer and %d index arrays for rank %d", len(s.pointers), len(s.indices), rank)
	}
	if err := ValidatePermutation(s.rev, rank); err != nil {
		return errorf("checkArrays", ErrCorrupt, "rev: %v", err)
	}

	return nil
}

// walk visits every stored leaf in storage order. cur holds the leaf's
// coordinate with storage dimension d written at cur[reord[d]]; it is
// reused between calls.
func (s *Storage[P, I, V]) walk(reord []uint64, visit func(cur []uint64, v V)) error {
	cur := make([]uint64, len(s.sizes))
	return s.walkFrom(reord, cur, 0, 0, visit)
}

func (s *Storage[P, I, V]) walkFrom(reord, cur []uint64, pos uint64, d int, visit func([]uint64, V)) error {
	if d == len(s.sizes) {
		if pos >= uint64(len(s.values)) {
			return errorf("walk", ErrCorrupt, "value position %d of %d", pos, len(s.values))
		}
		visit(cur, s.values[pos])
		return nil
	}
	if ptr := s.pointers[d]; len(ptr) > 0 {
		if pos+1 >= uint64(len(ptr)) {
			return errorf("walk", ErrCorrupt, "dim %d: segment %d of %d pointers", d, pos, len(ptr))
		}
		lo, hi := uint64(ptr[pos]), uint64(ptr[pos+1])
		if lo > hi || hi > uint64(len(s.indices[d])) {
			return errorf("walk", ErrCorrupt, "dim %d: segment [%d,%d) of %d indices", d, lo, hi, len(s.indices[d]))
		}
		for ii := lo; ii < hi; ii++ {
			i := uint64(s.indices[d][ii])
			if i >= s.sizes[d] {
				return errorf("walk", ErrCorrupt, "dim %d: index %d >= %d", d, i, s.sizes[d])
			}
			cur[reord[d]] = i
			if err := s.walkFrom(reord, cur, ii, d+1, visit); err != nil {
				return err
			}
		}
		return nil
	}
	sz := s.sizes[d]
	off := pos * sz
	for i := uint64(0); i < sz; i++ {
		cur[reord[d]] = i
		if err := s.walkFrom(reord, cur, off+i, d+1, visit); err != nil {
			return err
		}
	}

	return nil
}
