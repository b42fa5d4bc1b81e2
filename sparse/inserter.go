// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - Inserter[P, I, V]: build a Storage directly, without an intermediate
//    coordinate scheme, from coordinates supplied in strictly increasing
//    lexicographic (storage) order.
//
// Protocol:
//  Stage 1 (Insert/Expand): any mix of single insertions and expanded
//           insertions (one row of a dense scratch buffer at a time).
//  Stage 2 (Finish): closes every open segment and hands over the Storage.
//           The Inserter is unusable afterwards.
//
// Invariants:
//  - The last inserted coordinate lives in the storage's scratch cursor.
//  - On a validation error nothing is mutated.
//
// Complexity:
//  - Insert: O(rank + dense padding). Expand: O(k log k + rank + padding)
//    for k added positions.

package sparse

import "slices"

// Inserter is the stateful builder of the lexicographic and expanded
// insertion protocols.
type Inserter[P, I Overhead, V Value] struct {
	s        *Storage[P, I, V]
	n        int // number of inserted elements
	finished bool
	scratch  []uint64
}

// NewInserter prepares an empty storage. sizes are in original dimension
// order and are permuted internally; levels annotate storage dimensions.
//
// Errors: ErrBadRank, ErrBadShape, ErrRankMismatch, ErrBadPermutation,
// ErrUnsupportedLevel, ErrUnsupportedKind, ErrOverheadOverflow, ErrOutOfRange.
func NewInserter[P, I Overhead, V Value](sizes, perm []uint64, levels []DimLevelType, opts ...Option) (*Inserter[P, I, V], error) {
	const op = "NewInserter"
	if err := ValidateShape(sizes); err != nil {
		return nil, errorf(op, err, "")
	}
	if err := ValidatePermutation(perm, len(sizes)); err != nil {
		return nil, errorf(op, err, "")
	}
	permsz := make([]uint64, len(sizes))
	for r, sz := range sizes {
		permsz[perm[r]] = sz
	}
	s, err := newStorage[P, I, V](permsz, perm, levels, gatherOptions(opts...))
	if err != nil {
		return nil, errorf(op, err, "")
	}

	return &Inserter[P, I, V]{s: s, scratch: make([]uint64, len(sizes))}, nil
}

// Rank returns the number of dimensions.
func (in *Inserter[P, I, V]) Rank() int { return len(in.s.sizes) }

// Sizes returns a copy of the storage-order extents.
func (in *Inserter[P, I, V]) Sizes() []uint64 { return slices.Clone(in.s.sizes) }

// Len returns the number of inserted elements.
func (in *Inserter[P, I, V]) Len() int { return in.n }

// Insert adds one element at cursor (storage order). The cursor must be
// strictly greater than the previous one.
//
// Errors: ErrFinished, ErrRankMismatch, ErrOutOfRange, ErrNonLexicographic,
// ErrDuplicate, ErrOverheadOverflow.
func (in *Inserter[P, I, V]) Insert(cursor []uint64, v V) error {
	const op = "Inserter.Insert"
	if in.finished {
		return errorf(op, ErrFinished, "")
	}
	if err := ValidateCursor(cursor, in.s.sizes); err != nil {
		return errorf(op, err, "")
	}
	diff, err := in.lexDiff(cursor)
	if err != nil {
		return errorf(op, err, "")
	}
	in.s.lexInsert(cursor, v, diff, in.n > 0)
	in.n++

	return in.poisonOnOverflow(op)
}

// Expand inserts every position listed in added, for the coordinate prefix
// cursor[0:rank-1], taking values from the dense row buffer values. The
// buffers span the last storage dimension. added is sorted in place;
// every consumed position is reset (values[k] = 0, filled[k] = false).
// An empty added is a no-op.
//
// Errors: ErrFinished, ErrRankMismatch, ErrOutOfRange, ErrDimensionMismatch,
// ErrNotFilled, ErrDuplicate, ErrNonLexicographic, ErrOverheadOverflow.
func (in *Inserter[P, I, V]) Expand(cursor []uint64, values []V, filled []bool, added []uint64) error {
	const op = "Inserter.Expand"
	if in.finished {
		return errorf(op, ErrFinished, "")
	}
	if len(added) == 0 {
		return nil
	}
	rank := len(in.s.sizes)
	last := rank - 1
	if len(cursor) != rank {
		return errorf(op, ErrRankMismatch, "len %d, rank %d", len(cursor), rank)
	}
	for d := 0; d < last; d++ {
		if cursor[d] >= in.s.sizes[d] {
			return errorf(op, ErrOutOfRange, "dim %d: %d >= %d", d, cursor[d], in.s.sizes[d])
		}
	}
	if len(values) != len(filled) || uint64(len(values)) != in.s.sizes[last] {
		return errorf(op, ErrDimensionMismatch, "values %d, filled %d, extent %d", len(values), len(filled), in.s.sizes[last])
	}
	slices.Sort(added)
	for k, a := range added {
		if a >= in.s.sizes[last] {
			return errorf(op, ErrOutOfRange, "added %d >= %d", a, in.s.sizes[last])
		}
		if k > 0 && a == added[k-1] {
			return errorf(op, ErrDuplicate, "added %d", a)
		}
		if !filled[a] {
			return errorf(op, ErrNotFilled, "added %d", a)
		}
	}
	copy(in.scratch, cursor)
	in.scratch[last] = added[0]
	diff, err := in.lexDiff(in.scratch)
	if err != nil {
		return errorf(op, err, "")
	}

	// One full insertion, then fast openings in the last dimension only.
	in.s.lexInsert(in.scratch, values[added[0]], diff, in.n > 0)
	for k := 1; k < len(added); k++ {
		in.scratch[last] = added[k]
		in.s.insPath(in.scratch, last, added[k-1]+1, values[added[k]])
	}
	var zero V
	for _, a := range added {
		values[a] = zero
		filled[a] = false
	}
	in.n += len(added)

	return in.poisonOnOverflow(op)
}

// Finish closes every open segment and returns the storage. With no
// insertions the result is all zero (dense) or all empty (compressed).
//
// Errors: ErrFinished, ErrOverheadOverflow.
func (in *Inserter[P, I, V]) Finish() (*Storage[P, I, V], error) {
	const op = "Inserter.Finish"
	if in.finished {
		return nil, errorf(op, ErrFinished, "")
	}
	in.finished = true
	if in.n == 0 {
		in.s.endDim(0)
	} else {
		in.s.endPath(0)
	}
	if err := in.s.checkOverflow(op); err != nil {
		return nil, err
	}
	s := in.s
	in.s = nil
	s.logger.Debugw("finished insertion", "kind", KindOf[P, I, V](), "inserted", in.n, "values", len(s.values))

	return s, nil
}

// lexDiff returns the first dimension where cursor differs from the last
// insertion (0 before the first insertion).
func (in *Inserter[P, I, V]) lexDiff(cursor []uint64) (int, error) {
	if in.n == 0 {
		return 0, nil
	}
	for d, c := range cursor {
		switch {
		case c > in.s.idx[d]:
			return d, nil
		case c < in.s.idx[d]:
			return 0, errorf("lexDiff", ErrNonLexicographic, "dim %d: %d < %d", d, c, in.s.idx[d])
		}
	}

	return 0, errorf("lexDiff", ErrDuplicate, "%v", cursor)
}

// poisonOnOverflow finishes the inserter when a pointer no longer fits P.
func (in *Inserter[P, I, V]) poisonOnOverflow(op string) error {
	if err := in.s.checkOverflow(op); err != nil {
		in.finished = true
		return err
	}

	return nil
}

// lexInsert closes the path below diff (when something was inserted) and
// opens the path of cursor from diff down.
func (s *Storage[P, I, V]) lexInsert(cursor []uint64, v V, diff int, started bool) {
	top := uint64(0)
	if started {
		s.endPath(diff + 1)
		top = s.idx[diff] + 1
	}
	s.insPath(cursor, diff, top, v)
}

// endPath closes the open segments of dimensions rank-1 down to diff.
func (s *Storage[P, I, V]) endPath(diff int) {
	for d := len(s.sizes) - 1; d >= diff; d-- {
		if len(s.pointers[d]) > 0 {
			s.pushPointer(d, len(s.indices[d]))
			continue
		}
		for full := s.idx[d] + 1; full < s.sizes[d]; full++ {
			s.endDim(d + 1)
		}
	}
}

// insPath opens the path to cursor from dimension diff down, padding dense
// dimensions from top, and appends v.
func (s *Storage[P, I, V]) insPath(cursor []uint64, diff int, top uint64, v V) {
	for d := diff; d < len(s.sizes); d++ {
		i := cursor[d]
		if len(s.pointers[d]) > 0 {
			s.pushIndex(d, i)
		} else {
			for full := top; full < i; full++ {
				s.endDim(d + 1)
			}
		}
		top = 0
		s.idx[d] = i
	}
	s.values = append(s.values, v)
}
