// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - Storage[P, I, V]: packed pointers/indices/values representation of a
//    sparse tensor of arbitrary rank, with a per-dimension dense/compressed
//    annotation and an arbitrary dimension ordering.
//
// Layout (storage order, d = 0..rank-1):
//  - sizes[d]       extent of storage dimension d.
//  - rev[d]         original dimension stored at position d.
//  - pointers[d]    segment boundaries into indices[d]; empty ⇔ dense.
//  - indices[d]     coordinates of the stored entries of dimension d.
//  - values         one value per leaf position.
//
// Complexity:
//  - Construction is O(rank) plus the capacity hints (bounded by Options).
//
// AI-Hints:
//  - A dimension is compressed iff len(pointers[d]) > 0; every compressed
//    dimension starts with pointers[d] = [0].
//  - Pointer overflow is sticky: the builders push, then check once.

package sparse

import (
	"math/bits"
	"slices"

	"go.uber.org/zap"
)

// Storage is a packed sparse tensor. It is single-owner and unsynchronized.
type Storage[P, I Overhead, V Value] struct {
	sizes    []uint64
	rev      []uint64
	idx      []uint64 // scratch cursor of the insertion protocols
	pointers [][]P
	indices  [][]I
	values   []V

	overflow bool // a pushed pointer did not fit P
	logger   *zap.SugaredLogger
}

// newStorage prepares an empty storage over storage-order sizes.
// It validates the layout, checks that every compressed extent fits I,
// reserves the capacity hints and seeds pointers[d] = [0] for compressed d.
func newStorage[P, I Overhead, V Value](sizes, perm []uint64, levels []DimLevelType, o Options) (*Storage[P, I, V], error) {
	if err := validateLayout(sizes, perm, levels); err != nil {
		return nil, err
	}
	kind := KindOf[P, I, V]()
	if !Supported(kind) {
		return nil, errorf("newStorage", ErrUnsupportedKind, "%s", kind)
	}
	if err := checkDenseRuns(sizes, levels); err != nil {
		return nil, err
	}
	rank := len(sizes)
	s := &Storage[P, I, V]{
		sizes:    slices.Clone(sizes),
		rev:      make([]uint64, rank),
		idx:      make([]uint64, rank),
		pointers: make([][]P, rank),
		indices:  make([][]I, rank),
		logger:   o.logger,
	}
	for r, p := range perm {
		s.rev[p] = uint64(r)
	}
	sz := uint64(1)
	for d := 0; d < rank; d++ {
		sz = satMul(sz, sizes[d])
		if levels[d] != LevelCompressed {
			continue
		}
		if !fitsOverhead[I](sizes[d] - 1) {
			return nil, errorf("newStorage", ErrOverheadOverflow, "dim %d extent %d exceeds %s indices", d, sizes[d], kind.Index.Normalize())
		}
		s.pointers[d] = make([]P, 1, max(1, o.hint(satAdd(sz, 1))))
		s.indices[d] = make([]I, 0, o.hint(sz))
		sz = 1
	}

	return s, nil
}

// pushPointer appends n to pointers[d], recording overflow.
func (s *Storage[P, I, V]) pushPointer(d int, n int) {
	if !fitsOverhead[P](uint64(n)) {
		s.overflow = true
	}
	s.pointers[d] = append(s.pointers[d], P(n))
}

// pushIndex appends i to indices[d]. Range was checked against sizes.
func (s *Storage[P, I, V]) pushIndex(d int, i uint64) {
	s.indices[d] = append(s.indices[d], I(i))
}

// checkOverflow turns the sticky overflow flag into an error.
func (s *Storage[P, I, V]) checkOverflow(op string) error {
	if s.overflow {
		return errorf(op, ErrOverheadOverflow, "pointer exceeds %s", KindOf[P, I, V]().Pointer.Normalize())
	}

	return nil
}

// checkDenseRuns rejects layouts whose consecutive dense dimensions would
// pad more than MaxDenseElements positions under a single parent.
func checkDenseRuns(sizes []uint64, levels []DimLevelType) error {
	run := uint64(1)
	for d, lt := range levels {
		if lt == LevelCompressed {
			run = 1
			continue
		}
		run = satMul(run, sizes[d])
		if run > MaxDenseElements {
			return errorf("newStorage", ErrOutOfRange, "dense run ending at dim %d spans %d positions > %d", d, run, uint64(MaxDenseElements))
		}
	}

	return nil
}

// satMul multiplies with saturation at MaxUint64.
func satMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return ^uint64(0)
	}

	return lo
}

// satAdd adds with saturation at MaxUint64.
func satAdd(a, b uint64) uint64 {
	s, c := bits.Add64(a, b, 0)
	if c != 0 {
		return ^uint64(0)
	}

	return s
}
