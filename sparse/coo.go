// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - COO[V]: coordinate scheme, an unordered list of (coordinate, value)
//    pairs with fixed extents. The interchange and bulk-construction format.
//
// Lifecycle:
//  Stage 1 (Build):   Add / Sort, any number of times.
//  Stage 2 (Iterate): StartIterator locks the scheme; Next yields elements in
//                     stored order. Exhaustion releases every element.
//  Stage 3 (Released): consumed by FromCOO or exhausted; only Rank/Sizes work.
//
// Complexity:
//  - Add O(rank) amortized; Sort O(n log n · rank), O(n) when already sorted.
//
// AI-Hints:
//  - Element index slices are copied on Add; callers may reuse their buffer.
//  - Duplicates are kept; FromCOO resolves them (first value wins).

package sparse

import "slices"

// Element is one nonzero: a coordinate (one entry per dimension) and a value.
type Element[V Value] struct {
	Indices []uint64
	Value   V
}

// COO is a coordinate scheme over value type V.
type COO[V Value] struct {
	sizes    []uint64
	elements []Element[V]
	sorted   bool // elements are known to be lexicographically ordered
	locked   bool // iterator mode
	pos      int
	released bool
}

// NewCOO creates an empty coordinate scheme with the given extents.
//
// Errors: ErrBadRank, ErrBadShape.
// Complexity: O(rank + capacity).
func NewCOO[V Value](sizes []uint64, opts ...Option) (*COO[V], error) {
	if err := ValidateShape(sizes); err != nil {
		return nil, errorf("NewCOO", err, "")
	}
	o := gatherOptions(opts...)

	return &COO[V]{
		sizes:    slices.Clone(sizes),
		elements: make([]Element[V], 0, o.capacity),
		sorted:   true,
	}, nil
}

// NewPermutedCOO creates an empty scheme whose extents are sizes permuted by
// perm (permSizes[perm[r]] = sizes[r]). Later Add calls use permuted order.
//
// Errors: ErrBadRank, ErrBadShape, ErrRankMismatch, ErrBadPermutation.
func NewPermutedCOO[V Value](sizes, perm []uint64, opts ...Option) (*COO[V], error) {
	if err := ValidateShape(sizes); err != nil {
		return nil, errorf("NewPermutedCOO", err, "")
	}
	if err := ValidatePermutation(perm, len(sizes)); err != nil {
		return nil, errorf("NewPermutedCOO", err, "")
	}
	permSizes := make([]uint64, len(sizes))
	for r, sz := range sizes {
		permSizes[perm[r]] = sz
	}

	return NewCOO[V](permSizes, opts...)
}

// Add appends one element. The index slice is copied.
//
// Errors: ErrReleased, ErrIteratorLocked, ErrRankMismatch, ErrOutOfRange.
// Complexity: O(rank) amortized.
func (c *COO[V]) Add(indices []uint64, v V) error {
	if c.released {
		return errorf("COO.Add", ErrReleased, "")
	}
	if c.locked {
		return errorf("COO.Add", ErrIteratorLocked, "")
	}
	if err := ValidateCursor(indices, c.sizes); err != nil {
		return errorf("COO.Add", err, "")
	}
	if c.sorted && len(c.elements) > 0 {
		c.sorted = slices.Compare(c.elements[len(c.elements)-1].Indices, indices) <= 0
	}
	c.elements = append(c.elements, Element[V]{Indices: slices.Clone(indices), Value: v})

	return nil
}

// Sort orders elements lexicographically by coordinate. The sort is stable,
// so among duplicates the insertion order is kept. Sorting an already sorted
// scheme is a no-op.
//
// Errors: ErrReleased, ErrIteratorLocked.
func (c *COO[V]) Sort() error {
	if c.released {
		return errorf("COO.Sort", ErrReleased, "")
	}
	if c.locked {
		return errorf("COO.Sort", ErrIteratorLocked, "")
	}
	if c.sorted {
		return nil
	}
	slices.SortStableFunc(c.elements, func(a, b Element[V]) int {
		return slices.Compare(a.Indices, b.Indices)
	})
	c.sorted = true

	return nil
}

// StartIterator switches to iterator mode and rewinds to the first element.
//
// Errors: ErrReleased.
func (c *COO[V]) StartIterator() error {
	if c.released {
		return errorf("COO.StartIterator", ErrReleased, "")
	}
	c.locked = true
	c.pos = 0

	return nil
}

// Next yields the next element in stored order. It returns false when the
// scheme is not iterating, is released, or has just been exhausted; the
// exhausting call releases every element.
func (c *COO[V]) Next() (Element[V], bool) {
	if c.released || !c.locked {
		return Element[V]{}, false
	}
	if c.pos < len(c.elements) {
		e := c.elements[c.pos]
		c.pos++
		return e, true
	}
	c.release()

	return Element[V]{}, false
}

// Rank returns the number of dimensions.
func (c *COO[V]) Rank() int { return len(c.sizes) }

// Sizes returns a copy of the extents.
func (c *COO[V]) Sizes() []uint64 { return slices.Clone(c.sizes) }

// Len returns the number of stored elements (0 once released).
func (c *COO[V]) Len() int { return len(c.elements) }

// Elements returns the stored elements. The slice is shared; callers must
// not modify it. Nil once released.
func (c *COO[V]) Elements() []Element[V] { return c.elements }

// IsSorted reports whether the elements are known to be in lexicographic order.
func (c *COO[V]) IsSorted() bool { return c.sorted }

// Iterating reports whether StartIterator was called.
func (c *COO[V]) Iterating() bool { return c.locked }

// Released reports whether the scheme was consumed or exhausted.
func (c *COO[V]) Released() bool { return c.released }

// release drops every element and disables all mutating operations.
func (c *COO[V]) release() {
	c.elements = nil
	c.released = true
	c.pos = 0
}

// pushTrusted appends an element built internally (valid, caller-owned slice).
func (c *COO[V]) pushTrusted(indices []uint64, v V) {
	c.elements = append(c.elements, Element[V]{Indices: indices, Value: v})
}
