// SPDX-License-Identifier: MIT
// Package: sparse
//
// Flat interchange: rank, nse, shape[rank], values[nse], indices[nse*rank]
// with row-major index flattening. For example
//
//	| 1 0 0 |
//	| 0 5 3 |
//
// is Shape=[2 3], Values=[1 5 3], Indices=[0 0  1 1  1 2].

package sparse

// Flat is the C-style flat coordinate form of a tensor.
type Flat[V Value] struct {
	Shape   []uint64
	Values  []V
	Indices []uint64
}

// Rank returns len(Shape).
func (f Flat[V]) Rank() int { return len(f.Shape) }

// NSE returns the number of specified elements.
func (f Flat[V]) NSE() int { return len(f.Values) }

// FromFlat builds an all-compressed, identity-ordered storage with 64-bit
// overhead from a flat form.
//
// Errors: ErrBadRank, ErrBadShape, ErrDimensionMismatch
// (len(Indices) != rank*nse), ErrOutOfRange.
// Complexity: O(nse · rank + sort).
func FromFlat[V Value](f Flat[V], opts ...Option) (*Storage[uint64, uint64, V], error) {
	const op = "FromFlat"
	rank := f.Rank()
	if err := ValidateShape(f.Shape); err != nil {
		return nil, errorf(op, err, "")
	}
	if len(f.Indices) != rank*f.NSE() {
		return nil, errorf(op, ErrDimensionMismatch, "%d indices for rank %d and nse %d", len(f.Indices), rank, f.NSE())
	}
	coo, err := NewCOO[V](f.Shape, append([]Option{WithCapacity(f.NSE())}, opts...)...)
	if err != nil {
		return nil, errorf(op, err, "")
	}
	for i, base := 0, 0; i < f.NSE(); i, base = i+1, base+rank {
		if err = coo.Add(f.Indices[base:base+rank], f.Values[i]); err != nil {
			return nil, errorf(op, err, "element %d", i)
		}
	}
	levels := make([]DimLevelType, rank)
	for d := range levels {
		levels[d] = LevelCompressed
	}

	return FromCOO[uint64, uint64, V](coo, identityPerm(rank), levels, opts...)
}

// ToFlat exports the stored entries in original dimension order. Dense
// dimensions contribute every position, so zeros they hold are listed too.
//
// Errors: ErrCorrupt, ErrInternal (from ToCOO).
func (s *Storage[P, I, V]) ToFlat() (Flat[V], error) {
	rank := len(s.sizes)
	coo, err := s.ToCOO(identityPerm(rank))
	if err != nil {
		return Flat[V]{}, errorf("Storage.ToFlat", err, "")
	}
	elems := coo.Elements()
	out := Flat[V]{
		Shape:   coo.Sizes(),
		Values:  make([]V, len(elems)),
		Indices: make([]uint64, 0, len(elems)*rank),
	}
	for i, e := range elems {
		out.Values[i] = e.Value
		out.Indices = append(out.Indices, e.Indices...)
	}

	return out, nil
}
