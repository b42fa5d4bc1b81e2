// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - Snapshot: a widened, kind-tagged copy of every owned array, suitable
//    for serialization (integer CBOR keys) and for Restore.
//
// Widening:
//  - pointers and indices become uint64; floating values become float64 and
//    integral values int64, so narrowing back on Restore is exact.

package sparse

// Snapshot is the serializable form of a Storage.
type Snapshot struct {
	Kind     Kind       `cbor:"1,keyasint"`
	Sizes    []uint64   `cbor:"2,keyasint"`
	Rev      []uint64   `cbor:"3,keyasint"`
	Pointers [][]uint64 `cbor:"4,keyasint"`
	Indices  [][]uint64 `cbor:"5,keyasint"`
	Floats   []float64  `cbor:"6,keyasint,omitempty"`
	Ints     []int64    `cbor:"7,keyasint,omitempty"`
}

// NumValues returns the number of stored values.
func (sn Snapshot) NumValues() int {
	if sn.Kind.Value.IsFloat() {
		return len(sn.Floats)
	}

	return len(sn.Ints)
}

// Snapshot copies the storage into its widened serializable form.
func (s *Storage[P, I, V]) Snapshot() Snapshot {
	k := s.Kind()
	sn := Snapshot{
		Kind:     k,
		Sizes:    append([]uint64(nil), s.sizes...),
		Rev:      append([]uint64(nil), s.rev...),
		Pointers: make([][]uint64, len(s.pointers)),
		Indices:  make([][]uint64, len(s.indices)),
	}
	for d, ptr := range s.pointers {
		sn.Pointers[d] = widen(ptr)
	}
	for d, idx := range s.indices {
		sn.Indices[d] = widen(idx)
	}
	if k.Value.IsFloat() {
		sn.Floats = make([]float64, len(s.values))
		for i, v := range s.values {
			sn.Floats[i] = float64(v)
		}
	} else {
		sn.Ints = make([]int64, len(s.values))
		for i, v := range s.values {
			sn.Ints[i] = int64(v)
		}
	}

	return sn
}

// Restore rebuilds the storage instantiation named by sn.Kind and verifies it.
//
// Errors: ErrUnsupportedKind, ErrCorrupt (inconsistent arrays or failed
// verification), ErrOverheadOverflow (an entry does not fit the kind).
func Restore(sn Snapshot) (Tensor, error) {
	var (
		t   Tensor
		err error
	)
	switch sn.Kind.Value {
	case PrimaryF64:
		t, err = restoreAs[float64](sn)
	case PrimaryF32:
		t, err = restoreAs[float32](sn)
	case PrimaryI64:
		t, err = restoreAs[int64](sn)
	case PrimaryI32:
		t, err = restoreAs[int32](sn)
	case PrimaryI16:
		t, err = restoreAs[int16](sn)
	case PrimaryI8:
		t, err = restoreAs[int8](sn)
	default:
		return nil, errorf("Restore", ErrUnsupportedKind, "%s", sn.Kind)
	}
	if err != nil {
		return nil, errorf("Restore", err, "")
	}
	if err = t.Verify().Err(); err != nil {
		return nil, errorf("Restore", err, "")
	}

	return t, nil
}

func restoreAs[V Value](sn Snapshot) (Tensor, error) {
	f, err := factoryFor[V](sn.Kind)
	if err != nil {
		return nil, err
	}

	return f.restore(sn)
}

func restore[P, I Overhead, V Value](sn Snapshot) (*Storage[P, I, V], error) {
	rank := len(sn.Sizes)
	if rank == 0 {
		return nil, errorf("restore", ErrBadRank, "")
	}
	if len(sn.Rev) != rank || len(sn.Pointers) != rank || len(sn.Indices) != rank {
		return nil, errorf("restore", ErrCorrupt, "array counts %d/%d/%d for rank %d", len(sn.Rev), len(sn.Pointers), len(sn.Indices), rank)
	}
	s := &Storage[P, I, V]{
		sizes:    append([]uint64(nil), sn.Sizes...),
		rev:      append([]uint64(nil), sn.Rev...),
		idx:      make([]uint64, rank),
		pointers: make([][]P, rank),
		indices:  make([][]I, rank),
		logger:   gatherOptions().logger,
	}
	var ok bool
	for d := 0; d < rank; d++ {
		if s.pointers[d], ok = narrow[P](sn.Pointers[d]); !ok {
			return nil, errorf("restore", ErrOverheadOverflow, "pointers of dim %d", d)
		}
		if s.indices[d], ok = narrow[I](sn.Indices[d]); !ok {
			return nil, errorf("restore", ErrOverheadOverflow, "indices of dim %d", d)
		}
	}
	if sn.Kind.Value.IsFloat() {
		s.values = make([]V, len(sn.Floats))
		for i, v := range sn.Floats {
			s.values[i] = V(v)
		}
	} else {
		s.values = make([]V, len(sn.Ints))
		for i, v := range sn.Ints {
			if int64(V(v)) != v {
				return nil, errorf("restore", ErrOverheadOverflow, "value %d does not fit %s", v, sn.Kind.Value)
			}
			s.values[i] = V(v)
		}
	}

	return s, nil
}

func widen[T Overhead](a []T) []uint64 {
	out := make([]uint64, len(a))
	for i, v := range a {
		out[i] = uint64(v)
	}

	return out
}

func narrow[T Overhead](a []uint64) ([]T, bool) {
	out := make([]T, len(a))
	for i, v := range a {
		if !fitsOverhead[T](v) {
			return nil, false
		}
		out[i] = T(v)
	}

	return out, true
}
