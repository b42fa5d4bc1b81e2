// SPDX-License-Identifier: MIT

package sparse

// MaxDenseElements bounds every dense allocation: the array built by ToDense
// and each run of consecutive dense dimensions in a packed layout.
const MaxDenseElements = 1 << 28

// ToDense materializes the tensor as a row-major array over the original
// dimension order. Positions not stored are zero.
//
// Errors: ErrOutOfRange when the dense size exceeds MaxDenseElements,
// ErrCorrupt on malformed arrays.
// Complexity: O(Π sizes + len(values) · rank).
func (s *Storage[P, I, V]) ToDense() ([]V, error) {
	const op = "Storage.ToDense"
	if err := s.checkArrays(); err != nil {
		return nil, errorf(op, err, "")
	}
	rank := len(s.sizes)
	orgsz := make([]uint64, rank)
	for r := 0; r < rank; r++ {
		orgsz[s.rev[r]] = s.sizes[r]
	}
	total := uint64(1)
	for _, sz := range orgsz {
		total = satMul(total, sz)
	}
	if total > MaxDenseElements {
		return nil, errorf(op, ErrOutOfRange, "dense size %d", total)
	}
	strides := make([]uint64, rank)
	stride := uint64(1)
	for k := rank - 1; k >= 0; k-- {
		strides[k] = stride
		stride *= orgsz[k]
	}
	out := make([]V, total)
	err := s.walk(s.rev, func(cur []uint64, v V) {
		off := uint64(0)
		for k, c := range cur {
			off += c * strides[k]
		}
		out[off] = v
	})
	if err != nil {
		return nil, errorf(op, err, "")
	}

	return out, nil
}
