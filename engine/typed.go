// SPDX-License-Identifier: MIT
// File: typed.go
// Role: element-typed operations over handles.
// AI-HINT (file):
//   - Type parameters must match the handle's kind exactly; a mismatch is
//     ErrTypeMismatch, never a conversion.

package engine

import (
	"github.com/katalvlaran/lvsparse/sparse"
)

// AddElement appends one element to the scheme behind h. indices are in
// original order and are stored at the handle's permuted positions.
//
// Errors: ErrUnknownHandle, ErrWrongState, ErrTypeMismatch,
// sparse.ErrRankMismatch, plus every COO.Add error.
func AddElement[V sparse.Value](r *Registry, h Handle, indices []uint64, v V) error {
	const op = "AddElement"
	coo, e, err := cooOf[V](r, op, h)
	if err != nil {
		return err
	}
	if len(indices) != len(e.perm) {
		return errorf(op, sparse.ErrRankMismatch, "%d indices for rank %d", len(indices), len(e.perm))
	}
	permuted := make([]uint64, len(indices))
	for d, i := range indices {
		permuted[e.perm[d]] = i
	}

	return coo.Add(permuted, v)
}

// GetNext returns the next element of the iterating scheme behind h. Once
// the scheme is exhausted it reports false and h is released.
//
// Errors: ErrUnknownHandle, ErrWrongState (not iterating), ErrTypeMismatch.
func GetNext[V sparse.Value](r *Registry, h Handle) (sparse.Element[V], bool, error) {
	const op = "GetNext"
	coo, _, err := cooOf[V](r, op, h)
	if err != nil {
		return sparse.Element[V]{}, false, err
	}
	if !coo.Iterating() {
		return sparse.Element[V]{}, false, errorf(op, ErrWrongState, "%s is not iterating", h)
	}
	el, ok := coo.Next()
	if !ok {
		r.drop(h)
		r.logger.Debugw("iterator exhausted", "handle", h.String())
	}

	return el, ok, nil
}

// LexInsert inserts v at cursor (storage order) into the building tensor
// behind h.
func LexInsert[V sparse.Value](r *Registry, h Handle, cursor []uint64, v V) error {
	b, err := builderOf[V](r, "LexInsert", h)
	if err != nil {
		return err
	}

	return b.Insert(cursor, v)
}

// ExpInsert performs an expanded insertion of one innermost row into the
// building tensor behind h. The consumed buffer positions are reset.
func ExpInsert[V sparse.Value](r *Registry, h Handle, cursor []uint64, values []V, filled []bool, added []uint64) error {
	b, err := builderOf[V](r, "ExpInsert", h)
	if err != nil {
		return err
	}

	return b.Expand(cursor, values, filled, added)
}

// Pointers returns a live view of pointers[d] of the tensor behind h.
// The view is empty for dense dimensions.
func Pointers[P sparse.Overhead](r *Registry, h Handle, d int) (View[P], error) {
	const op = "Pointers"
	t, err := r.Tensor(h)
	if err != nil {
		return View[P]{}, errorf(op, err, "")
	}
	src, ok := t.(sparse.PointerSource[P])
	if !ok {
		return View[P]{}, errorf(op, ErrTypeMismatch, "%s has pointers %s", h, t.Kind().Pointer)
	}
	ptr, err := src.Pointers(d)
	if err != nil {
		return View[P]{}, err
	}

	return viewOf(ptr), nil
}

// Indices returns a live view of indices[d] of the tensor behind h.
func Indices[I sparse.Overhead](r *Registry, h Handle, d int) (View[I], error) {
	const op = "Indices"
	t, err := r.Tensor(h)
	if err != nil {
		return View[I]{}, errorf(op, err, "")
	}
	src, ok := t.(sparse.IndexSource[I])
	if !ok {
		return View[I]{}, errorf(op, ErrTypeMismatch, "%s has indices %s", h, t.Kind().Index)
	}
	idx, err := src.Indices(d)
	if err != nil {
		return View[I]{}, err
	}

	return viewOf(idx), nil
}

// Values returns a live view of the values of the tensor behind h.
func Values[V sparse.Value](r *Registry, h Handle) (View[V], error) {
	const op = "Values"
	t, err := r.Tensor(h)
	if err != nil {
		return View[V]{}, errorf(op, err, "")
	}
	typed, ok := t.(sparse.Typed[V])
	if !ok {
		return View[V]{}, errorf(op, ErrTypeMismatch, "%s has values %s", h, t.Kind().Value)
	}

	return viewOf(typed.Values()), nil
}

// ToDense materializes the tensor behind h in row-major original order.
func ToDense[V sparse.Value](r *Registry, h Handle) ([]V, error) {
	const op = "ToDense"
	t, err := r.Tensor(h)
	if err != nil {
		return nil, errorf(op, err, "")
	}
	typed, ok := t.(sparse.Typed[V])
	if !ok {
		return nil, errorf(op, ErrTypeMismatch, "%s has values %s", h, t.Kind().Value)
	}

	return typed.ToDense()
}

func cooOf[V sparse.Value](r *Registry, op string, h Handle) (*sparse.COO[V], *entry, error) {
	e, err := r.getState(op, h, stateCOO)
	if err != nil {
		return nil, nil, err
	}
	coo, ok := e.obj.(*sparse.COO[V])
	if !ok {
		return nil, nil, errorf(op, ErrTypeMismatch, "%s has values %s", h, e.kind.Value)
	}

	return coo, e, nil
}

func builderOf[V sparse.Value](r *Registry, op string, h Handle) (sparse.Builder[V], error) {
	e, err := r.getState(op, h, stateBuilding)
	if err != nil {
		return nil, err
	}
	b, ok := e.obj.(sparse.Builder[V])
	if !ok {
		return nil, errorf(op, ErrTypeMismatch, "%s has values %s", h, e.kind.Value)
	}

	return b, nil
}
