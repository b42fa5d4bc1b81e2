// SPDX-License-Identifier: MIT
// Package: lvsparse/engine
//
// Flat interop through handles: float64 values, 64-bit overhead,
// all-compressed identity layout.

package engine

import (
	"github.com/katalvlaran/lvsparse/sparse"
)

// ConvertToSparse packs a flat coordinate form (row-major indices of
// rank*nse entries) into a new tensor handle.
//
// Errors: sparse.ErrBadRank, sparse.ErrBadShape, sparse.ErrDimensionMismatch,
// plus every packing error.
func (r *Registry) ConvertToSparse(shape []uint64, values []float64, indices []uint64) (Handle, error) {
	s, err := sparse.FromFlat(sparse.Flat[float64]{Shape: shape, Values: values, Indices: indices}, r.sparseOpts...)
	if err != nil {
		return NilHandle, errorf("ConvertToSparse", err, "")
	}
	h := r.put(&entry{state: stateTensor, kind: s.Kind(), obj: sparse.Tensor(s)})
	r.logger.Debugw("handle created", "handle", h.String(), "action", "convert-to-sparse", "nse", len(values))

	return h, nil
}

// ConvertFromSparse unpacks the float64 tensor behind h into flat form in
// original dimension order.
//
// Errors: ErrUnknownHandle, ErrWrongState, ErrTypeMismatch, sparse.ErrCorrupt.
func (r *Registry) ConvertFromSparse(h Handle) (sparse.Flat[float64], error) {
	const op = "ConvertFromSparse"
	t, err := r.Tensor(h)
	if err != nil {
		return sparse.Flat[float64]{}, errorf(op, err, "")
	}
	typed, ok := t.(sparse.Typed[float64])
	if !ok {
		return sparse.Flat[float64]{}, errorf(op, ErrTypeMismatch, "%s has values %s", h, t.Kind().Value)
	}

	return typed.ToFlat()
}
