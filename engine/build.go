// SPDX-License-Identifier: MIT
// Package: lvsparse/engine
//
// Purpose:
//  - Registry.New: the multiplexed build entry point.
//
// Dispatch:
//  Stage 1: reject unsupported kinds before any work.
//  Stage 2: switch on the value type to fix V.
//  Stage 3: newAs[V] runs the action; the sparse factories fix P and I.

package engine

import (
	"github.com/katalvlaran/lvsparse/sparse"
	"github.com/katalvlaran/lvsparse/sparseio"
)

// New builds the object described by req and returns its handle.
//
// Errors: sparse.ErrUnsupportedKind, ErrUnknownAction, ErrUnknownHandle,
// ErrWrongState, ErrTypeMismatch, ErrMissingPath, plus the errors of the
// underlying sparse and sparseio calls.
func (r *Registry) New(req Request) (Handle, error) {
	const op = "Registry.New"
	k := req.Kind()
	if !sparse.Supported(k) {
		return NilHandle, errorf(op, sparse.ErrUnsupportedKind, "%s", k)
	}

	var (
		h   Handle
		err error
	)
	switch req.Value {
	case sparse.PrimaryF64:
		h, err = newAs[float64](r, req, k)
	case sparse.PrimaryF32:
		h, err = newAs[float32](r, req, k)
	case sparse.PrimaryI64:
		h, err = newAs[int64](r, req, k)
	case sparse.PrimaryI32:
		h, err = newAs[int32](r, req, k)
	case sparse.PrimaryI16:
		h, err = newAs[int16](r, req, k)
	default:
		h, err = newAs[int8](r, req, k)
	}
	if err != nil {
		return NilHandle, errorf(op, err, "%s %s", req.Action, k)
	}
	r.logger.Debugw("handle created", "handle", h.String(), "action", req.Action.String(), "kind", k.String())

	return h, nil
}

func newAs[V sparse.Value](r *Registry, req Request, k sparse.Kind) (Handle, error) {
	switch req.Action {
	case ActionEmpty:
		perm := req.Perm
		if perm == nil {
			perm = identity(len(req.Sizes))
		}
		b, err := sparse.NewBuilder[V](req.Sizes, perm, req.Levels, k, r.sparseOpts...)
		if err != nil {
			return NilHandle, err
		}
		if !allDense(req.Levels) {
			return r.put(&entry{state: stateBuilding, kind: b.Kind(), obj: b}), nil
		}
		// Nothing to insert: the zero-filled values are the whole tensor.
		t, err := b.FinishTensor()
		if err != nil {
			return NilHandle, err
		}

		return r.put(&entry{state: stateTensor, kind: t.Kind(), obj: t}), nil

	case ActionFromFile:
		if req.Path == "" {
			return NilHandle, ErrMissingPath
		}
		coo, err := sparseio.ReadFile[V](req.Path, req.Sizes, req.Perm, sparseio.WithLogger(r.logger))
		if err != nil {
			return NilHandle, err
		}
		perm := req.Perm
		if perm == nil {
			perm = identity(coo.Rank())
		}

		return pack(r, coo, perm, req.Levels, k, nil)

	case ActionFromCOO:
		e, err := r.getState("from-coo", req.Source, stateCOO)
		if err != nil {
			return NilHandle, err
		}
		coo, ok := e.obj.(*sparse.COO[V])
		if !ok {
			return NilHandle, errorf("from-coo", ErrTypeMismatch, "source %s, requested %s", e.kind.Value, k.Value)
		}
		perm := req.Perm
		if perm == nil {
			perm = identity(coo.Rank())
		}
		var opts []sparse.Option
		if req.Sizes != nil {
			opts = append(opts, sparse.WithSizeCheck(req.Sizes))
		}
		h, err := pack(r, coo, perm, req.Levels, k, opts)
		if err != nil {
			return NilHandle, err
		}
		r.drop(req.Source)

		return h, nil

	case ActionEmptyCOO:
		perm := req.Perm
		if perm == nil {
			perm = identity(len(req.Sizes))
		}
		coo, err := sparse.NewPermutedCOO[V](req.Sizes, perm, r.sparseOpts...)
		if err != nil {
			return NilHandle, err
		}

		return r.put(&entry{state: stateCOO, kind: k.Normalize(), obj: coo, perm: perm}), nil

	case ActionToCOO, ActionToIterator:
		e, err := r.getState(req.Action.String(), req.Source, stateTensor)
		if err != nil {
			return NilHandle, err
		}
		if e.kind.Normalize() != k.Normalize() {
			return NilHandle, errorf(req.Action.String(), ErrTypeMismatch, "source %s, requested %s", e.kind, k)
		}
		t := e.obj.(sparse.Typed[V])
		perm := req.Perm
		if perm == nil {
			perm = identity(t.Rank())
		}
		coo, err := t.ToCOO(perm)
		if err != nil {
			return NilHandle, err
		}
		if req.Action == ActionToIterator {
			if err = coo.StartIterator(); err != nil {
				return NilHandle, err
			}
		}

		return r.put(&entry{state: stateCOO, kind: k.Normalize(), obj: coo, perm: perm}), nil

	default:
		return NilHandle, ErrUnknownAction
	}
}

func pack[V sparse.Value](r *Registry, coo *sparse.COO[V], perm []uint64, levels []sparse.DimLevelType, k sparse.Kind, extra []sparse.Option) (Handle, error) {
	opts := append(append([]sparse.Option(nil), r.sparseOpts...), extra...)
	t, err := sparse.NewTensor(coo, perm, levels, k, opts...)
	if err != nil {
		return NilHandle, err
	}

	return r.put(&entry{state: stateTensor, kind: t.Kind(), obj: t}), nil
}

func allDense(levels []sparse.DimLevelType) bool {
	for _, lt := range levels {
		if lt != sparse.LevelDense {
			return false
		}
	}

	return true
}
