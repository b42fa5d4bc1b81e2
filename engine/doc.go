// SPDX-License-Identifier: MIT

// Package engine exposes the sparse storage engine through opaque handles.
//
// A Registry maps uuid-backed Handles to one of three kinds of object:
//
//   - a coordinate scheme (ActionEmptyCOO, ActionToCOO, ActionToIterator),
//   - a tensor under construction (ActionEmpty; finished by EndInsert),
//     except that an all-dense ActionEmpty is finished on creation,
//   - a packed tensor (ActionFromCOO, ActionFromFile, EndInsert, Dup,
//     ConvertToSparse).
//
// Registry.New is the single multiplexed build entry point. The
// (pointer, index, value) kind of a Request selects the generic
// instantiation at runtime; unsupported combinations fail with
// sparse.ErrUnsupportedKind.
//
// Typed operations are free functions parameterized by the element type
// (AddElement, GetNext, LexInsert, ExpInsert, Pointers, Indices, Values);
// calling them with the wrong type yields ErrTypeMismatch. Structural
// operations are Registry methods.
//
// Concurrency: the handle table is guarded by a sync.RWMutex, so disjoint
// handles may be driven from parallel goroutines. A single handle is
// single-owner; callers serialize operations on it.
//
// Lifecycle rules:
//
//   - ActionFromCOO consumes its source handle on success.
//   - GetNext releases the iterator handle once it is exhausted.
//   - EndInsert turns a building handle into a tensor handle in place.
//   - Release drops any handle; later use yields ErrUnknownHandle.
package engine
