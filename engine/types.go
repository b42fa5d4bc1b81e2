// SPDX-License-Identifier: MIT
// Package: lvsparse/engine
//
// types.go — Handle, Action, Request, View and the per-handle entry.

package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/katalvlaran/lvsparse/sparse"
)

// Handle is an opaque reference to an object owned by a Registry.
type Handle uuid.UUID

// NilHandle is the zero handle; it is never issued.
var NilHandle = Handle(uuid.Nil)

// String implements fmt.Stringer.
func (h Handle) String() string { return uuid.UUID(h).String() }

// ParseHandle parses the textual form produced by String.
func ParseHandle(s string) (Handle, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NilHandle, fmt.Errorf("ParseHandle: %w", err)
	}

	return Handle(id), nil
}

// Action selects what Registry.New builds.
type Action uint8

const (
	// ActionEmpty opens a tensor for lexicographic/expanded insertion.
	// An all-dense layout skips insertion: the handle is a finished tensor
	// with zero-filled values that callers write through Values.
	ActionEmpty Action = iota
	// ActionFromFile reads Request.Path and packs it.
	ActionFromFile
	// ActionFromCOO packs (and consumes) the scheme behind Request.Source.
	ActionFromCOO
	// ActionEmptyCOO creates an empty scheme with permuted extents.
	ActionEmptyCOO
	// ActionToCOO unpacks the tensor behind Request.Source.
	ActionToCOO
	// ActionToIterator unpacks and starts iteration.
	ActionToIterator
)

var actionNames = [...]string{"empty", "from-file", "from-coo", "empty-coo", "to-coo", "to-iterator"}

// String implements fmt.Stringer.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}

	return fmt.Sprintf("action(%d)", uint8(a))
}

// Request is the argument of Registry.New.
//
// Sizes are in original dimension order. Perm maps original to storage
// dimensions; nil means identity. Levels annotate storage dimensions.
type Request struct {
	Levels  []sparse.DimLevelType
	Sizes   []uint64
	Perm    []uint64
	Pointer sparse.OverheadType
	Index   sparse.OverheadType
	Value   sparse.PrimaryType
	Action  Action
	Source  Handle
	Path    string
}

// Kind returns the (pointer, index, value) instantiation named by r.
func (r Request) Kind() sparse.Kind {
	return sparse.Kind{Pointer: r.Pointer, Index: r.Index, Value: r.Value}
}

// View exposes a live buffer as data, element count and stride.
// Data aliases the owner's storage until the next mutation of the handle.
type View[T any] struct {
	Data   []T
	Size   int
	Stride int
}

func viewOf[T any](data []T) View[T] {
	return View[T]{Data: data, Size: len(data), Stride: 1}
}

type state uint8

const (
	stateCOO state = iota + 1
	stateBuilding
	stateTensor
)

func (s state) String() string {
	switch s {
	case stateCOO:
		return "coo"
	case stateBuilding:
		return "building"
	case stateTensor:
		return "tensor"
	default:
		return "invalid"
	}
}

// entry is one registered object. obj is a *sparse.COO[V], a
// sparse.Builder[V] or a sparse.Tensor according to state.
type entry struct {
	state state
	kind  sparse.Kind
	obj   any
	perm  []uint64 // original→storage map applied by AddElement
}
