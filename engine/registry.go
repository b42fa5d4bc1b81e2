// SPDX-License-Identifier: MIT
// File: registry.go
// Role: the handle table and the untyped operations over handles.
// Concurrency:
//   - mu guards entries only. Lookups take the read lock; issuing, state
//     transitions and releases take the write lock.
//   - The objects behind a handle are unsynchronized.
// AI-HINT (file):
//   - Every operation starts with get/getState so unknown handles and wrong
//     states are reported before touching the object.

package engine

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvsparse/sparse"
)

// Registry owns every object reachable through a Handle.
type Registry struct {
	mu         sync.RWMutex
	entries    map[Handle]*entry
	logger     *zap.SugaredLogger
	sparseOpts []sparse.Option
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes handle lifecycle events to l (debug level). Panics on nil.
func WithLogger(l *zap.SugaredLogger) Option {
	if l == nil {
		panic("engine: WithLogger: logger must be non-nil")
	}

	return func(r *Registry) { r.logger = l }
}

// WithStorageOptions forwards opts to every packing and insertion call,
// e.g. sparse.WithMaxReserve.
func WithStorageOptions(opts ...sparse.Option) Option {
	return func(r *Registry) { r.sparseOpts = append(r.sparseOpts, opts...) }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[Handle]*entry),
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Count returns the number of live handles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Register adopts an existing tensor and returns its handle.
func (r *Registry) Register(t sparse.Tensor) (Handle, error) {
	if t == nil {
		return NilHandle, errorf("Register", ErrWrongState, "nil tensor")
	}

	return r.put(&entry{state: stateTensor, kind: t.Kind(), obj: t}), nil
}

// Tensor returns the packed tensor behind h.
func (r *Registry) Tensor(h Handle) (sparse.Tensor, error) {
	e, err := r.getState("Tensor", h, stateTensor)
	if err != nil {
		return nil, err
	}

	return e.obj.(sparse.Tensor), nil
}

// Kind returns the instantiation of any handle.
func (r *Registry) Kind(h Handle) (sparse.Kind, error) {
	e, err := r.get("Kind", h)
	if err != nil {
		return sparse.Kind{}, err
	}

	return e.kind, nil
}

// Rank returns the rank of any handle.
func (r *Registry) Rank(h Handle) (int, error) {
	e, err := r.get("Rank", h)
	if err != nil {
		return 0, err
	}

	return e.obj.(shaped).Rank(), nil
}

// DimSize returns the extent of storage dimension d of any handle.
//
// Errors: ErrUnknownHandle, sparse.ErrOutOfRange.
func (r *Registry) DimSize(h Handle, d int) (uint64, error) {
	e, err := r.get("DimSize", h)
	if err != nil {
		return 0, err
	}
	sizes := e.obj.(shaped).Sizes()
	if d < 0 || d >= len(sizes) {
		return 0, errorf("DimSize", sparse.ErrOutOfRange, "dim %d of rank %d", d, len(sizes))
	}

	return sizes[d], nil
}

// Len returns the element count: stored elements of a scheme, inserted
// elements of a building tensor, stored values of a packed tensor.
func (r *Registry) Len(h Handle) (int, error) {
	e, err := r.get("Len", h)
	if err != nil {
		return 0, err
	}
	if t, ok := e.obj.(sparse.Tensor); ok {
		return t.NumValues(), nil
	}

	return e.obj.(interface{ Len() int }).Len(), nil
}

// Release drops h and everything it owns.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	e, ok := r.entries[h]
	delete(r.entries, h)
	r.mu.Unlock()
	if !ok {
		return errorf("Release", ErrUnknownHandle, "%s", h)
	}
	r.logger.Debugw("handle released", "handle", h.String(), "state", e.state.String())

	return nil
}

// Dup deep-copies the tensor behind h into a new handle.
func (r *Registry) Dup(h Handle) (Handle, error) {
	t, err := r.Tensor(h)
	if err != nil {
		return NilHandle, errorf("Dup", err, "")
	}
	c := t.Clone()
	dup := r.put(&entry{state: stateTensor, kind: c.Kind(), obj: c})
	r.logger.Debugw("handle duplicated", "handle", h.String(), "dup", dup.String())

	return dup, nil
}

// Verify runs the structural verifier on the tensor behind h.
func (r *Registry) Verify(h Handle, opts ...sparse.VerifyOption) (*sparse.Report, error) {
	t, err := r.Tensor(h)
	if err != nil {
		return nil, errorf("Verify", err, "")
	}

	return t.Verify(opts...), nil
}

// Swap exchanges field f between the tensors behind a and b in O(1).
//
// Errors: ErrUnknownHandle, ErrWrongState, sparse.ErrTypeMismatch,
// sparse.ErrOutOfRange.
func (r *Registry) Swap(a, b Handle, f sparse.Field) error {
	ta, err := r.Tensor(a)
	if err != nil {
		return errorf("Swap", err, "")
	}
	tb, err := r.Tensor(b)
	if err != nil {
		return errorf("Swap", err, "")
	}
	if a == b {
		return nil
	}

	return ta.SwapField(tb, f)
}

// AssignRev sets rev[d] = v on the tensor behind h.
func (r *Registry) AssignRev(h Handle, d int, v uint64) error {
	t, err := r.Tensor(h)
	if err != nil {
		return errorf("AssignRev", err, "")
	}

	return t.AssignRev(d, v)
}

// ResizePointers resizes pointers[d] of the tensor behind h.
func (r *Registry) ResizePointers(h Handle, d, n int) error {
	t, err := r.Tensor(h)
	if err != nil {
		return errorf("ResizePointers", err, "")
	}

	return t.ResizePointers(d, n)
}

// ResizeIndices resizes indices[d] of the tensor behind h.
func (r *Registry) ResizeIndices(h Handle, d, n int) error {
	t, err := r.Tensor(h)
	if err != nil {
		return errorf("ResizeIndices", err, "")
	}

	return t.ResizeIndices(d, n)
}

// ResizeValues resizes the values of the tensor behind h.
func (r *Registry) ResizeValues(h Handle, n int) error {
	t, err := r.Tensor(h)
	if err != nil {
		return errorf("ResizeValues", err, "")
	}

	return t.ResizeValues(n)
}

// ResizeDim sets the extent of storage dimension d of the tensor behind h.
func (r *Registry) ResizeDim(h Handle, d int, size uint64) error {
	t, err := r.Tensor(h)
	if err != nil {
		return errorf("ResizeDim", err, "")
	}

	return t.ResizeDim(d, size)
}

// EndInsert finishes a building handle; h then names the packed tensor.
//
// Errors: ErrUnknownHandle, ErrWrongState, plus every Finish error. A failed
// finish releases h.
func (r *Registry) EndInsert(h Handle) error {
	const op = "EndInsert"
	e, err := r.getState(op, h, stateBuilding)
	if err != nil {
		return err
	}
	t, err := e.obj.(interface{ FinishTensor() (sparse.Tensor, error) }).FinishTensor()

	r.mu.Lock()
	if err != nil {
		delete(r.entries, h)
	} else {
		r.entries[h] = &entry{state: stateTensor, kind: t.Kind(), obj: t}
	}
	r.mu.Unlock()
	if err != nil {
		return errorf(op, err, "")
	}
	r.logger.Debugw("insertion finished", "handle", h.String(), "values", t.NumValues())

	return nil
}

// shaped is the surface shared by schemes, builders and tensors.
type shaped interface {
	Rank() int
	Sizes() []uint64
}

func (r *Registry) put(e *entry) Handle {
	h := Handle(uuid.New())
	r.mu.Lock()
	r.entries[h] = e
	r.mu.Unlock()

	return h
}

func (r *Registry) get(op string, h Handle) (*entry, error) {
	r.mu.RLock()
	e, ok := r.entries[h]
	r.mu.RUnlock()
	if !ok {
		return nil, errorf(op, ErrUnknownHandle, "%s", h)
	}

	return e, nil
}

func (r *Registry) getState(op string, h Handle, want state) (*entry, error) {
	e, err := r.get(op, h)
	if err != nil {
		return nil, err
	}
	if e.state != want {
		return nil, errorf(op, ErrWrongState, "%s is %s, want %s", h, e.state, want)
	}

	return e, nil
}

func (r *Registry) drop(h Handle) {
	r.mu.Lock()
	delete(r.entries, h)
	r.mu.Unlock()
}

func identity(rank int) []uint64 {
	p := make([]uint64, rank)
	for i := range p {
		p[i] = uint64(i)
	}

	return p
}
