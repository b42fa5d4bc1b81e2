// SPDX-License-Identifier: MIT
// Package: lvsparse/store
//
// errors.go — sentinels and the operation-tagged StoreError wrapper.

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that no tensor has the requested id.
	ErrNotFound = errors.New("store: tensor not found")

	// ErrStoreClosed indicates use of a closed store.
	ErrStoreClosed = errors.New("store: store is closed")

	// ErrNilTensor indicates Save without a tensor.
	ErrNilTensor = errors.New("store: nil tensor")
)

// StoreError tags a failure with the store operation that produced it.
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("store: %v", e.Err)
	}

	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error { return e.Err }

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	return &StoreError{Op: op, Err: err}
}
