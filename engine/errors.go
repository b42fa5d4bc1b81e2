// SPDX-License-Identifier: MIT
// Package: lvsparse/engine
//
// errors.go — sentinel errors of the handle registry.
//
// Error policy:
//   • Engine-level failures use the sentinels below; failures of the
//     underlying objects surface the sparse/sparseio sentinels unchanged.
//   • Callers branch with errors.Is.

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownHandle indicates a handle that was never issued or has been
	// released or consumed.
	ErrUnknownHandle = errors.New("engine: unknown handle")

	// ErrWrongState indicates an operation on a handle in the wrong state,
	// e.g. LexInsert on a finished tensor or GetNext on a scheme that is not
	// iterating.
	ErrWrongState = errors.New("engine: handle in wrong state")

	// ErrUnknownAction indicates a Request with an undefined Action.
	ErrUnknownAction = errors.New("engine: unknown action")

	// ErrTypeMismatch indicates that the requested element or overhead type
	// differs from the handle's kind.
	ErrTypeMismatch = errors.New("engine: type mismatch")

	// ErrMissingPath indicates ActionFromFile without a path.
	ErrMissingPath = errors.New("engine: missing tensor file path")
)

func errorf(op string, err error, format string, args ...any) error {
	if format == "" {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), err)
}
