// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoped

import (
	"errors"
	"fmt"

	"github.com/kolkov/scopedtls/internal/gls"
)

var (
	// ErrUnbound is returned by TryWith when the key has no binding on the
	// calling goroutine.
	ErrUnbound = errors.New("scoped: key not bound")

	// ErrOutOfOrder means a guard was released while a later guard for the
	// same key was still live.
	ErrOutOfOrder = gls.ErrOutOfOrder

	// ErrBorrowed means a guard was released from inside a With callback
	// that was still using its binding.
	ErrBorrowed = gls.ErrBorrowed

	// ErrStale means a released binding was read.
	ErrStale = gls.ErrStale

	// ErrForeignGoroutine means a guard was released on a goroutine other
	// than the one that installed it.
	ErrForeignGoroutine = errors.New("released on a foreign goroutine")

	// ErrNilReference means Install or Set was given a nil pointer.
	ErrNilReference = errors.New("nil reference")

	// ErrNotInstalled means Release was called on a Guard that did not
	// come from Install.
	ErrNotInstalled = errors.New("guard not created by Install")
)

// UsageError describes a programming defect in the use of a Key or Guard.
// It is never returned; it is the value passed to panic.
//
// Example output:
//
//	scoped: Release of "counter" on goroutine 7: binding released out of installation order
type UsageError struct {
	Op        string // Operation that detected the misuse
	Key       string // Key name
	Goroutine int64  // Calling goroutine
	Err       error  // Underlying cause
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("scoped: %s of %q on goroutine %d: %v", e.Op, e.Key, e.Goroutine, e.Err)
}

// Unwrap returns the underlying cause, for errors.Is.
func (e *UsageError) Unwrap() error {
	return e.Err
}

func misuse(op, key string, gid int64, err error) *UsageError {
	return &UsageError{Op: op, Key: key, Goroutine: gid, Err: err}
}
