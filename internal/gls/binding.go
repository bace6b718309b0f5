// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gls

import (
	"errors"
	"unsafe"
)

var (
	// ErrOutOfOrder reports a release that does not match the most
	// recent install on the cell.
	ErrOutOfOrder = errors.New("binding released out of installation order")

	// ErrBorrowed reports a release while the binding is lent out for
	// exclusive access.
	ErrBorrowed = errors.New("binding released while borrowed")

	// ErrStale reports a read through a binding whose guard has already
	// been released.
	ErrStale = errors.New("binding used after release")
)

// Binding is a type-erased, non-owning reference to externally owned data.
//
// The pointer is kept as unsafe.Pointer so the garbage collector still
// traces it. Callers reconstitute the static type at exactly one place.
type Binding struct {
	ptr  unsafe.Pointer
	live bool
}

// NewBinding wraps p in a live binding.
func NewBinding(p unsafe.Pointer) *Binding {
	return &Binding{ptr: p, live: true}
}

// Pointer returns the bound pointer, or ErrStale if the binding has been
// poisoned.
func (b *Binding) Pointer() (unsafe.Pointer, error) {
	if !b.live {
		return nil, ErrStale
	}
	return b.ptr, nil
}

// Live reports whether the binding has not been poisoned.
func (b *Binding) Live() bool {
	return b.live
}

// Poison drops the pointer and marks the binding dead. Any later Pointer
// call fails instead of handing out a reference to a finished scope.
func (b *Binding) Poison() {
	b.ptr = nil
	b.live = false
}
