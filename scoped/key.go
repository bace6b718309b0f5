// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoped

import (
	"fmt"
	"unsafe"

	"github.com/kolkov/scopedtls/internal/goid"
	"github.com/kolkov/scopedtls/internal/gls"
)

// table holds the bindings of every goroutine in the process.
var table = gls.New(gls.SweepInterval, reportLeaks)

// noCopy may be embedded into structs which must not be copied after the
// first use. go vet's copylocks check flags copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Key names a goroutine-local slot holding a *T.
//
// Keys are declared once, usually as package-level variables, and used
// from any goroutine; each goroutine has its own independent slot.
type Key[T any] struct {
	noCopy noCopy

	id   uint64
	name string
}

// NewKey declares a slot for values of type T. The name is used in error
// messages and reports only.
func NewKey[T any](name string) *Key[T] {
	return &Key[T]{id: gls.NextKeyID(), name: name}
}

// String returns the key name.
func (k *Key[T]) String() string {
	if k.name == "" {
		return fmt.Sprintf("key#%d", k.id)
	}
	return k.name
}

// Install binds v to k on the calling goroutine until the returned guard
// is released. Any binding already present is saved and restored on
// release. Install panics with a *UsageError if v is nil.
//
// The caller must release the guard in the same function, normally with
// defer, before v's owner goes out of scope. Prefer Set, which cannot
// leak the guard.
func (k *Key[T]) Install(v *T) *Guard[T] {
	id := goid.ID()
	if v == nil {
		panic(misuse("Install", k.String(), id, ErrNilReference))
	}

	c := table.Acquire(id, k.id)
	g := &Guard[T]{
		key:     k,
		gid:     id,
		cell:    c,
		binding: gls.NewBinding(unsafe.Pointer(v)),
		saved:   c.Current(),
	}
	g.depth = c.Push(g.binding)
	return g
}

// Set binds v to k for the duration of f. The previous binding, if any,
// is restored when f returns or panics.
func (k *Key[T]) Set(v *T, f func()) {
	g := k.Install(v)
	defer g.Release()
	f()
}

// SetResult is Set for functions that return a value.
func SetResult[T, R any](k *Key[T], v *T, f func() R) R {
	g := k.Install(v)
	defer g.Release()
	return f()
}

// IsSet reports whether k has a visible binding on the calling goroutine.
// It is false inside a With callback for the same key.
func (k *Key[T]) IsSet() bool {
	c := table.Lookup(goid.ID(), k.id)
	return c != nil && c.Current() != nil
}

// TryWith calls f with exclusive access to the value bound to k. It
// returns an error wrapping ErrUnbound, without calling f, if k is not
// bound on the calling goroutine.
//
// The pointer passed to f must not be retained after f returns.
func (k *Key[T]) TryWith(f func(*T)) error {
	id := goid.ID()
	c := table.Lookup(id, k.id)
	if c == nil || c.Current() == nil {
		return fmt.Errorf("%w: %s", ErrUnbound, k)
	}
	k.borrow(id, c, f)
	return nil
}

// With is TryWith for call sites where a binding is always present. It
// panics with a *UsageError wrapping ErrUnbound otherwise.
func (k *Key[T]) With(f func(*T)) {
	id := goid.ID()
	c := table.Lookup(id, k.id)
	if c == nil || c.Current() == nil {
		panic(misuse("With", k.String(), id, ErrUnbound))
	}
	k.borrow(id, c, f)
}

// TryWithResult is TryWith for functions that return a value.
func TryWithResult[T, R any](k *Key[T], f func(*T) R) (R, error) {
	var r R
	err := k.TryWith(func(v *T) {
		r = f(v)
	})
	return r, err
}

// WithResult is With for functions that return a value.
func WithResult[T, R any](k *Key[T], f func(*T) R) R {
	var r R
	k.With(func(v *T) {
		r = f(v)
	})
	return r
}

// borrow lends the cell's binding to f and hands it back on every exit
// path. The cell reads as empty in between.
func (k *Key[T]) borrow(id int64, c *gls.Cell, f func(*T)) {
	b := c.Borrow()
	defer func() {
		if err := c.Return(b); err != nil {
			panic(misuse("With", k.String(), id, err))
		}
	}()
	f(k.deref(id, b))
}

// deref is the only conversion from a Binding back to *T. Bindings in a
// Key[T]'s cells are only ever created by that key's Install from a *T.
func (k *Key[T]) deref(id int64, b *gls.Binding) *T {
	p, err := b.Pointer()
	if err != nil {
		panic(misuse("With", k.String(), id, err))
	}
	return (*T)(p)
}
