// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoped

import (
	"github.com/kolkov/scopedtls/internal/goid"
	"github.com/kolkov/scopedtls/internal/gls"
)

// Guard is the capability to undo one Install.
//
// A Guard is created only by Key.Install and handed out by pointer; passing
// the pointer on transfers the duty to release it. Copying the struct is a
// vet error, and releasing a copy panics.
//
// Lifecycle: created by Install, live until the first Release, inert after.
type Guard[T any] struct {
	noCopy noCopy

	key      *Key[T]
	gid      int64
	cell     *gls.Cell
	binding  *gls.Binding
	saved    *gls.Binding
	depth    uint32
	released bool
}

// Release restores the binding that was visible when the guard was
// installed and poisons the guard's own binding. Calls after the first are
// no-ops.
//
// Release panics with a *UsageError if the guard was not created by
// Install, if it is called on a goroutine other than the installer's,
// while a later guard for the same key is still live, or while the binding
// is borrowed by a With callback.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}

	id := goid.ID()
	if g.cell == nil {
		panic(misuse("Release", "", id, ErrNotInstalled))
	}
	if id != g.gid {
		panic(misuse("Release", g.key.String(), id, ErrForeignGoroutine))
	}
	if err := g.cell.Restore(g.binding, g.depth, g.saved); err != nil {
		panic(misuse("Release", g.key.String(), id, err))
	}

	g.released = true
	table.Release(g.gid, g.key.id, g.cell)
	g.cell, g.binding, g.saved = nil, nil, nil
}

// Released reports whether Release has completed.
func (g *Guard[T]) Released() bool {
	return g.released
}

// Key returns the key the guard was installed on.
func (g *Guard[T]) Key() *Key[T] {
	return g.key
}
