// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gls

// Cell is the storage for one slot on one goroutine.
//
// Invariant: current != nil implies depth > 0. The reverse does not hold:
// while a binding is borrowed the cell reads as empty but its guard is
// still live.
type Cell struct {
	current *Binding
	depth   uint32
}

// Current returns the visible binding, or nil if the cell is empty.
func (c *Cell) Current() *Binding {
	return c.current
}

// Depth returns the number of live guards on the cell.
func (c *Cell) Depth() uint32 {
	return c.depth
}

// Idle reports whether the cell holds nothing and has no live guards.
func (c *Cell) Idle() bool {
	return c.current == nil && c.depth == 0
}

// Push makes b the visible binding and returns the new depth, which the
// installing guard must present again in Restore.
func (c *Cell) Push(b *Binding) uint32 {
	c.current = b
	c.depth++
	return c.depth
}

// Restore undoes the Push that returned depth, writing saved back as the
// visible binding and poisoning b.
//
// Releases must mirror installs in LIFO order. Restore returns
// ErrOutOfOrder if a later guard is still live and ErrBorrowed if b is
// currently lent out; in both cases the cell is left untouched.
func (c *Cell) Restore(b *Binding, depth uint32, saved *Binding) error {
	if c.depth != depth {
		return ErrOutOfOrder
	}
	if c.current != b {
		return ErrBorrowed
	}
	c.current = saved
	c.depth--
	b.Poison()
	return nil
}

// Borrow takes the visible binding for exclusive use. Until Return, the
// cell reads as empty, so a reentrant access cannot alias the reference.
func (c *Cell) Borrow() *Binding {
	b := c.current
	c.current = nil
	return b
}

// Return gives back a binding taken by Borrow. It fails with
// ErrOutOfOrder if something installed during the borrow is still visible.
func (c *Cell) Return(b *Binding) error {
	if c.current != nil {
		return ErrOutOfOrder
	}
	c.current = b
	return nil
}
