// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gls

import (
	"sync"
	"sync/atomic"
)

// SweepInterval is the number of Local registrations between background
// sweeps.
const SweepInterval = 1000

// keySeq hands out process-unique slot identities.
var keySeq atomic.Uint64

// NextKeyID returns a new slot identity. IDs start at 1.
func NextKeyID() uint64 {
	return keySeq.Add(1)
}

// Local holds the cells of one goroutine.
//
// gid and born are immutable after registration and may be read by any
// goroutine. cells belongs to the owning goroutine alone; cellCount
// mirrors len(cells) for readers on other goroutines.
type Local struct {
	gid       int64
	born      uint64
	cells     map[uint64]*Cell
	cellCount atomic.Int32
}

// Table maps goroutine IDs to their Local.
type Table struct {
	// locals maps int64 (goroutine ID) to *Local.
	// A Local is stored on the goroutine's first Acquire and stays until a
	// sweep finds the goroutine gone, so registrations count goroutines,
	// not bindings.
	locals sync.Map

	// born counts registrations and stamps each Local, so a sweep can
	// tell Locals that predate its live-goroutine snapshot from ones
	// registered concurrently.
	born atomic.Uint64

	size      atomic.Int64 // Locals in the table
	bound     atomic.Int64 // Locals with at least one cell
	sweeps    atomic.Uint64
	reclaimed atomic.Uint64

	// sweeping is set while a background sweep runs; at most one is in
	// flight.
	sweeping atomic.Bool

	interval uint64
	onLeak   func([]Leak)
}

// Stats is a point-in-time summary of a Table.
type Stats struct {
	// Goroutines is the number of goroutines with at least one cell.
	Goroutines int64

	// Locals is the number of goroutines registered and not yet swept,
	// including ones that currently hold nothing.
	Locals int64

	// Registrations is the total number of Locals ever created.
	Registrations uint64

	// Sweeps is the number of completed sweeps.
	Sweeps uint64

	// Reclaimed is the number of exited goroutines found still holding
	// cells.
	Reclaimed uint64
}

// New creates a Table. Every interval registrations a background sweep
// runs, unless one is already running, and passes any leaks it found to
// onLeak. An interval of zero disables background sweeps; onLeak may be
// nil.
func New(interval uint64, onLeak func([]Leak)) *Table {
	return &Table{interval: interval, onLeak: onLeak}
}

// Lookup returns the cell for key on goroutine gid, or nil if the
// goroutine holds no cell for key. It never allocates.
//
// Must be called from goroutine gid.
func (t *Table) Lookup(gid int64, key uint64) *Cell {
	v, ok := t.locals.Load(gid)
	if !ok {
		return nil
	}
	return v.(*Local).cells[key]
}

// Acquire returns the cell for key on goroutine gid, creating an empty
// one on first touch.
//
// Must be called from goroutine gid.
func (t *Table) Acquire(gid int64, key uint64) *Cell {
	var local *Local
	if v, ok := t.locals.Load(gid); ok {
		local = v.(*Local)
	} else {
		local = t.register(gid)
	}

	if c, ok := local.cells[key]; ok {
		return c
	}
	c := &Cell{}
	local.cells[key] = c
	if local.cellCount.Add(1) == 1 {
		t.bound.Add(1)
	}
	return c
}

// Release drops c if it is idle. It is a no-op while c still holds a
// binding. The goroutine's Local stays registered for its next Acquire.
//
// Must be called from goroutine gid.
func (t *Table) Release(gid int64, key uint64, c *Cell) {
	if !c.Idle() {
		return
	}
	v, ok := t.locals.Load(gid)
	if !ok {
		return
	}
	local := v.(*Local)
	if local.cells[key] != c {
		return
	}
	delete(local.cells, key)
	if local.cellCount.Add(-1) == 0 {
		t.bound.Add(-1)
	}
}

// Stats returns a snapshot of the table counters.
func (t *Table) Stats() Stats {
	return Stats{
		Goroutines:    t.bound.Load(),
		Locals:        t.size.Load(),
		Registrations: t.born.Load(),
		Sweeps:        t.sweeps.Load(),
		Reclaimed:     t.reclaimed.Load(),
	}
}

// register creates and publishes a Local for gid.
func (t *Table) register(gid int64) *Local {
	born := t.born.Add(1)
	local := &Local{
		gid:   gid,
		born:  born,
		cells: make(map[uint64]*Cell),
	}
	t.locals.Store(gid, local)
	t.size.Add(1)

	if t.interval > 0 && born%t.interval == 0 && t.sweeping.CompareAndSwap(false, true) {
		// Sweeping walks every goroutine stack; keep it off the caller.
		go t.sweepAndReport()
	}
	return local
}
