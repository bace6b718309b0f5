// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gls

import (
	"cmp"
	"slices"

	"github.com/kolkov/scopedtls/internal/goid"
)

// Leak describes a goroutine that exited while still holding bindings.
type Leak struct {
	// Goroutine is the ID of the exited goroutine.
	Goroutine int64

	// Cells is the number of slots it left bound.
	Cells int
}

// Sweep reclaims the Locals of goroutines that no longer exist and
// returns the ones that still held cells, sorted by goroutine ID.
//
// Algorithm:
//  1. Record the registration counter as the cutoff
//  2. Take a snapshot of live goroutine IDs
//  3. Drop every Local born at or before the cutoff whose goroutine is
//     absent from the snapshot
//
// A Local born at or before the cutoff belonged to a goroutine that was
// running before the snapshot, so its absence means it has exited.
// Goroutine IDs are never reused, so the Local can never be touched again.
//
// Safe for concurrent calls.
func (t *Table) Sweep() []Leak {
	cutoff := t.born.Load()

	liveGIDs := goid.Live()
	liveSet := make(map[int64]bool, len(liveGIDs))
	for _, gid := range liveGIDs {
		liveSet[gid] = true
	}

	var leaks []Leak
	t.locals.Range(func(_, value any) bool {
		local := value.(*Local)
		if local.born > cutoff || liveSet[local.gid] {
			return true
		}
		if !t.locals.CompareAndDelete(local.gid, local) {
			return true
		}
		t.size.Add(-1)
		if cells := local.cellCount.Load(); cells > 0 {
			t.bound.Add(-1)
			leaks = append(leaks, Leak{Goroutine: local.gid, Cells: int(cells)})
		}
		return true
	})

	t.sweeps.Add(1)
	t.reclaimed.Add(uint64(len(leaks)))

	slices.SortFunc(leaks, func(a, b Leak) int {
		return cmp.Compare(a.Goroutine, b.Goroutine)
	})
	return leaks
}

// sweepAndReport runs a background sweep and hands any leaks to onLeak.
func (t *Table) sweepAndReport() {
	defer t.sweeping.Store(false)

	leaks := t.Sweep()
	if len(leaks) > 0 && t.onLeak != nil {
		t.onLeak(leaks)
	}
}
