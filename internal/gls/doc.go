// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gls implements goroutine-local binding storage.
//
// A Table maps goroutine IDs to a Local, and each Local maps slot
// identities to a Cell. A Cell holds at most one Binding: a type-erased,
// non-owning pointer to data that lives on some caller's stack (or heap)
// and is valid only while the guard that installed it is live.
//
// Ownership rules:
//   - A Local and its Cells are read and written only by the goroutine
//     whose ID keys it, so cells need no locks or atomics.
//   - The Table index itself is a sync.Map; it is the only structure
//     shared between goroutines.
//   - Idle cells are dropped eagerly. A Local is registered on the
//     goroutine's first Acquire and kept for the goroutine's lifetime, so
//     repeated bindings on one goroutine register once.
//
// Locals of exited goroutines are reclaimed by Sweep, which compares the
// table against a snapshot of live goroutines. An exited goroutine whose
// Local still holds cells had a guard that was never released; Sweep
// reports it as a Leak.
package gls
