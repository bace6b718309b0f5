// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scoped provides scoped, mutable, goroutine-local bindings.
//
// A [Key] names a slot that holds, per goroutine, a pointer to a value
// owned by some caller further up the stack. The pointer is only in place
// while the scope that bound it is running, so deeply nested code can
// reach the value without threading a parameter through every call, and
// no code can reach it after that scope has returned.
//
// # Quick Start
//
//	var counter = scoped.NewKey[int]("counter")
//
//	func main() {
//		n := 10
//		counter.Set(&n, func() {
//			increment()
//		})
//		fmt.Println(n) // 11
//	}
//
//	func increment() {
//		counter.With(func(n *int) {
//			*n++
//		})
//	}
//
// # API Overview
//
// Binding:
//   - [Key.Set], [SetResult]: bind a pointer for the duration of a function
//   - [Key.Install], [Guard.Release]: bind a pointer until an explicit,
//     deferred release
//
// Access:
//   - [Key.With], [WithResult]: exclusive access; panics if unbound
//   - [Key.TryWith], [TryWithResult]: exclusive access; [ErrUnbound] if unbound
//   - [Key.IsSet]: whether a binding is visible
//
// Maintenance:
//   - [Reclaim], [SetReportOutput]: recover storage of goroutines that exited
//     with unreleased guards
//   - [GetInfo]: version and storage statistics
//
// # Scoping Rules
//
// Every goroutine starts with every key unbound. Bindings nest: binding a
// key that is already bound saves the outer binding, and releasing the
// inner one restores it. Releases must happen in reverse order of
// installation. Set enforces that by construction; with Install, always
// release with defer in the same function:
//
//	g := counter.Install(&n)
//	defer g.Release()
//
// Bindings are released on every exit path, including panics and
// runtime.Goexit.
//
// Bindings never cross goroutines. A goroutine started while a key is
// bound sees the key unbound; pass the value explicitly if it must be
// shared.
//
// # Exclusive Access
//
// The pointer handed to a With callback is valid only until the callback
// returns and must not be retained. While the callback runs, the key reads
// as unbound on that goroutine, so a reentrant With cannot alias the
// pointer. Binding the key again inside the callback is allowed.
//
// # Usage Violations
//
// Misuse that would corrupt the restore chain panics with a [*UsageError]:
// releasing out of order, releasing on another goroutine, releasing while
// the binding is borrowed by With, releasing a Guard that did not come from
// Install, binding a nil pointer, and calling With on an unbound key.
// Released bindings are poisoned, so reading a stale binding panics with a
// [*UsageError] wrapping [ErrStale] rather than exposing a reference to a
// finished scope.
package scoped
