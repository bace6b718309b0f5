// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package goid identifies goroutines.
//
// Go deliberately hides goroutine identity, but the runtime prints it in
// every stack trace header:
//
//	goroutine 123 [running]:
//
// ID reads the calling goroutine's ID through petermattis/goid, which
// agrees with that header. Live parses a full runtime.Stack dump to list
// every goroutine that currently exists.
//
// Goroutine IDs are allocated monotonically by the runtime and never
// reused, so an ID that is absent from a Live snapshot belongs to a
// goroutine that has exited for good.
package goid
