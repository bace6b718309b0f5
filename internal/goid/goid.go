// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package goid

import (
	"runtime"

	pgoid "github.com/petermattis/goid"
)

// prefix starts every goroutine header in a runtime.Stack dump.
const prefix = "goroutine "

// ID returns the calling goroutine's ID.
//
// The ID is always positive and stable for the goroutine's lifetime.
// petermattis/goid reads g.goid at the runtime's field offset on supported
// toolchains and falls back to stack parsing elsewhere.
//
// Performance: a few ns on supported toolchains.
func ID() int64 {
	return pgoid.Get()
}

// idSlow extracts the goroutine ID by parsing runtime.Stack output.
//
// It is the reference ID() is checked against.
//
// Performance: ~1µs per call (dominated by runtime.Stack).
func idSlow() int64 {
	// Only the first line is needed.
	// Format: "goroutine 123 [running]:\n..."
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the goroutine ID from a stack header.
//
// Expected format: "goroutine 123 [running]:..."
// Returns 0 if the format is invalid.
func parse(buf []byte) int64 {
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}

	var gid int64
	for i := len(prefix); i < len(buf); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			// Usually the space before "[running]".
			break
		}
		gid = gid*10 + int64(c-'0')
	}
	return gid
}
