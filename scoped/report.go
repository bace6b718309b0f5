// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoped

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/kolkov/scopedtls/internal/gls"
)

var (
	// reportMu serializes reports and guards reportOut.
	reportMu sync.Mutex

	// reportOut receives leak reports.
	reportOut io.Writer = os.Stderr
)

// SetReportOutput redirects leak reports to w. A nil w discards them.
func SetReportOutput(w io.Writer) {
	reportMu.Lock()
	defer reportMu.Unlock()

	if w == nil {
		w = io.Discard
	}
	reportOut = w
}

// Reclaim frees the storage of goroutines that exited while holding
// unreleased guards, reports each one, and returns how many were found.
//
// Reclaim also runs automatically in the background as goroutines take
// their first binding. It is only needed to reclaim storage promptly.
func Reclaim() int {
	leaks := table.Sweep()
	reportLeaks(leaks)
	return len(leaks)
}

// reportLeaks writes one report per leaked goroutine.
func reportLeaks(leaks []gls.Leak) {
	if len(leaks) == 0 {
		return
	}

	reportMu.Lock()
	defer reportMu.Unlock()

	for _, leak := range leaks {
		formatLeak(reportOut, leak)
	}
}

// formatLeak writes a leak report:
//
//	==================
//	WARNING: LEAKED BINDING
//	goroutine 7 exited holding 1 bound key(s)
//	  (a Guard returned by Install was never released)
//	==================
//
//nolint:errcheck // Error handling omitted for report output
func formatLeak(w io.Writer, leak gls.Leak) {
	fmt.Fprintf(w, "==================\n")
	fmt.Fprintf(w, "WARNING: LEAKED BINDING\n")
	fmt.Fprintf(w, "goroutine %d exited holding %d bound key(s)\n", leak.Goroutine, leak.Cells)
	fmt.Fprintf(w, "  (a Guard returned by Install was never released)\n")
	fmt.Fprintf(w, "==================\n")
}
