// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoped

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kolkov/scopedtls/internal/goid"
	"github.com/kolkov/scopedtls/internal/gls"
)

// TestReclaim_LeakedGuard tests that a goroutine exiting with an unreleased
// guard is reclaimed and reported.
func TestReclaim_LeakedGuard(t *testing.T) {
	out := &syncBuffer{}
	SetReportOutput(out)
	defer SetReportOutput(os.Stderr)

	before := GetInfo().Reclaimed
	key := NewKey[int]("leaked")

	gidChan := make(chan int64)
	go func() {
		x := 1
		key.Install(&x)
		gidChan <- goid.ID()
	}()
	gid := <-gidChan

	want := fmt.Sprintf("goroutine %d exited holding 1 bound key(s)", gid)
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), want) {
		if time.Now().After(deadline) {
			t.Fatalf("no leak report for goroutine %d; got:\n%s", gid, out.String())
		}
		Reclaim()
		time.Sleep(time.Millisecond)
	}

	if got := GetInfo().Reclaimed; got <= before {
		t.Errorf("GetInfo().Reclaimed = %d, want > %d", got, before)
	}
	if !strings.Contains(out.String(), "WARNING: LEAKED BINDING") {
		t.Errorf("report missing header:\n%s", out.String())
	}
}

// TestReclaim_NothingToReclaim tests that a clean process reports nothing.
func TestReclaim_NothingToReclaim(t *testing.T) {
	out := &syncBuffer{}
	SetReportOutput(out)
	defer SetReportOutput(os.Stderr)

	key := NewKey[int]("clean")
	x := 1
	key.Set(&x, func() {
		if n := Reclaim(); n != 0 {
			t.Errorf("Reclaim() = %d with only live bindings, want 0", n)
		}
	})
	if out.String() != "" {
		t.Errorf("unexpected report:\n%s", out.String())
	}
}

// TestFormatLeak tests the report layout.
func TestFormatLeak(t *testing.T) {
	var buf bytes.Buffer
	formatLeak(&buf, gls.Leak{Goroutine: 7, Cells: 2})

	want := "==================\n" +
		"WARNING: LEAKED BINDING\n" +
		"goroutine 7 exited holding 2 bound key(s)\n" +
		"  (a Guard returned by Install was never released)\n" +
		"==================\n"
	if buf.String() != want {
		t.Errorf("formatLeak() =\n%s\nwant:\n%s", buf.String(), want)
	}
}

// TestSetReportOutput_Nil tests that a nil writer discards reports.
func TestSetReportOutput_Nil(t *testing.T) {
	SetReportOutput(nil)
	defer SetReportOutput(os.Stderr)

	reportMu.Lock()
	out := reportOut
	reportMu.Unlock()
	if out != io.Discard {
		t.Errorf("report output after SetReportOutput(nil) = %T, want io.Discard", out)
	}

	reportLeaks([]gls.Leak{{Goroutine: 1, Cells: 1}})
}
