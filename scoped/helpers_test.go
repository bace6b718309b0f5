// Copyright 2025 The scopedtls Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoped

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

// expectUsage runs f and checks that it panics with a *UsageError wrapping want.
func expectUsage(t *testing.T, want error, f func()) *UsageError {
	t.Helper()

	var r any
	func() {
		defer func() { r = recover() }()
		f()
	}()

	if r == nil {
		t.Fatalf("expected panic wrapping %v, got none", want)
	}
	ue, ok := r.(*UsageError)
	if !ok {
		t.Fatalf("panic value = %#v, want *UsageError", r)
	}
	if !errors.Is(ue, want) {
		t.Fatalf("panic = %v, want error wrapping %v", ue, want)
	}
	return ue
}

// verifyUnbound checks that k has no visible binding on this goroutine.
func verifyUnbound[T any](t *testing.T, k *Key[T]) {
	t.Helper()
	if k.IsSet() {
		t.Errorf("%s.IsSet() = true, want false", k)
	}
	err := k.TryWith(func(*T) {
		t.Errorf("%s.TryWith() called f on an unbound key", k)
	})
	if !errors.Is(err, ErrUnbound) {
		t.Errorf("%s.TryWith() = %v, want ErrUnbound", k, err)
	}
}

// verifyBound checks that k is bound on this goroutine to want.
func verifyBound[T comparable](t *testing.T, k *Key[T], want T) {
	t.Helper()
	if !k.IsSet() {
		t.Errorf("%s.IsSet() = false, want true", k)
	}
	got, err := TryWithResult(k, func(v *T) T { return *v })
	if err != nil {
		t.Fatalf("%s.TryWith() = %v", k, err)
	}
	if got != want {
		t.Errorf("%s bound to %v, want %v", k, got, want)
	}
}

// syncBuffer is a bytes.Buffer safe for the background report writer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
