// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"testing"
	"time"
)

func TestServeGracefulShutdown(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", NewServer("probe", "1.0.0"))
	}()

	// Let the listener come up, then stop.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestServeBadAddr(t *testing.T) {
	t.Parallel()

	if err := Serve(t.Context(), "256.0.0.1:0", NewServer("probe", "1.0.0")); err == nil {
		t.Fatal("Serve() error = nil, want listen failure")
	}
}
