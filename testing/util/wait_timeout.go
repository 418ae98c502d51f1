package util

import (
	"testing"
	"time"
)

// WaitForSignal fails the test if ch is not closed or written to within timeout.
func WaitForSignal(t testing.TB, ch <-chan struct{}, timeout time.Duration) {
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("timeout after %s", timeout)
	}
}

// RequireNotClosed fails the test if ch is already closed.
func RequireNotClosed(t testing.TB, ch <-chan struct{}) {
	select {
	case <-ch:
		t.Fatal("channel closed unexpectedly")
	default:
	}
}
