package objectlog

import (
	"context"
	"testing"
	"time"
)

func TestWaitForAppendTimeout(t *testing.T) {
	l := newTestLog(t)
	if l.WaitForAppend(10 * time.Millisecond) {
		t.Fatalf("expected timeout on idle log")
	}
}

func TestWaitForAppendWakes(t *testing.T) {
	l := newTestLog(t)
	done := make(chan bool, 1)
	go func() { done <- l.WaitForAppend(2 * time.Second) }()

	// give the waiter a moment to block
	time.Sleep(5 * time.Millisecond)
	if _, err := l.Append(context.Background(), obj(1, 0, "x")); err != nil {
		t.Fatalf("append: %v", err)
	}
	select {
	case woke := <-done:
		if !woke {
			t.Fatalf("waiter timed out despite append")
		}
	case <-time.After(time.Second):
		t.Fatalf("waiter never woke")
	}
}
