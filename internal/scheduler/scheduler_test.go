package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobsearch-engine/internal/scheduler"
)

func TestEveryRunsImmediatelyAndOnTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.Every(ctx, 5*time.Millisecond, "test", func(ctx context.Context) error {
			if runs.Add(1) >= 3 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never stopped")
	}
	require.GreaterOrEqual(t, runs.Load(), int32(3))
}

func TestEveryKeepsGoingAfterTaskError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.Every(ctx, 5*time.Millisecond, "test", func(ctx context.Context) error {
			if runs.Add(1) >= 2 {
				cancel()
				return nil
			}
			return errors.New("one bad run")
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("an erroring task stopped the schedule")
	}
	require.GreaterOrEqual(t, runs.Load(), int32(2))
}
