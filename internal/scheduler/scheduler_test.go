package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestEveryRunsImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int32
	done := make(chan struct{})
	go func() {
		Every(ctx, zerolog.Nop(), 10*time.Millisecond, "test", func(context.Context) error {
			if n.Add(1) >= 3 {
				cancel()
			}
			return errors.New("keep going")
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Every did not stop after cancel")
	}
	if got := n.Load(); got < 3 {
		t.Fatalf("runs = %d, want >= 3", got)
	}
}

func TestEveryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var n atomic.Int32
	Every(ctx, zerolog.Nop(), time.Hour, "test", func(context.Context) error {
		n.Add(1)
		return nil
	})
	if n.Load() != 1 {
		t.Fatalf("runs = %d, want the immediate run only", n.Load())
	}
}
