// Package scheduler runs periodic background work.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type Task func(ctx context.Context) error

// Every runs task now and then once per interval until ctx is done. A failed
// run is logged and the schedule continues.
func Every(ctx context.Context, log zerolog.Logger, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		if err := task(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Str("task", name).Msg("scheduled run failed")
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
