package main

import (
	"context"
	"time"

	prompt "github.com/goliatone/go-prompt"
	"github.com/goliatone/go-prompt/cron"
)

// drainTicks bounds the ticks run after input closes, enough to answer
// every complete line still buffered.
const drainTicks = 1024

type ticker interface {
	Update() error
	Stats() prompt.Stats
}

func serve(ctx context.Context, p ticker, port Port, interval time.Duration, logger prompt.Logger) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-t.C:
		}

		if err := p.Update(); err != nil {
			logger.Error("update failed: %v", err)
		}
		if port.Closed() {
			drain(p)
			logger.Info("input closed")
			return nil
		}
	}
}

// drain ticks until a tick consumes nothing.
func drain(p ticker) {
	for i := 0; i < drainTicks; i++ {
		before := consumed(p.Stats())
		_ = p.Update()
		if consumed(p.Stats()) == before {
			return
		}
	}
}

func consumed(s prompt.Stats) uint64 {
	return s.Parsed + s.ParseErrors + s.Dropped
}

func heartbeat(p ticker, logger prompt.Logger) cron.Job {
	return func(context.Context) error {
		s := p.Stats()
		logger.Info("heartbeat ticks=%d parsed=%d replies=%d parse_errors=%d dispatch_errors=%d dropped=%d",
			s.Ticks, s.Parsed, s.Replies, s.ParseErrors, s.DispatchErrors, s.Dropped)
		return nil
	}
}
