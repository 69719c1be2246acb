package scheduler

import (
	"context"
	"time"

	"live-auction/utils"
)

// Ticker publishes every trigger once per interval
type Ticker struct {
	publisher Publisher
	interval  time.Duration
	now       func() time.Time
}

func NewTicker(publisher Publisher, interval time.Duration) *Ticker {
	return &Ticker{publisher: publisher, interval: interval, now: time.Now}
}

// Run ticks until ctx is cancelled
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	utils.Info("scheduler: ticker started", map[string]any{"interval": t.interval.String()})
	for {
		select {
		case <-ctx.Done():
			utils.Info("scheduler: ticker stopped", nil)
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Tick publishes one round of triggers and returns how many went out
func (t *Ticker) Tick(ctx context.Context) int {
	sent := 0
	for _, trigger := range Triggers {
		if err := t.publisher.Publish(ctx, NewMessage(trigger, t.now())); err != nil {
			utils.Error("scheduler: failed to publish trigger", map[string]any{"trigger": trigger, "error": err.Error()})
			continue
		}
		sent++
	}
	return sent
}
