package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"live-auction/internal/metrics"
	"live-auction/internal/models"
	"live-auction/utils"
)

// Sweeper runs the lifecycle sweeps
type Sweeper interface {
	SweepPromote(ctx context.Context) (models.SweepReport, error)
	SweepResolve(ctx context.Context) (models.SweepReport, error)
}

// Dispatcher routes trigger messages to the matching sweep. A trigger that
// arrives while the same sweep is still running is skipped.
type Dispatcher struct {
	sweeper Sweeper
	running map[Trigger]*sync.Mutex
}

func NewDispatcher(sweeper Sweeper) *Dispatcher {
	running := make(map[Trigger]*sync.Mutex, len(Triggers))
	for _, t := range Triggers {
		running[t] = &sync.Mutex{}
	}
	return &Dispatcher{sweeper: sweeper, running: running}
}

// Handle runs the sweep named by msg. skipped is true when an earlier run of
// the same sweep had not finished yet.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) (report models.SweepReport, skipped bool, err error) {
	if err := msg.Validate(); err != nil {
		metrics.SweepsTotal.WithLabelValues(string(msg.Trigger), "invalid").Inc()
		return models.SweepReport{}, false, err
	}

	lock := d.running[msg.Trigger]
	if !lock.TryLock() {
		metrics.SweepsTotal.WithLabelValues(string(msg.Trigger), "skipped").Inc()
		utils.Debug("scheduler: sweep already running", map[string]any{"trigger": msg.Trigger})
		return models.SweepReport{}, true, nil
	}
	defer lock.Unlock()

	start := time.Now()
	switch msg.Trigger {
	case SaveActiveAuctions:
		report, err = d.sweeper.SweepPromote(ctx)
	case AnnounceAuctionResults:
		report, err = d.sweeper.SweepResolve(ctx)
	}
	metrics.SweepDuration.WithLabelValues(string(msg.Trigger)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SweepsTotal.WithLabelValues(string(msg.Trigger), "error").Inc()
		utils.Error("scheduler: sweep failed", map[string]any{"trigger": msg.Trigger, "error": err.Error()})
		return report, false, fmt.Errorf("scheduler: %s: %w", msg.Trigger, err)
	}

	metrics.SweepsTotal.WithLabelValues(string(msg.Trigger), "ok").Inc()
	metrics.SweepTransitions.WithLabelValues(string(msg.Trigger)).Add(float64(report.Transitioned))
	if report.Transitioned > 0 || report.Failed > 0 {
		utils.Info("scheduler: sweep finished", map[string]any{
			"trigger":      msg.Trigger,
			"scanned":      report.Scanned,
			"transitioned": report.Transitioned,
			"failed":       report.Failed,
		})
	}
	return report, false, nil
}
