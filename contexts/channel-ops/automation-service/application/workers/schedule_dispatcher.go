package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "channeldirector/contexts/channel-ops/automation-service/application"
	"channeldirector/contexts/channel-ops/automation-service/application/commands"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

// ScheduleDispatcher sweeps automations whose next run has come due and feeds
// them to the run engine. One bad automation never stops the sweep.
type ScheduleDispatcher struct {
	Due       ports.DueAutomationLister
	Runner    commands.RunAutomationUseCase
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (d ScheduleDispatcher) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(d.Logger)
	now := time.Now().UTC()
	if d.Clock != nil {
		now = d.Clock.Now().UTC()
	}

	limit := d.BatchSize
	if limit <= 0 {
		limit = 100
	}

	due, err := d.Due.ListDueAutomations(ctx, now, limit)
	if err != nil {
		logger.Error("due automation sweep failed",
			"event", "automation_dispatch_list_failed",
			"module", "channel-ops/automation-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	dispatched := 0
	for _, automationID := range due {
		if _, err := d.Runner.Execute(ctx, automationID); err != nil {
			// A concurrent run or an interleaved delete is expected under
			// load; anything else is worth a log line, never a sweep abort.
			if errors.Is(err, domainerrors.ErrRunInProgress) ||
				errors.Is(err, domainerrors.ErrAutomationNotFound) {
				continue
			}
			logger.Error("scheduled run dispatch failed",
				"event", "automation_dispatch_run_failed",
				"module", "channel-ops/automation-service",
				"layer", "worker",
				"automation_id", automationID,
				"error", err.Error(),
			)
			continue
		}
		dispatched++
	}

	if dispatched > 0 {
		logger.Info("schedule dispatch sweep completed",
			"event", "automation_dispatch_completed",
			"module", "channel-ops/automation-service",
			"layer", "worker",
			"due_count", len(due),
			"dispatched_count", dispatched,
		)
	}
	return nil
}
