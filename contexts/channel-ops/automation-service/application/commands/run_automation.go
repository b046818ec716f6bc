package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "channeldirector/contexts/channel-ops/automation-service/application"
	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

const (
	EventTypeRunCompleted = "channel-ops.automation.run.completed"
	EventTypeRunFailed    = "channel-ops.automation.run.failed"

	sourceService = "automation-service"
)

// RunAutomationUseCase is the run engine. One call simulates a full pass
// through the automation's step pipeline and persists an immutable run log.
type RunAutomationUseCase struct {
	Runs        ports.RunRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

type runEventPayload struct {
	AutomationID string `json:"automation_id"`
	RunLogID     string `json:"run_log_id"`
	Status       string `json:"status"`
	MessageCount int    `json:"message_count"`
}

// Execute claims the automation, walks its steps in declared order, and
// persists the automation and run log in one step. A simulated pipeline
// failure still returns the log without error: the run machinery worked, the
// simulated pipeline did not. Only NotFound and an in-flight run are call
// failures.
func (uc RunAutomationUseCase) Execute(ctx context.Context, automationID string) (entities.RunLog, error) {
	logger := application.ResolveLogger(uc.Logger)

	startedAt := uc.Clock.Now().UTC()
	automation, err := uc.Runs.BeginRun(ctx, strings.TrimSpace(automationID), startedAt)
	if err != nil {
		return entities.RunLog{}, err
	}

	runLogID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.RunLog{}, err
	}

	log := entities.RunLog{
		RunLogID:     runLogID,
		AutomationID: automation.AutomationID,
		Status:       entities.RunStatusCompleted,
		StartedAt:    startedAt,
	}

	// Message timestamps advance deterministically from startedAt: one second
	// per message plus the step's simulated effort, so ordering is strict and
	// reproducible in tests.
	cursor := startedAt
	failed := false
	for _, step := range automation.Steps {
		cursor = cursor.Add(time.Second + time.Duration(step.DurationMinutes)*time.Second)
		log.Messages = append(log.Messages, entities.RunMessage{
			StepID:    step.StepID,
			Timestamp: cursor,
			Message:   fmt.Sprintf("Executing %s stage %q for persona %s.", step.Type, step.Title, automation.Persona),
		})

		if step.RequiresHumanReview {
			cursor = cursor.Add(time.Second)
			log.Messages = append(log.Messages, entities.RunMessage{
				StepID:    step.StepID,
				Timestamp: cursor,
				Message:   fmt.Sprintf("Human review checkpoint recorded for %q; continuing without blocking.", step.Title),
			})
		}

		if step.SimulatesFailure() {
			cursor = cursor.Add(time.Second)
			log.Messages = append(log.Messages, entities.RunMessage{
				StepID:    step.StepID,
				Timestamp: cursor,
				Message:   fmt.Sprintf("Unrecoverable failure in %s stage %q; aborting run.", step.Type, step.Title),
			})
			failed = true
			break
		}
	}

	if failed {
		log.Status = entities.RunStatusFailed
		automation.Status = entities.AutomationStatusError
	} else {
		automation.Performance = entities.SimulateGrowth(automation.Performance, automation.Steps)
		automation.LastRunAt = &startedAt
		automation.Schedule.NextRun = entities.NextRunAfter(automation.Schedule.Frequency, startedAt)
		automation.Status = entities.AutomationStatusScheduled
	}

	if err := uc.Runs.CompleteRun(ctx, automation, log); err != nil {
		return entities.RunLog{}, err
	}
	uc.appendRunEvent(ctx, logger, automation, log)

	logger.Info("automation run finished",
		"event", "automation_run_finished",
		"module", "channel-ops/automation-service",
		"layer", "application",
		"automation_id", automation.AutomationID,
		"run_log_id", log.RunLogID,
		"run_status", string(log.Status),
		"message_count", len(log.Messages),
	)
	return log, nil
}

// appendRunEvent is best effort: a full outbox must not fail a run that has
// already been persisted.
func (uc RunAutomationUseCase) appendRunEvent(
	ctx context.Context,
	logger *slog.Logger,
	automation entities.Automation,
	log entities.RunLog,
) {
	if uc.Outbox == nil {
		return
	}

	eventType := EventTypeRunCompleted
	if log.Status == entities.RunStatusFailed {
		eventType = EventTypeRunFailed
	}
	eventID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		logger.Warn("run event id generation failed",
			"event", "automation_run_event_skipped",
			"module", "channel-ops/automation-service",
			"layer", "application",
			"automation_id", automation.AutomationID,
			"error", err.Error(),
		)
		return
	}

	envelope := ports.EventEnvelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  uc.Clock.Now().UTC(),
		CorrelationID:  log.RunLogID,
		EntityType:     "automation_run",
		EntityID:       automation.AutomationID,
		PayloadVersion: 1,
		Payload: runEventPayload{
			AutomationID: automation.AutomationID,
			RunLogID:     log.RunLogID,
			Status:       string(log.Status),
			MessageCount: len(log.Messages),
		},
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		logger.Warn("run event outbox append failed",
			"event", "automation_run_event_skipped",
			"module", "channel-ops/automation-service",
			"layer", "application",
			"automation_id", automation.AutomationID,
			"run_log_id", log.RunLogID,
			"error", err.Error(),
		)
	}
}
