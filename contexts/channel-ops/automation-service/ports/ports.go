package ports

import (
	"context"
	"time"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	"channeldirector/internal/shared/events"
)

type AutomationFilter struct {
	Status entities.AutomationStatus
}

// AutomationRepository is the lifecycle surface of the entity store.
// ListAutomations keeps creation order; missing ids surface
// ErrAutomationNotFound rather than an unchecked fault.
type AutomationRepository interface {
	CreateAutomation(ctx context.Context, automation entities.Automation) error
	GetAutomation(ctx context.Context, automationID string) (entities.Automation, error)
	UpdateAutomation(ctx context.Context, automation entities.Automation) error
	DeleteAutomation(ctx context.Context, automationID string) error
	ListAutomations(ctx context.Context, filter AutomationFilter) ([]entities.Automation, error)
}

// RunRepository is the run engine's view of the store.
//
// BeginRun atomically claims the idle|scheduled|error -> running transition
// and returns the claimed snapshot; a concurrent claim on the same id yields
// ErrRunInProgress. CompleteRun persists the post-run automation and its run
// log in one linearizable step. Run logs survive automation deletion.
type RunRepository interface {
	BeginRun(ctx context.Context, automationID string, startedAt time.Time) (entities.Automation, error)
	CompleteRun(ctx context.Context, automation entities.Automation, log entities.RunLog) error
	ListRunLogs(ctx context.Context, automationID string) ([]entities.RunLog, error)
}

// DueAutomationLister feeds the schedule dispatcher: ids of automations whose
// next run is at or before now and that are not currently running.
type DueAutomationLister interface {
	ListDueAutomations(ctx context.Context, now time.Time, limit int) ([]string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
