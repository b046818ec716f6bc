package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
	"channeldirector/contexts/channel-ops/automation-service/ports"

	"github.com/google/uuid"
)

type outboxRow struct {
	message     ports.OutboxMessage
	publishedAt *time.Time
}

// Store is the in-memory entity store: sole owner of all automations and run
// logs. Every value crossing the boundary is deep-copied so callers can never
// mutate store state behind the lock.
type Store struct {
	mu sync.RWMutex

	automations map[string]entities.Automation
	order       []string
	tombstones  map[string]struct{}
	runLogs     []entities.RunLog
	outbox      []outboxRow
}

func NewStore(seed []entities.Automation) *Store {
	store := &Store{
		automations: make(map[string]entities.Automation, len(seed)),
		order:       make([]string, 0, len(seed)),
		tombstones:  make(map[string]struct{}),
	}
	for _, item := range seed {
		if _, exists := store.automations[item.AutomationID]; exists {
			continue
		}
		store.automations[item.AutomationID] = cloneAutomation(item)
		store.order = append(store.order, item.AutomationID)
	}
	return store
}

func (s *Store) CreateAutomation(_ context.Context, automation entities.Automation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.automations[automation.AutomationID]; exists {
		return domainerrors.ErrInvalidAutomationInput
	}
	// Deleted ids are retired for good: run logs keyed on them must stay
	// unambiguous.
	if _, deleted := s.tombstones[automation.AutomationID]; deleted {
		return domainerrors.ErrInvalidAutomationInput
	}
	s.automations[automation.AutomationID] = cloneAutomation(automation)
	s.order = append(s.order, automation.AutomationID)
	return nil
}

func (s *Store) GetAutomation(_ context.Context, automationID string) (entities.Automation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.automations[strings.TrimSpace(automationID)]
	if !exists {
		return entities.Automation{}, domainerrors.ErrAutomationNotFound
	}
	return cloneAutomation(item), nil
}

func (s *Store) UpdateAutomation(_ context.Context, automation entities.Automation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.automations[automation.AutomationID]
	if !exists {
		return domainerrors.ErrAutomationNotFound
	}
	next := cloneAutomation(automation)
	// A snapshot read before the run engine's claim must not write a stale
	// status back over it; the claim stands until CompleteRun releases it.
	if current.Status == entities.AutomationStatusRunning {
		next.Status = entities.AutomationStatusRunning
	}
	s.automations[automation.AutomationID] = next
	return nil
}

func (s *Store) DeleteAutomation(_ context.Context, automationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	automationID = strings.TrimSpace(automationID)
	if _, exists := s.automations[automationID]; !exists {
		return domainerrors.ErrAutomationNotFound
	}
	delete(s.automations, automationID)
	s.tombstones[automationID] = struct{}{}
	for i, id := range s.order {
		if id == automationID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) ListAutomations(_ context.Context, filter ports.AutomationFilter) ([]entities.Automation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Automation, 0, len(s.order))
	for _, id := range s.order {
		item := s.automations[id]
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		items = append(items, cloneAutomation(item))
	}
	return items, nil
}

func (s *Store) ListDueAutomations(_ context.Context, now time.Time, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	due := make([]string, 0)
	for _, id := range s.order {
		if limit > 0 && len(due) >= limit {
			break
		}
		item := s.automations[id]
		if item.Status == entities.AutomationStatusRunning {
			continue
		}
		if item.Schedule.NextRun.After(now) {
			continue
		}
		due = append(due, id)
	}
	return due, nil
}

// BeginRun is the single atomic claim protecting the at-most-one-run
// invariant: lookup, status check, and transition happen under one lock.
func (s *Store) BeginRun(_ context.Context, automationID string, _ time.Time) (entities.Automation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.automations[strings.TrimSpace(automationID)]
	if !exists {
		return entities.Automation{}, domainerrors.ErrAutomationNotFound
	}
	if !item.CanStartRun() {
		return entities.Automation{}, domainerrors.ErrRunInProgress
	}
	item.Status = entities.AutomationStatusRunning
	s.automations[item.AutomationID] = item
	return cloneAutomation(item), nil
}

// CompleteRun persists the log and folds the run's results into the currently
// stored record. Only run-owned fields are written, so lifecycle edits that
// committed while the run was in flight survive; a failed run owns nothing but
// the status transition. When the automation was deleted mid-run only the log
// is kept; it records history.
func (s *Store) CompleteRun(_ context.Context, automation entities.Automation, log entities.RunLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runLogs = append(s.runLogs, cloneRunLog(log))
	current, exists := s.automations[automation.AutomationID]
	if !exists {
		return nil
	}
	current.Status = automation.Status
	if log.Status == entities.RunStatusCompleted {
		current.Performance = automation.Performance
		current.Schedule.NextRun = automation.Schedule.NextRun
		if automation.LastRunAt != nil {
			lastRunAt := *automation.LastRunAt
			current.LastRunAt = &lastRunAt
		}
	}
	s.automations[automation.AutomationID] = current
	return nil
}

func (s *Store) ListRunLogs(_ context.Context, automationID string) ([]entities.RunLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	automationID = strings.TrimSpace(automationID)
	logs := make([]entities.RunLog, 0, len(s.runLogs))
	for i := len(s.runLogs) - 1; i >= 0; i-- {
		item := s.runLogs[i]
		if automationID != "" && item.AutomationID != automationID {
			continue
		}
		logs = append(logs, cloneRunLog(item))
	}
	return logs, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     uuid.NewString(),
			EventType:    envelope.EventType,
			PartitionKey: envelope.EntityID,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAtUTC,
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.publishedAt != nil {
			continue
		}
		pending = append(pending, cloneOutboxMessage(row.message))
		if limit > 0 && len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			stamped := publishedAt
			s.outbox[i].publishedAt = &stamped
			return nil
		}
	}
	return domainerrors.ErrAutomationNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneAutomation(item entities.Automation) entities.Automation {
	clone := item
	clone.CrossPost = append([]entities.Platform(nil), item.CrossPost...)
	clone.Schedule.DistributionChannels = append([]entities.Platform(nil), item.Schedule.DistributionChannels...)
	if item.LastRunAt != nil {
		lastRun := *item.LastRunAt
		clone.LastRunAt = &lastRun
	}
	clone.Steps = make([]entities.Step, len(item.Steps))
	for i, step := range item.Steps {
		clone.Steps[i] = cloneStep(step)
	}
	return clone
}

func cloneStep(step entities.Step) entities.Step {
	clone := step
	clone.Tools = append([]string(nil), step.Tools...)
	if step.Configuration != nil {
		clone.Configuration = make(map[string]any, len(step.Configuration))
		for key, value := range step.Configuration {
			clone.Configuration[key] = value
		}
	}
	return clone
}

func cloneRunLog(log entities.RunLog) entities.RunLog {
	clone := log
	clone.Messages = append([]entities.RunMessage(nil), log.Messages...)
	return clone
}

func cloneOutboxMessage(message ports.OutboxMessage) ports.OutboxMessage {
	clone := message
	clone.Payload = append([]byte(nil), message.Payload...)
	return clone
}
