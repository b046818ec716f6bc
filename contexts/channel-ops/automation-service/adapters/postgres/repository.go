package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
	"channeldirector/contexts/channel-ops/automation-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateAutomation(ctx context.Context, automation entities.Automation) error {
	row, err := automationModelFromEntity(automation)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidAutomationInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetAutomation(ctx context.Context, automationID string) (entities.Automation, error) {
	var row automationModel
	err := r.db.WithContext(ctx).
		Where("automation_id = ? AND deleted_at IS NULL", strings.TrimSpace(automationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Automation{}, domainerrors.ErrAutomationNotFound
		}
		return entities.Automation{}, err
	}
	return row.toEntity()
}

func (r *Repository) UpdateAutomation(ctx context.Context, automation entities.Automation) error {
	row, err := automationModelFromEntity(automation)
	if err != nil {
		return err
	}
	updates := row.asUpdates()
	// A snapshot read before the run engine's claim must not write a stale
	// status back over it; the claim stands until CompleteRun releases it.
	updates["status"] = gorm.Expr(
		"CASE WHEN status = ? THEN status ELSE ? END",
		string(entities.AutomationStatusRunning), row.Status,
	)
	result := r.db.WithContext(ctx).
		Model(&automationModel{}).
		Where("automation_id = ? AND deleted_at IS NULL", row.AutomationID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAutomationNotFound
	}
	return nil
}

func (r *Repository) DeleteAutomation(ctx context.Context, automationID string) error {
	// Rows are tombstoned, not removed: run logs reference the id and the id
	// must never be reissued.
	result := r.db.WithContext(ctx).
		Model(&automationModel{}).
		Where("automation_id = ? AND deleted_at IS NULL", strings.TrimSpace(automationID)).
		Update("deleted_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAutomationNotFound
	}
	return nil
}

func (r *Repository) ListAutomations(ctx context.Context, filter ports.AutomationFilter) ([]entities.Automation, error) {
	query := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at ASC")
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var rows []automationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Automation, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) ListDueAutomations(ctx context.Context, now time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&automationModel{}).
		Where("deleted_at IS NULL AND status <> ? AND next_run <= ?", string(entities.AutomationStatusRunning), now).
		Order("next_run ASC").
		Limit(limit).
		Pluck("automation_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// BeginRun claims the run with a conditional update so two concurrent run
// requests can never both observe a claimable status.
func (r *Repository) BeginRun(ctx context.Context, automationID string, _ time.Time) (entities.Automation, error) {
	automationID = strings.TrimSpace(automationID)

	var claimed automationModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&automationModel{}).
			Where("automation_id = ? AND deleted_at IS NULL AND status <> ?",
				automationID, string(entities.AutomationStatusRunning)).
			Update("status", string(entities.AutomationStatusRunning))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.
				Model(&automationModel{}).
				Where("automation_id = ? AND deleted_at IS NULL", automationID).
				Count(&count).
				Error; err != nil {
				return err
			}
			if count == 0 {
				return domainerrors.ErrAutomationNotFound
			}
			return domainerrors.ErrRunInProgress
		}
		return tx.
			Where("automation_id = ?", automationID).
			First(&claimed).
			Error
	})
	if err != nil {
		return entities.Automation{}, err
	}
	return claimed.toEntity()
}

func (r *Repository) CompleteRun(ctx context.Context, automation entities.Automation, log entities.RunLog) error {
	automationRow, err := automationModelFromEntity(automation)
	if err != nil {
		return err
	}
	logRow, err := runLogModelFromEntity(log)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&logRow).Error; err != nil {
			return err
		}
		// The automation may have been deleted while the run was in flight;
		// the log above still stands on its own. Only run-owned columns are
		// written so lifecycle edits committed during the run survive.
		return tx.
			Model(&automationModel{}).
			Where("automation_id = ? AND deleted_at IS NULL", automationRow.AutomationID).
			Updates(automationRow.asRunUpdates(log.Status)).
			Error
	})
}

func (r *Repository) ListRunLogs(ctx context.Context, automationID string) ([]entities.RunLog, error) {
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if strings.TrimSpace(automationID) != "" {
		query = query.Where("automation_id = ?", strings.TrimSpace(automationID))
	}

	var rows []runLogModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	logs := make([]entities.RunLog, 0, len(rows))
	for _, row := range rows {
		log, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.EntityID,
		Payload:      string(payload),
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAtUTC,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      []byte(row.Payload),
			CreatedAt:    row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAutomationNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
