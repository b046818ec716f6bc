package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
)

// Nested automation structure (steps, platforms, run messages) is stored as
// jsonb documents; scalar columns stay queryable for filtering and ordering.
type automationModel struct {
	AutomationID         string     `gorm:"column:automation_id;primaryKey"`
	Name                 string     `gorm:"column:name"`
	Persona              string     `gorm:"column:persona"`
	TargetAudience       string     `gorm:"column:target_audience"`
	PrimaryPlatform      string     `gorm:"column:primary_platform"`
	CrossPost            string     `gorm:"column:cross_post;type:jsonb"`
	Status               string     `gorm:"column:status"`
	Frequency            string     `gorm:"column:frequency"`
	NextRun              time.Time  `gorm:"column:next_run"`
	CadenceDescription   string     `gorm:"column:cadence_description"`
	DistributionChannels string     `gorm:"column:distribution_channels;type:jsonb"`
	Views                int64      `gorm:"column:views"`
	WatchTimeMinutes     int64      `gorm:"column:watch_time_minutes"`
	Engagements          int64      `gorm:"column:engagements"`
	ConversionRate       float64    `gorm:"column:conversion_rate"`
	Steps                string     `gorm:"column:steps;type:jsonb"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	LastRunAt            *time.Time `gorm:"column:last_run_at"`
	DeletedAt            *time.Time `gorm:"column:deleted_at"`
}

func (automationModel) TableName() string {
	return "automations"
}

type stepDocument struct {
	StepID              string         `json:"step_id"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Type                string         `json:"type"`
	RequiresHumanReview bool           `json:"requires_human_review"`
	DurationMinutes     int            `json:"duration_minutes"`
	Tools               []string       `json:"tools"`
	Configuration       map[string]any `json:"configuration"`
}

func automationModelFromEntity(item entities.Automation) (automationModel, error) {
	crossPost, err := marshalPlatforms(item.CrossPost)
	if err != nil {
		return automationModel{}, err
	}
	channels, err := marshalPlatforms(item.Schedule.DistributionChannels)
	if err != nil {
		return automationModel{}, err
	}

	stepDocs := make([]stepDocument, 0, len(item.Steps))
	for _, step := range item.Steps {
		stepDocs = append(stepDocs, stepDocument{
			StepID:              step.StepID,
			Title:               step.Title,
			Description:         step.Description,
			Type:                string(step.Type),
			RequiresHumanReview: step.RequiresHumanReview,
			DurationMinutes:     step.DurationMinutes,
			Tools:               step.Tools,
			Configuration:       step.Configuration,
		})
	}
	steps, err := json.Marshal(stepDocs)
	if err != nil {
		return automationModel{}, err
	}

	return automationModel{
		AutomationID:         strings.TrimSpace(item.AutomationID),
		Name:                 item.Name,
		Persona:              item.Persona,
		TargetAudience:       item.TargetAudience,
		PrimaryPlatform:      string(item.PrimaryPlatform),
		CrossPost:            crossPost,
		Status:               string(item.Status),
		Frequency:            string(item.Schedule.Frequency),
		NextRun:              item.Schedule.NextRun,
		CadenceDescription:   item.Schedule.CadenceDescription,
		DistributionChannels: channels,
		Views:                item.Performance.Views,
		WatchTimeMinutes:     item.Performance.WatchTimeMinutes,
		Engagements:          item.Performance.Engagements,
		ConversionRate:       item.Performance.ConversionRate,
		Steps:                string(steps),
		CreatedAt:            item.CreatedAt,
		LastRunAt:            item.LastRunAt,
	}, nil
}

// asUpdates feeds gorm Updates with every mutable column; zero values must
// still be written, so a map is used instead of the struct form.
func (m automationModel) asUpdates() map[string]any {
	return map[string]any{
		"name":                  m.Name,
		"persona":               m.Persona,
		"target_audience":       m.TargetAudience,
		"primary_platform":      m.PrimaryPlatform,
		"cross_post":            m.CrossPost,
		"status":                m.Status,
		"frequency":             m.Frequency,
		"next_run":              m.NextRun,
		"cadence_description":   m.CadenceDescription,
		"distribution_channels": m.DistributionChannels,
		"views":                 m.Views,
		"watch_time_minutes":    m.WatchTimeMinutes,
		"engagements":           m.Engagements,
		"conversion_rate":       m.ConversionRate,
		"steps":                 m.Steps,
		"last_run_at":           m.LastRunAt,
	}
}

// asRunUpdates limits a post-run write to the columns the run engine owns, so
// lifecycle edits committed during the run are not clobbered. A failed run
// owns only the status transition.
func (m automationModel) asRunUpdates(runStatus entities.RunStatus) map[string]any {
	updates := map[string]any{
		"status": m.Status,
	}
	if runStatus == entities.RunStatusCompleted {
		updates["views"] = m.Views
		updates["watch_time_minutes"] = m.WatchTimeMinutes
		updates["engagements"] = m.Engagements
		updates["conversion_rate"] = m.ConversionRate
		updates["last_run_at"] = m.LastRunAt
		updates["next_run"] = m.NextRun
	}
	return updates
}

func (m automationModel) toEntity() (entities.Automation, error) {
	crossPost, err := unmarshalPlatforms(m.CrossPost)
	if err != nil {
		return entities.Automation{}, err
	}
	channels, err := unmarshalPlatforms(m.DistributionChannels)
	if err != nil {
		return entities.Automation{}, err
	}

	var stepDocs []stepDocument
	if strings.TrimSpace(m.Steps) != "" {
		if err := json.Unmarshal([]byte(m.Steps), &stepDocs); err != nil {
			return entities.Automation{}, err
		}
	}
	steps := make([]entities.Step, 0, len(stepDocs))
	for _, doc := range stepDocs {
		steps = append(steps, entities.Step{
			StepID:              doc.StepID,
			Title:               doc.Title,
			Description:         doc.Description,
			Type:                entities.StepType(doc.Type),
			RequiresHumanReview: doc.RequiresHumanReview,
			DurationMinutes:     doc.DurationMinutes,
			Tools:               doc.Tools,
			Configuration:       doc.Configuration,
		})
	}

	return entities.Automation{
		AutomationID:    m.AutomationID,
		Name:            m.Name,
		Persona:         m.Persona,
		TargetAudience:  m.TargetAudience,
		PrimaryPlatform: entities.Platform(m.PrimaryPlatform),
		CrossPost:       crossPost,
		Status:          entities.AutomationStatus(m.Status),
		Schedule: entities.Schedule{
			Frequency:            entities.Frequency(m.Frequency),
			NextRun:              m.NextRun,
			CadenceDescription:   m.CadenceDescription,
			DistributionChannels: channels,
		},
		Performance: entities.Performance{
			Views:            m.Views,
			WatchTimeMinutes: m.WatchTimeMinutes,
			Engagements:      m.Engagements,
			ConversionRate:   m.ConversionRate,
		},
		Steps:     steps,
		CreatedAt: m.CreatedAt,
		LastRunAt: m.LastRunAt,
	}, nil
}

type runLogModel struct {
	RunLogID     string    `gorm:"column:run_log_id;primaryKey"`
	AutomationID string    `gorm:"column:automation_id;index"`
	Status       string    `gorm:"column:status"`
	StartedAt    time.Time `gorm:"column:started_at"`
	Messages     string    `gorm:"column:messages;type:jsonb"`
}

func (runLogModel) TableName() string {
	return "automation_run_logs"
}

type runMessageDocument struct {
	StepID    string    `json:"step_id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

func runLogModelFromEntity(log entities.RunLog) (runLogModel, error) {
	docs := make([]runMessageDocument, 0, len(log.Messages))
	for _, message := range log.Messages {
		docs = append(docs, runMessageDocument{
			StepID:    message.StepID,
			Timestamp: message.Timestamp,
			Message:   message.Message,
		})
	}
	messages, err := json.Marshal(docs)
	if err != nil {
		return runLogModel{}, err
	}
	return runLogModel{
		RunLogID:     log.RunLogID,
		AutomationID: log.AutomationID,
		Status:       string(log.Status),
		StartedAt:    log.StartedAt,
		Messages:     string(messages),
	}, nil
}

func (m runLogModel) toEntity() (entities.RunLog, error) {
	var docs []runMessageDocument
	if strings.TrimSpace(m.Messages) != "" {
		if err := json.Unmarshal([]byte(m.Messages), &docs); err != nil {
			return entities.RunLog{}, err
		}
	}
	messages := make([]entities.RunMessage, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, entities.RunMessage{
			StepID:    doc.StepID,
			Timestamp: doc.Timestamp,
			Message:   doc.Message,
		})
	}
	return entities.RunLog{
		RunLogID:     m.RunLogID,
		AutomationID: m.AutomationID,
		Status:       entities.RunStatus(m.Status),
		StartedAt:    m.StartedAt,
		Messages:     messages,
	}, nil
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload;type:jsonb"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "automation_outbox"
}

func marshalPlatforms(platforms []entities.Platform) (string, error) {
	values := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		values = append(values, string(platform))
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func unmarshalPlatforms(encoded string) ([]entities.Platform, error) {
	if strings.TrimSpace(encoded) == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, err
	}
	platforms := make([]entities.Platform, 0, len(values))
	for _, value := range values {
		platforms = append(platforms, entities.Platform(value))
	}
	return platforms, nil
}
