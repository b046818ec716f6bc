package seed

import (
	"fmt"
	"os"
	"time"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type stepDocument struct {
	ID                  string         `yaml:"id"`
	Title               string         `yaml:"title"`
	Description         string         `yaml:"description"`
	Type                string         `yaml:"type"`
	RequiresHumanReview bool           `yaml:"requiresHumanReview"`
	DurationMinutes     int            `yaml:"durationMinutes"`
	Tools               []string       `yaml:"tools"`
	Configuration       map[string]any `yaml:"configuration"`
}

type automationDocument struct {
	ID                 string         `yaml:"id"`
	Name               string         `yaml:"name"`
	Persona            string         `yaml:"persona"`
	TargetAudience     string         `yaml:"targetAudience"`
	PrimaryPlatform    string         `yaml:"primaryPlatform"`
	CrossPost          []string       `yaml:"crossPost"`
	Frequency          string         `yaml:"frequency"`
	CadenceDescription string         `yaml:"cadenceDescription"`
	Steps              []stepDocument `yaml:"steps"`
}

type document struct {
	Automations []automationDocument `yaml:"automations"`
}

// LoadFile reads a YAML fixture of demo automations for the in-memory store.
// Every seeded automation starts idle with zeroed telemetry, exactly as if it
// had just been created.
func LoadFile(path string, now time.Time) ([]entities.Automation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	automations := make([]entities.Automation, 0, len(doc.Automations))
	for i, item := range doc.Automations {
		automation, err := fromDocument(item, now)
		if err != nil {
			return nil, fmt.Errorf("seed automation %d: %w", i, err)
		}
		automations = append(automations, automation)
	}
	return automations, nil
}

func fromDocument(doc automationDocument, now time.Time) (entities.Automation, error) {
	primary := entities.Platform(doc.PrimaryPlatform)
	frequency := entities.Frequency(doc.Frequency)

	crossPost := make([]entities.Platform, 0, len(doc.CrossPost))
	for _, item := range doc.CrossPost {
		crossPost = append(crossPost, entities.Platform(item))
	}
	crossPost, ok := entities.NormalizeCrossPost(primary, crossPost)
	if !ok {
		return entities.Automation{}, fmt.Errorf("invalid cross-post set for %q", doc.Name)
	}

	steps := make([]entities.Step, 0, len(doc.Steps))
	for _, stepDoc := range doc.Steps {
		stepType := entities.StepType(stepDoc.Type)
		if !entities.IsSupportedStepType(stepType) {
			return entities.Automation{}, fmt.Errorf("unsupported step type %q for %q", stepDoc.Type, doc.Name)
		}
		stepID := stepDoc.ID
		if stepID == "" {
			stepID = uuid.NewString()
		}
		steps = append(steps, entities.Step{
			StepID:              stepID,
			Title:               stepDoc.Title,
			Description:         stepDoc.Description,
			Type:                stepType,
			RequiresHumanReview: stepDoc.RequiresHumanReview,
			DurationMinutes:     stepDoc.DurationMinutes,
			Tools:               stepDoc.Tools,
			Configuration:       stepDoc.Configuration,
		})
	}
	if len(steps) == 0 {
		steps = entities.DefaultPipeline()
		for i := range steps {
			steps[i].StepID = uuid.NewString()
		}
	}

	automationID := doc.ID
	if automationID == "" {
		automationID = uuid.NewString()
	}
	automation := entities.Automation{
		AutomationID:    automationID,
		Name:            doc.Name,
		Persona:         doc.Persona,
		TargetAudience:  doc.TargetAudience,
		PrimaryPlatform: primary,
		CrossPost:       crossPost,
		Status:          entities.AutomationStatusIdle,
		Schedule: entities.Schedule{
			Frequency:            frequency,
			NextRun:              entities.NextRunAfter(frequency, now),
			CadenceDescription:   doc.CadenceDescription,
			DistributionChannels: entities.DistributionChannels(primary, crossPost),
		},
		Steps:     steps,
		CreatedAt: now,
	}
	if !automation.ValidateBasics() {
		return entities.Automation{}, fmt.Errorf("incomplete automation %q", doc.Name)
	}
	return automation, nil
}
