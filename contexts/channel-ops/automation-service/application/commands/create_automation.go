package commands

import (
	"context"
	"log/slog"
	"strings"

	application "channeldirector/contexts/channel-ops/automation-service/application"
	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

type StepInput struct {
	StepID              string
	Title               string
	Description         string
	Type                string
	RequiresHumanReview bool
	DurationMinutes     int
	Tools               []string
	Configuration       map[string]any
}

type CreateAutomationCommand struct {
	Name               string
	Persona            string
	TargetAudience     string
	PrimaryPlatform    string
	CrossPost          []string
	Frequency          string
	CadenceDescription string
	Steps              []StepInput
}

type CreateAutomationUseCase struct {
	Automations ports.AutomationRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc CreateAutomationUseCase) Execute(ctx context.Context, cmd CreateAutomationCommand) (entities.Automation, error) {
	logger := application.ResolveLogger(uc.Logger)

	primary := entities.Platform(strings.TrimSpace(cmd.PrimaryPlatform))
	frequency := entities.Frequency(strings.TrimSpace(cmd.Frequency))

	crossPost := make([]entities.Platform, 0, len(cmd.CrossPost))
	for _, item := range cmd.CrossPost {
		crossPost = append(crossPost, entities.Platform(strings.TrimSpace(item)))
	}
	crossPost, ok := entities.NormalizeCrossPost(primary, crossPost)
	if !ok {
		return entities.Automation{}, domainerrors.ErrInvalidAutomationInput
	}

	now := uc.Clock.Now().UTC()
	automation := entities.Automation{
		Name:            strings.TrimSpace(cmd.Name),
		Persona:         strings.TrimSpace(cmd.Persona),
		TargetAudience:  strings.TrimSpace(cmd.TargetAudience),
		PrimaryPlatform: primary,
		CrossPost:       crossPost,
		Status:          entities.AutomationStatusIdle,
		Schedule: entities.Schedule{
			Frequency:            frequency,
			NextRun:              entities.NextRunAfter(frequency, now),
			CadenceDescription:   strings.TrimSpace(cmd.CadenceDescription),
			DistributionChannels: entities.DistributionChannels(primary, crossPost),
		},
		Performance: entities.Performance{},
		CreatedAt:   now,
	}
	if !automation.ValidateBasics() {
		return entities.Automation{}, domainerrors.ErrInvalidAutomationInput
	}

	steps, err := buildSteps(ctx, uc.IDGenerator, cmd.Steps)
	if err != nil {
		return entities.Automation{}, err
	}
	automation.Steps = steps

	automationID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Automation{}, err
	}
	automation.AutomationID = automationID

	if err := uc.Automations.CreateAutomation(ctx, automation); err != nil {
		return entities.Automation{}, err
	}

	logger.Info("automation created",
		"event", "automation_created",
		"module", "channel-ops/automation-service",
		"layer", "application",
		"automation_id", automation.AutomationID,
		"primary_platform", string(automation.PrimaryPlatform),
		"frequency", string(automation.Schedule.Frequency),
		"step_count", len(automation.Steps),
	)
	return automation, nil
}

// buildSteps materializes the step list, falling back to the default pipeline
// when the request supplies none. Step ids are assigned here so the same
// identifiers flow into run-log messages later.
func buildSteps(ctx context.Context, idGen ports.IDGenerator, inputs []StepInput) ([]entities.Step, error) {
	var steps []entities.Step
	if len(inputs) == 0 {
		steps = entities.DefaultPipeline()
	} else {
		steps = make([]entities.Step, 0, len(inputs))
		for _, input := range inputs {
			step, ok := stepFromInput(input)
			if !ok {
				return nil, domainerrors.ErrInvalidAutomationInput
			}
			steps = append(steps, step)
		}
	}

	for i := range steps {
		if strings.TrimSpace(steps[i].StepID) != "" {
			continue
		}
		stepID, err := idGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		steps[i].StepID = stepID
	}
	return steps, nil
}

func stepFromInput(input StepInput) (entities.Step, bool) {
	stepType := entities.StepType(strings.TrimSpace(input.Type))
	if !entities.IsSupportedStepType(stepType) {
		return entities.Step{}, false
	}
	if input.DurationMinutes < 0 {
		return entities.Step{}, false
	}
	return entities.Step{
		StepID:              strings.TrimSpace(input.StepID),
		Title:               strings.TrimSpace(input.Title),
		Description:         strings.TrimSpace(input.Description),
		Type:                stepType,
		RequiresHumanReview: input.RequiresHumanReview,
		DurationMinutes:     input.DurationMinutes,
		Tools:               append([]string(nil), input.Tools...),
		Configuration:       cloneConfiguration(input.Configuration),
	}, true
}

func cloneConfiguration(configuration map[string]any) map[string]any {
	if configuration == nil {
		return nil
	}
	clone := make(map[string]any, len(configuration))
	for key, value := range configuration {
		clone[key] = value
	}
	return clone
}
