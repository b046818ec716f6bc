package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "channeldirector/contexts/channel-ops/automation-service/application"
	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

type ScheduleUpdate struct {
	Frequency            *string
	NextRun              *time.Time
	CadenceDescription   *string
	DistributionChannels *[]string
}

type PerformanceUpdate struct {
	Views            *int64
	WatchTimeMinutes *int64
	Engagements      *int64
	ConversionRate   *float64
}

// UpdateAutomationCommand is a field-level partial update. Nil means "leave
// unchanged". Schedule and Performance merge field by field; Steps replaces
// the whole pipeline.
type UpdateAutomationCommand struct {
	AutomationID    string
	Name            *string
	Persona         *string
	TargetAudience  *string
	PrimaryPlatform *string
	CrossPost       *[]string
	Status          *string
	Schedule        *ScheduleUpdate
	Performance     *PerformanceUpdate
	Steps           *[]StepInput
}

type UpdateAutomationUseCase struct {
	Automations ports.AutomationRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc UpdateAutomationUseCase) Execute(ctx context.Context, cmd UpdateAutomationCommand) (entities.Automation, error) {
	logger := application.ResolveLogger(uc.Logger)

	automation, err := uc.Automations.GetAutomation(ctx, strings.TrimSpace(cmd.AutomationID))
	if err != nil {
		return entities.Automation{}, err
	}

	if cmd.Name != nil {
		automation.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Persona != nil {
		automation.Persona = strings.TrimSpace(*cmd.Persona)
	}
	if cmd.TargetAudience != nil {
		automation.TargetAudience = strings.TrimSpace(*cmd.TargetAudience)
	}
	if cmd.PrimaryPlatform != nil {
		automation.PrimaryPlatform = entities.Platform(strings.TrimSpace(*cmd.PrimaryPlatform))
	}
	if cmd.CrossPost != nil {
		crossPost := make([]entities.Platform, 0, len(*cmd.CrossPost))
		for _, item := range *cmd.CrossPost {
			crossPost = append(crossPost, entities.Platform(strings.TrimSpace(item)))
		}
		automation.CrossPost = crossPost
	}
	// Primary and cross-post are revalidated together: a primary change can
	// invalidate a previously legal cross-post set.
	if cmd.PrimaryPlatform != nil || cmd.CrossPost != nil {
		crossPost, ok := entities.NormalizeCrossPost(automation.PrimaryPlatform, automation.CrossPost)
		if !ok {
			return entities.Automation{}, domainerrors.ErrInvalidAutomationInput
		}
		automation.CrossPost = crossPost
	}

	if cmd.Status != nil {
		status := entities.AutomationStatus(strings.TrimSpace(*cmd.Status))
		if !entities.IsSupportedStatus(status) {
			return entities.Automation{}, domainerrors.ErrInvalidAutomationInput
		}
		if !entities.IsOverridableStatus(status) {
			return entities.Automation{}, domainerrors.ErrStatusNotOverridable
		}
		automation.Status = status
	}

	if cmd.Schedule != nil {
		if err := applyScheduleUpdate(&automation, *cmd.Schedule); err != nil {
			return entities.Automation{}, err
		}
	}
	if cmd.Performance != nil {
		if err := applyPerformanceUpdate(&automation.Performance, *cmd.Performance); err != nil {
			return entities.Automation{}, err
		}
	}

	if cmd.Steps != nil {
		steps, err := buildSteps(ctx, uc.IDGenerator, *cmd.Steps)
		if err != nil {
			return entities.Automation{}, err
		}
		automation.Steps = steps
	}

	if !automation.ValidateBasics() {
		return entities.Automation{}, domainerrors.ErrInvalidAutomationInput
	}

	if err := uc.Automations.UpdateAutomation(ctx, automation); err != nil {
		return entities.Automation{}, err
	}

	logger.Info("automation updated",
		"event", "automation_updated",
		"module", "channel-ops/automation-service",
		"layer", "application",
		"automation_id", automation.AutomationID,
		"status", string(automation.Status),
	)
	return automation, nil
}

func applyScheduleUpdate(automation *entities.Automation, update ScheduleUpdate) error {
	if update.Frequency != nil {
		frequency := entities.Frequency(strings.TrimSpace(*update.Frequency))
		if !entities.IsSupportedFrequency(frequency) {
			return domainerrors.ErrInvalidAutomationInput
		}
		automation.Schedule.Frequency = frequency
	}
	if update.NextRun != nil {
		// NextRun may be pinned externally but never before creation.
		if update.NextRun.Before(automation.CreatedAt) {
			return domainerrors.ErrInvalidAutomationInput
		}
		automation.Schedule.NextRun = update.NextRun.UTC()
	}
	if update.CadenceDescription != nil {
		automation.Schedule.CadenceDescription = strings.TrimSpace(*update.CadenceDescription)
	}
	if update.DistributionChannels != nil {
		channels := make([]entities.Platform, 0, len(*update.DistributionChannels))
		for _, item := range *update.DistributionChannels {
			platform := entities.Platform(strings.TrimSpace(item))
			if !entities.IsSupportedPlatform(platform) {
				return domainerrors.ErrInvalidAutomationInput
			}
			channels = append(channels, platform)
		}
		automation.Schedule.DistributionChannels = channels
	}
	return nil
}

func applyPerformanceUpdate(performance *entities.Performance, update PerformanceUpdate) error {
	if update.Views != nil {
		if *update.Views < 0 {
			return domainerrors.ErrInvalidAutomationInput
		}
		performance.Views = *update.Views
	}
	if update.WatchTimeMinutes != nil {
		if *update.WatchTimeMinutes < 0 {
			return domainerrors.ErrInvalidAutomationInput
		}
		performance.WatchTimeMinutes = *update.WatchTimeMinutes
	}
	if update.Engagements != nil {
		if *update.Engagements < 0 {
			return domainerrors.ErrInvalidAutomationInput
		}
		performance.Engagements = *update.Engagements
	}
	if update.ConversionRate != nil {
		if *update.ConversionRate < 0 || *update.ConversionRate > 1 {
			return domainerrors.ErrInvalidAutomationInput
		}
		performance.ConversionRate = *update.ConversionRate
	}
	return nil
}
