package commands

import (
	"context"
	"log/slog"
	"strings"

	application "channeldirector/contexts/channel-ops/automation-service/application"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

type DeleteAutomationUseCase struct {
	Automations ports.AutomationRepository
	Logger      *slog.Logger
}

// Execute removes the automation. Deleting an unknown id is an error, not a
// no-op; run logs for the deleted automation stay queryable as historical
// fact and the id is never handed out again.
func (uc DeleteAutomationUseCase) Execute(ctx context.Context, automationID string) error {
	logger := application.ResolveLogger(uc.Logger)

	if err := uc.Automations.DeleteAutomation(ctx, strings.TrimSpace(automationID)); err != nil {
		return err
	}

	logger.Info("automation deleted",
		"event", "automation_deleted",
		"module", "channel-ops/automation-service",
		"layer", "application",
		"automation_id", strings.TrimSpace(automationID),
	)
	return nil
}
