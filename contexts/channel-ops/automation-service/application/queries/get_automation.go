package queries

import (
	"context"
	"log/slog"
	"strings"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

type GetAutomationUseCase struct {
	Automations ports.AutomationRepository
	Logger      *slog.Logger
}

func (uc GetAutomationUseCase) Execute(ctx context.Context, automationID string) (entities.Automation, error) {
	return uc.Automations.GetAutomation(ctx, strings.TrimSpace(automationID))
}
