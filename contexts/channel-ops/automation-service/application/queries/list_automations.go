package queries

import (
	"context"
	"log/slog"
	"strings"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

type ListAutomationsQuery struct {
	Status string
}

type ListAutomationsUseCase struct {
	Automations ports.AutomationRepository
	Logger      *slog.Logger
}

func (uc ListAutomationsUseCase) Execute(ctx context.Context, query ListAutomationsQuery) ([]entities.Automation, error) {
	status := entities.AutomationStatus(strings.TrimSpace(query.Status))
	if status != "" && !entities.IsSupportedStatus(status) {
		return nil, domainerrors.ErrInvalidAutomationInput
	}
	return uc.Automations.ListAutomations(ctx, ports.AutomationFilter{Status: status})
}
