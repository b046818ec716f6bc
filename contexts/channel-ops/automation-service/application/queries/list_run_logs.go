package queries

import (
	"context"
	"log/slog"
	"strings"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

type ListRunLogsUseCase struct {
	Runs   ports.RunRepository
	Logger *slog.Logger
}

// Execute returns run logs most-recent-first, either for one automation or
// for the whole fleet when automationID is empty. Logs of deleted automations
// are still returned: they record historical fact.
func (uc ListRunLogsUseCase) Execute(ctx context.Context, automationID string) ([]entities.RunLog, error) {
	return uc.Runs.ListRunLogs(ctx, strings.TrimSpace(automationID))
}
