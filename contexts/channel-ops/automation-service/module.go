package automationservice

import (
	"log/slog"

	httpadapter "channeldirector/contexts/channel-ops/automation-service/adapters/http"
	"channeldirector/contexts/channel-ops/automation-service/adapters/memory"
	"channeldirector/contexts/channel-ops/automation-service/application/commands"
	"channeldirector/contexts/channel-ops/automation-service/application/queries"
	"channeldirector/contexts/channel-ops/automation-service/application/workers"
	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	Dispatcher workers.ScheduleDispatcher
	Relay      workers.OutboxRelay
	Store      *memory.Store
}

type Dependencies struct {
	Automations ports.AutomationRepository
	Runs        ports.RunRepository
	Due         ports.DueAutomationLister
	Outbox      ports.OutboxWriter
	OutboxRead  ports.OutboxRepository
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	// BatchSize bounds the schedule dispatcher; RelayBatchSize bounds the
	// outbox relay and falls back to BatchSize when zero.
	BatchSize      int
	RelayBatchSize int
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	relayBatchSize := deps.RelayBatchSize
	if relayBatchSize <= 0 {
		relayBatchSize = deps.BatchSize
	}

	createAutomation := commands.CreateAutomationUseCase{
		Automations: deps.Automations,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	updateAutomation := commands.UpdateAutomationUseCase{
		Automations: deps.Automations,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	deleteAutomation := commands.DeleteAutomationUseCase{
		Automations: deps.Automations,
		Logger:      deps.Logger,
	}
	runAutomation := commands.RunAutomationUseCase{
		Runs:        deps.Runs,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}

	getAutomation := queries.GetAutomationUseCase{
		Automations: deps.Automations,
		Logger:      deps.Logger,
	}
	listAutomations := queries.ListAutomationsUseCase{
		Automations: deps.Automations,
		Logger:      deps.Logger,
	}
	listRunLogs := queries.ListRunLogsUseCase{
		Runs:   deps.Runs,
		Logger: deps.Logger,
	}
	getDashboard := queries.GetDashboardUseCase{
		Automations: deps.Automations,
		Logger:      deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateAutomation: createAutomation,
			UpdateAutomation: updateAutomation,
			DeleteAutomation: deleteAutomation,
			RunAutomation:    runAutomation,
			GetAutomation:    getAutomation,
			ListAutomations:  listAutomations,
			ListRunLogs:      listRunLogs,
			GetDashboard:     getDashboard,
			Validate:         httpadapter.NewValidator(),
			Logger:           deps.Logger,
		},
		Dispatcher: workers.ScheduleDispatcher{
			Due:       deps.Due,
			Runner:    runAutomation,
			Clock:     deps.Clock,
			BatchSize: deps.BatchSize,
			Logger:    deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.OutboxRead,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: relayBatchSize,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to one in-memory store. Tests and the
// DSN-less runtime both use this composition.
func NewInMemoryModule(seed []entities.Automation, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Automations: store,
		Runs:        store,
		Due:         store,
		Outbox:      store,
		OutboxRead:  store,
		Publisher:   publisher,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
