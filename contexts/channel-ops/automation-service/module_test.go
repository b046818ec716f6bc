package automationservice_test

import (
	"context"
	"errors"
	"testing"

	automationservice "channeldirector/contexts/channel-ops/automation-service"
	"channeldirector/contexts/channel-ops/automation-service/adapters/memory"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
	httptransport "channeldirector/contexts/channel-ops/automation-service/transport/http"
)

func validRequest() httptransport.CreateAutomationRequest {
	return httptransport.CreateAutomationRequest{
		Name:               "Weekly explainer drop",
		Persona:            "Calm, methodical tech educator",
		TargetAudience:     "Self-taught backend developers",
		PrimaryPlatform:    "YouTube",
		CrossPost:          []string{"TikTok"},
		Frequency:          "weekly",
		CadenceDescription: "Every Monday morning",
	}
}

func TestModuleLifecycleRoundTrip(t *testing.T) {
	module := automationservice.NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateAutomationHandler(ctx, validRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != "idle" {
		t.Fatalf("expected idle, got %s", created.Status)
	}

	fetched, err := module.Handler.GetAutomationHandler(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.Name != created.Name || len(fetched.Steps) != len(created.Steps) {
		t.Fatalf("get must return the created automation")
	}

	listed, err := module.Handler.ListAutomationsHandler(ctx, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Items) != 1 {
		t.Fatalf("expected 1 automation, got %d", len(listed.Items))
	}

	if err := module.Handler.DeleteAutomationHandler(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := module.Handler.GetAutomationHandler(ctx, created.ID); !errors.Is(err, domainerrors.ErrAutomationNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestModuleRejectsStructurallyInvalidCreate(t *testing.T) {
	module := automationservice.NewInMemoryModule(nil, nil, nil)
	req := validRequest()
	req.Persona = "too short"

	if _, err := module.Handler.CreateAutomationHandler(context.Background(), req); !errors.Is(err, domainerrors.ErrInvalidAutomationInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestModuleRunProducesQueryableHistory(t *testing.T) {
	module := automationservice.NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateAutomationHandler(ctx, validRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	runLog, err := module.Handler.RunAutomationHandler(ctx, created.ID)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if runLog.Status != "completed" {
		t.Fatalf("expected completed run, got %s", runLog.Status)
	}

	logs, err := module.Handler.ListRunLogsHandler(ctx, created.ID)
	if err != nil {
		t.Fatalf("list run logs failed: %v", err)
	}
	if len(logs.Items) != 1 || logs.Items[0].ID != runLog.ID {
		t.Fatalf("run log must be queryable after the run")
	}

	dashboard, err := module.Handler.GetDashboardHandler(ctx)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if len(dashboard.Items) != 1 || dashboard.TotalViews == 0 {
		t.Fatalf("dashboard must reflect the completed run, got %+v", dashboard)
	}
}

func TestModuleListingsKeepCreationOrder(t *testing.T) {
	module := automationservice.NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()

	first, err := module.Handler.CreateAutomationHandler(ctx, validRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second := validRequest()
	second.Name = "Daily shorts pipeline"
	second.Frequency = "daily"
	if _, err := module.Handler.CreateAutomationHandler(ctx, second); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	listed, err := module.Handler.ListAutomationsHandler(ctx, "idle")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Items) != 2 || listed.Items[0].ID != first.ID {
		t.Fatalf("listing must keep creation order, got %+v", listed.Items)
	}
}

func TestModuleWiresDistinctWorkerBatchSizes(t *testing.T) {
	store := memory.NewStore(nil)
	module := automationservice.NewModule(automationservice.Dependencies{
		Automations:    store,
		Runs:           store,
		Due:            store,
		Outbox:         store,
		OutboxRead:     store,
		Clock:          store,
		IDGenerator:    store,
		BatchSize:      5,
		RelayBatchSize: 7,
	})

	if module.Dispatcher.BatchSize != 5 {
		t.Fatalf("expected dispatcher batch size 5, got %d", module.Dispatcher.BatchSize)
	}
	if module.Relay.BatchSize != 7 {
		t.Fatalf("expected relay batch size 7, got %d", module.Relay.BatchSize)
	}

	fallback := automationservice.NewModule(automationservice.Dependencies{
		Automations: store,
		Runs:        store,
		Due:         store,
		Outbox:      store,
		OutboxRead:  store,
		Clock:       store,
		IDGenerator: store,
		BatchSize:   5,
	})
	if fallback.Relay.BatchSize != 5 {
		t.Fatalf("expected relay to fall back to the dispatch batch size, got %d", fallback.Relay.BatchSize)
	}
}
