package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"channeldirector/contexts/channel-ops/automation-service/adapters/memory"
	"channeldirector/contexts/channel-ops/automation-service/application/queries"
	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
)

func seededAutomation(id string, status entities.AutomationStatus, performance entities.Performance) entities.Automation {
	return entities.Automation{
		AutomationID:    id,
		Name:            "Daily shorts pipeline " + id,
		Persona:         "High-energy fitness coach",
		TargetAudience:  "Busy professionals who train at home",
		PrimaryPlatform: entities.PlatformTikTok,
		Status:          status,
		Schedule: entities.Schedule{
			Frequency: entities.FrequencyDaily,
			NextRun:   time.Date(2025, time.June, 3, 8, 0, 0, 0, time.UTC),
		},
		Performance: performance,
		Steps:       entities.DefaultPipeline(),
		CreatedAt:   time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestListAutomationsRejectsUnknownStatusFilter(t *testing.T) {
	store := memory.NewStore(nil)
	uc := queries.ListAutomationsUseCase{Automations: store}

	if _, err := uc.Execute(context.Background(), queries.ListAutomationsQuery{Status: "paused"}); !errors.Is(err, domainerrors.ErrInvalidAutomationInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetAutomationReportsMissingID(t *testing.T) {
	store := memory.NewStore(nil)
	uc := queries.GetAutomationUseCase{Automations: store}

	if _, err := uc.Execute(context.Background(), "nope"); !errors.Is(err, domainerrors.ErrAutomationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHealthScoreCapsAtHundred(t *testing.T) {
	automation := seededAutomation("auto-1", entities.AutomationStatusScheduled, entities.Performance{
		Views:       1_000_000,
		Engagements: 100_000,
	})
	if got := queries.HealthScore(automation); got != 100 {
		t.Fatalf("expected cap of 100, got %d", got)
	}
}

func TestHealthScoreRewardsAutonomousSteps(t *testing.T) {
	base := seededAutomation("auto-1", entities.AutomationStatusIdle, entities.Performance{})
	gated := base
	gated.Steps = append([]entities.Step(nil), base.Steps...)
	for i := range gated.Steps {
		gated.Steps[i].RequiresHumanReview = true
	}

	if queries.HealthScore(base) <= queries.HealthScore(gated) {
		t.Fatalf("fully gated pipeline must score below one with autonomous steps")
	}
}

func TestAutomationVelocityHasFloor(t *testing.T) {
	automation := seededAutomation("auto-1", entities.AutomationStatusIdle, entities.Performance{})
	automation.Steps = nil
	if got := queries.AutomationVelocity(automation); got != 10 {
		t.Fatalf("expected velocity floor of 10, got %d", got)
	}
}

func TestDashboardAggregatesFleetTotals(t *testing.T) {
	store := memory.NewStore([]entities.Automation{
		seededAutomation("auto-a", entities.AutomationStatusScheduled, entities.Performance{
			Views:            1000,
			WatchTimeMinutes: 300,
			Engagements:      50,
		}),
		seededAutomation("auto-b", entities.AutomationStatusIdle, entities.Performance{
			Views:            500,
			WatchTimeMinutes: 100,
			Engagements:      25,
		}),
	})
	uc := queries.GetDashboardUseCase{Automations: store}

	report, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(report.Items))
	}
	if report.TotalViews != 1500 || report.TotalWatchTimeMinutes != 400 || report.TotalEngagements != 75 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.AverageHealthScore <= 0 {
		t.Fatalf("expected positive average health score")
	}
	for _, insight := range report.Items {
		if insight.HealthScore <= 0 || insight.HealthScore > 100 {
			t.Fatalf("health score out of range: %d", insight.HealthScore)
		}
		if insight.AutomationVelocity < 10 {
			t.Fatalf("velocity below floor: %d", insight.AutomationVelocity)
		}
	}
}

func TestDashboardOnEmptyFleet(t *testing.T) {
	uc := queries.GetDashboardUseCase{Automations: memory.NewStore(nil)}
	report, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if len(report.Items) != 0 || report.AverageHealthScore != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
