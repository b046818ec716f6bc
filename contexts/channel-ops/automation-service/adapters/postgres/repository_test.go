package postgresadapter

// Live-database coverage. Runs only when POSTGRES_TEST_DSN points at a
// disposable database; migrations are applied on the fly.

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := db.AutoMigrate(&automationModel{}, &runLogModel{}, &outboxModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db, nil)
}

func persistedAutomation(status entities.AutomationStatus, nextRun time.Time) entities.Automation {
	return entities.Automation{
		AutomationID:    uuid.NewString(),
		Name:            "Weekly explainer drop",
		Persona:         "Calm, methodical tech educator",
		TargetAudience:  "Self-taught backend developers",
		PrimaryPlatform: entities.PlatformYouTube,
		CrossPost:       []entities.Platform{entities.PlatformTikTok},
		Status:          status,
		Schedule: entities.Schedule{
			Frequency: entities.FrequencyWeekly,
			NextRun:   nextRun,
		},
		Steps:     entities.DefaultPipeline(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepositoryTombstoneHidesRow(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	automation := persistedAutomation(entities.AutomationStatusIdle, time.Now().UTC())
	if err := repo.CreateAutomation(ctx, automation); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.DeleteAutomation(ctx, automation.AutomationID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := repo.GetAutomation(ctx, automation.AutomationID); !errors.Is(err, domainerrors.ErrAutomationNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	automation.Name = "Ghost edit"
	if err := repo.UpdateAutomation(ctx, automation); !errors.Is(err, domainerrors.ErrAutomationNotFound) {
		t.Fatalf("expected update of a deleted row to report not found, got %v", err)
	}
}

func TestRepositoryCompleteRunKeepsConcurrentEdits(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	startedAt := time.Now().UTC().Truncate(time.Microsecond)

	automation := persistedAutomation(entities.AutomationStatusScheduled, startedAt)
	if err := repo.CreateAutomation(ctx, automation); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	claimed, err := repo.BeginRun(ctx, automation.AutomationID, startedAt)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	edited, err := repo.GetAutomation(ctx, automation.AutomationID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	edited.Name = "Renamed during run"
	if err := repo.UpdateAutomation(ctx, edited); err != nil {
		t.Fatalf("update during run failed: %v", err)
	}

	finished := claimed
	finished.Status = entities.AutomationStatusScheduled
	finished.Performance = entities.Performance{Views: 4200, WatchTimeMinutes: 310, Engagements: 95, ConversionRate: 0.21}
	finished.Schedule.NextRun = startedAt.Add(7 * 24 * time.Hour)
	finished.LastRunAt = &startedAt
	if err := repo.CompleteRun(ctx, finished, entities.RunLog{
		RunLogID:     uuid.NewString(),
		AutomationID: automation.AutomationID,
		Status:       entities.RunStatusCompleted,
		StartedAt:    startedAt,
	}); err != nil {
		t.Fatalf("complete run failed: %v", err)
	}

	stored, err := repo.GetAutomation(ctx, automation.AutomationID)
	if err != nil {
		t.Fatalf("get after run failed: %v", err)
	}
	if stored.Name != "Renamed during run" {
		t.Fatalf("mid-run edit was lost, got name %q", stored.Name)
	}
	if stored.Status != entities.AutomationStatusScheduled {
		t.Fatalf("expected scheduled after completed run, got %s", stored.Status)
	}
	if stored.Performance.Views != 4200 {
		t.Fatalf("run results were not applied: %+v", stored.Performance)
	}
}

func TestRepositoryUpdateCannotUnseatRunningClaim(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	startedAt := time.Now().UTC().Truncate(time.Microsecond)

	automation := persistedAutomation(entities.AutomationStatusScheduled, startedAt)
	if err := repo.CreateAutomation(ctx, automation); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stale, err := repo.GetAutomation(ctx, automation.AutomationID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if _, err := repo.BeginRun(ctx, automation.AutomationID, startedAt); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := repo.UpdateAutomation(ctx, stale); err != nil {
		t.Fatalf("update with stale snapshot failed: %v", err)
	}

	stored, err := repo.GetAutomation(ctx, automation.AutomationID)
	if err != nil {
		t.Fatalf("get after update failed: %v", err)
	}
	if stored.Status != entities.AutomationStatusRunning {
		t.Fatalf("stale snapshot released the claim, got status %s", stored.Status)
	}
	if _, err := repo.BeginRun(ctx, automation.AutomationID, startedAt); !errors.Is(err, domainerrors.ErrRunInProgress) {
		t.Fatalf("expected the claim to still hold, got %v", err)
	}
}
