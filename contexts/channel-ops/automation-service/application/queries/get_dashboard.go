package queries

import (
	"context"
	"log/slog"
	"math"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	"channeldirector/contexts/channel-ops/automation-service/ports"
)

type AutomationInsight struct {
	AutomationID       string
	Name               string
	Status             entities.AutomationStatus
	HealthScore        int
	AutomationVelocity int
}

type DashboardReport struct {
	Items                 []AutomationInsight
	TotalViews            int64
	TotalWatchTimeMinutes int64
	TotalEngagements      int64
	AverageHealthScore    int
}

// GetDashboardUseCase is a read-only projection over the automation fleet.
// Health score and velocity are derived on every read and never persisted.
type GetDashboardUseCase struct {
	Automations ports.AutomationRepository
	Logger      *slog.Logger
}

func (uc GetDashboardUseCase) Execute(ctx context.Context) (DashboardReport, error) {
	automations, err := uc.Automations.ListAutomations(ctx, ports.AutomationFilter{})
	if err != nil {
		return DashboardReport{}, err
	}

	report := DashboardReport{Items: make([]AutomationInsight, 0, len(automations))}
	var healthTotal int
	for _, automation := range automations {
		insight := AutomationInsight{
			AutomationID:       automation.AutomationID,
			Name:               automation.Name,
			Status:             automation.Status,
			HealthScore:        HealthScore(automation),
			AutomationVelocity: AutomationVelocity(automation),
		}
		report.Items = append(report.Items, insight)
		report.TotalViews += automation.Performance.Views
		report.TotalWatchTimeMinutes += automation.Performance.WatchTimeMinutes
		report.TotalEngagements += automation.Performance.Engagements
		healthTotal += insight.HealthScore
	}
	if len(report.Items) > 0 {
		report.AverageHealthScore = healthTotal / len(report.Items)
	}
	return report, nil
}

// HealthScore rewards engagement, reach, and fully autonomous steps, capped
// at 100.
func HealthScore(automation entities.Automation) int {
	autonomousSteps := 0
	for _, step := range automation.Steps {
		if !step.RequiresHumanReview {
			autonomousSteps++
		}
	}
	score := math.Floor(
		45 +
			float64(automation.Performance.Engagements)/50 +
			float64(automation.Performance.Views)/1000 +
			float64(autonomousSteps)*4,
	)
	if score > 100 {
		return 100
	}
	return int(score)
}

// AutomationVelocity estimates pipeline throughput, floored at 10.
func AutomationVelocity(automation entities.Automation) int {
	velocity := math.Floor(
		float64(len(automation.Steps))*12 - automation.Performance.ConversionRate*3,
	)
	if velocity < 10 {
		return 10
	}
	return int(velocity)
}
