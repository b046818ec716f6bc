package httpadapter

import (
	"context"
	"log/slog"

	"channeldirector/contexts/channel-ops/automation-service/application/commands"
	"channeldirector/contexts/channel-ops/automation-service/application/queries"
	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	domainerrors "channeldirector/contexts/channel-ops/automation-service/domain/errors"
	httptransport "channeldirector/contexts/channel-ops/automation-service/transport/http"

	"github.com/go-playground/validator/v10"
)

// Handler adapts transport DTOs to application use cases. Structural request
// validation lives here, mirroring the schema the edge enforces; semantic
// rules (cross-post vs primary, status overrides) stay in the use cases.
type Handler struct {
	CreateAutomation commands.CreateAutomationUseCase
	UpdateAutomation commands.UpdateAutomationUseCase
	DeleteAutomation commands.DeleteAutomationUseCase
	RunAutomation    commands.RunAutomationUseCase
	GetAutomation    queries.GetAutomationUseCase
	ListAutomations  queries.ListAutomationsUseCase
	ListRunLogs      queries.ListRunLogsUseCase
	GetDashboard     queries.GetDashboardUseCase
	Validate         *validator.Validate
	Logger           *slog.Logger
}

func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func (h Handler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	if err := h.Validate.Struct(payload); err != nil {
		return domainerrors.ErrInvalidAutomationInput
	}
	return nil
}

func (h Handler) CreateAutomationHandler(ctx context.Context, req httptransport.CreateAutomationRequest) (httptransport.AutomationDTO, error) {
	if err := h.validate(req); err != nil {
		return httptransport.AutomationDTO{}, err
	}
	automation, err := h.CreateAutomation.Execute(ctx, commands.CreateAutomationCommand{
		Name:               req.Name,
		Persona:            req.Persona,
		TargetAudience:     req.TargetAudience,
		PrimaryPlatform:    req.PrimaryPlatform,
		CrossPost:          append([]string(nil), req.CrossPost...),
		Frequency:          req.Frequency,
		CadenceDescription: req.CadenceDescription,
		Steps:              stepInputsFromDTOs(req.Steps),
	})
	if err != nil {
		return httptransport.AutomationDTO{}, err
	}
	return mapAutomation(automation), nil
}

func (h Handler) GetAutomationHandler(ctx context.Context, automationID string) (httptransport.AutomationDTO, error) {
	automation, err := h.GetAutomation.Execute(ctx, automationID)
	if err != nil {
		return httptransport.AutomationDTO{}, err
	}
	return mapAutomation(automation), nil
}

func (h Handler) ListAutomationsHandler(ctx context.Context, status string) (httptransport.ListAutomationsResponse, error) {
	automations, err := h.ListAutomations.Execute(ctx, queries.ListAutomationsQuery{Status: status})
	if err != nil {
		return httptransport.ListAutomationsResponse{}, err
	}
	items := make([]httptransport.AutomationDTO, 0, len(automations))
	for _, automation := range automations {
		items = append(items, mapAutomation(automation))
	}
	return httptransport.ListAutomationsResponse{Items: items}, nil
}

func (h Handler) UpdateAutomationHandler(
	ctx context.Context,
	automationID string,
	req httptransport.UpdateAutomationRequest,
) (httptransport.AutomationDTO, error) {
	if err := h.validate(req); err != nil {
		return httptransport.AutomationDTO{}, err
	}

	cmd := commands.UpdateAutomationCommand{
		AutomationID:    automationID,
		Name:            req.Name,
		Persona:         req.Persona,
		TargetAudience:  req.TargetAudience,
		PrimaryPlatform: req.PrimaryPlatform,
		Status:          req.Status,
	}
	if req.CrossPost != nil {
		crossPost := append([]string(nil), (*req.CrossPost)...)
		cmd.CrossPost = &crossPost
	}
	if req.Schedule != nil {
		cmd.Schedule = &commands.ScheduleUpdate{
			Frequency:            req.Schedule.Frequency,
			NextRun:              req.Schedule.NextRun,
			CadenceDescription:   req.Schedule.CadenceDescription,
			DistributionChannels: req.Schedule.DistributionChannels,
		}
	}
	if req.Performance != nil {
		cmd.Performance = &commands.PerformanceUpdate{
			Views:            req.Performance.Views,
			WatchTimeMinutes: req.Performance.WatchTimeMinutes,
			Engagements:      req.Performance.Engagements,
			ConversionRate:   req.Performance.ConversionRate,
		}
	}
	if req.Steps != nil {
		steps := stepInputsFromDTOs(*req.Steps)
		cmd.Steps = &steps
	}

	automation, err := h.UpdateAutomation.Execute(ctx, cmd)
	if err != nil {
		return httptransport.AutomationDTO{}, err
	}
	return mapAutomation(automation), nil
}

func (h Handler) DeleteAutomationHandler(ctx context.Context, automationID string) error {
	return h.DeleteAutomation.Execute(ctx, automationID)
}

func (h Handler) RunAutomationHandler(ctx context.Context, automationID string) (httptransport.RunLogDTO, error) {
	log, err := h.RunAutomation.Execute(ctx, automationID)
	if err != nil {
		return httptransport.RunLogDTO{}, err
	}
	return mapRunLog(log), nil
}

func (h Handler) ListRunLogsHandler(ctx context.Context, automationID string) (httptransport.ListRunLogsResponse, error) {
	logs, err := h.ListRunLogs.Execute(ctx, automationID)
	if err != nil {
		return httptransport.ListRunLogsResponse{}, err
	}
	items := make([]httptransport.RunLogDTO, 0, len(logs))
	for _, log := range logs {
		items = append(items, mapRunLog(log))
	}
	return httptransport.ListRunLogsResponse{Items: items}, nil
}

func (h Handler) GetDashboardHandler(ctx context.Context) (httptransport.DashboardResponse, error) {
	report, err := h.GetDashboard.Execute(ctx)
	if err != nil {
		return httptransport.DashboardResponse{}, err
	}
	items := make([]httptransport.AutomationInsightDTO, 0, len(report.Items))
	for _, insight := range report.Items {
		items = append(items, httptransport.AutomationInsightDTO{
			AutomationID:       insight.AutomationID,
			Name:               insight.Name,
			Status:             string(insight.Status),
			HealthScore:        insight.HealthScore,
			AutomationVelocity: insight.AutomationVelocity,
		})
	}
	return httptransport.DashboardResponse{
		Items:                 items,
		TotalViews:            report.TotalViews,
		TotalWatchTimeMinutes: report.TotalWatchTimeMinutes,
		TotalEngagements:      report.TotalEngagements,
		AverageHealthScore:    report.AverageHealthScore,
	}, nil
}

func stepInputsFromDTOs(steps []httptransport.StepDTO) []commands.StepInput {
	inputs := make([]commands.StepInput, 0, len(steps))
	for _, step := range steps {
		inputs = append(inputs, commands.StepInput{
			StepID:              step.ID,
			Title:               step.Title,
			Description:         step.Description,
			Type:                step.Type,
			RequiresHumanReview: step.RequiresHumanReview,
			DurationMinutes:     step.DurationMinutes,
			Tools:               append([]string(nil), step.Tools...),
			Configuration:       step.Configuration,
		})
	}
	return inputs
}

func mapAutomation(automation entities.Automation) httptransport.AutomationDTO {
	steps := make([]httptransport.StepDTO, 0, len(automation.Steps))
	for _, step := range automation.Steps {
		steps = append(steps, httptransport.StepDTO{
			ID:                  step.StepID,
			Title:               step.Title,
			Description:         step.Description,
			Type:                string(step.Type),
			RequiresHumanReview: step.RequiresHumanReview,
			DurationMinutes:     step.DurationMinutes,
			Tools:               append([]string(nil), step.Tools...),
			Configuration:       step.Configuration,
		})
	}
	return httptransport.AutomationDTO{
		ID:              automation.AutomationID,
		Name:            automation.Name,
		Persona:         automation.Persona,
		TargetAudience:  automation.TargetAudience,
		PrimaryPlatform: string(automation.PrimaryPlatform),
		CrossPost:       platformStrings(automation.CrossPost),
		Status:          string(automation.Status),
		Schedule: httptransport.ScheduleDTO{
			Frequency:            string(automation.Schedule.Frequency),
			NextRun:              automation.Schedule.NextRun,
			CadenceDescription:   automation.Schedule.CadenceDescription,
			DistributionChannels: platformStrings(automation.Schedule.DistributionChannels),
		},
		Performance: httptransport.PerformanceDTO{
			Views:            automation.Performance.Views,
			WatchTimeMinutes: automation.Performance.WatchTimeMinutes,
			Engagements:      automation.Performance.Engagements,
			ConversionRate:   automation.Performance.ConversionRate,
		},
		Steps:     steps,
		CreatedAt: automation.CreatedAt,
		LastRunAt: automation.LastRunAt,
	}
}

func mapRunLog(log entities.RunLog) httptransport.RunLogDTO {
	messages := make([]httptransport.RunMessageDTO, 0, len(log.Messages))
	for _, message := range log.Messages {
		messages = append(messages, httptransport.RunMessageDTO{
			StepID:    message.StepID,
			Timestamp: message.Timestamp,
			Message:   message.Message,
		})
	}
	return httptransport.RunLogDTO{
		ID:           log.RunLogID,
		AutomationID: log.AutomationID,
		Status:       string(log.Status),
		StartedAt:    log.StartedAt,
		Messages:     messages,
	}
}

func platformStrings(platforms []entities.Platform) []string {
	values := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		values = append(values, string(platform))
	}
	return values
}
