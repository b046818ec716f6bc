package http

import "time"

// JSON field names follow the dashboard API contract (camelCase); validate
// tags mirror the schema enforced at the edge.

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StepDTO struct {
	ID                  string         `json:"id,omitempty"`
	Title               string         `json:"title" validate:"required"`
	Description         string         `json:"description"`
	Type                string         `json:"type" validate:"required,oneof=ideation script recording editing thumbnail captions distribution analytics"`
	RequiresHumanReview bool           `json:"requiresHumanReview"`
	DurationMinutes     int            `json:"durationMinutes" validate:"gte=0"`
	Tools               []string       `json:"tools"`
	Configuration       map[string]any `json:"configuration"`
}

type CreateAutomationRequest struct {
	Name               string    `json:"name" validate:"required,min=3"`
	Persona            string    `json:"persona" validate:"required,min=10"`
	TargetAudience     string    `json:"targetAudience" validate:"required,min=5"`
	PrimaryPlatform    string    `json:"primaryPlatform" validate:"required,oneof=YouTube TikTok Instagram LinkedIn Twitter"`
	CrossPost          []string  `json:"crossPost" validate:"dive,oneof=YouTube TikTok Instagram LinkedIn Twitter"`
	Frequency          string    `json:"frequency" validate:"required,oneof=daily weekly biweekly monthly custom"`
	CadenceDescription string    `json:"cadenceDescription"`
	Steps              []StepDTO `json:"steps" validate:"omitempty,dive"`
}

type ScheduleUpdateDTO struct {
	Frequency            *string    `json:"frequency" validate:"omitempty,oneof=daily weekly biweekly monthly custom"`
	NextRun              *time.Time `json:"nextRun"`
	CadenceDescription   *string    `json:"cadenceDescription"`
	DistributionChannels *[]string  `json:"distributionChannels" validate:"omitempty,dive,oneof=YouTube TikTok Instagram LinkedIn Twitter"`
}

type PerformanceUpdateDTO struct {
	Views            *int64   `json:"views" validate:"omitempty,gte=0"`
	WatchTimeMinutes *int64   `json:"watchTimeMinutes" validate:"omitempty,gte=0"`
	Engagements      *int64   `json:"engagements" validate:"omitempty,gte=0"`
	ConversionRate   *float64 `json:"conversionRate" validate:"omitempty,gte=0,lte=1"`
}

type UpdateAutomationRequest struct {
	Name            *string               `json:"name" validate:"omitempty,min=3"`
	Persona         *string               `json:"persona" validate:"omitempty,min=10"`
	TargetAudience  *string               `json:"targetAudience" validate:"omitempty,min=5"`
	PrimaryPlatform *string               `json:"primaryPlatform" validate:"omitempty,oneof=YouTube TikTok Instagram LinkedIn Twitter"`
	CrossPost       *[]string             `json:"crossPost" validate:"omitempty,dive,oneof=YouTube TikTok Instagram LinkedIn Twitter"`
	Status          *string               `json:"status" validate:"omitempty,oneof=idle running scheduled error"`
	Schedule        *ScheduleUpdateDTO    `json:"schedule"`
	Performance     *PerformanceUpdateDTO `json:"performance"`
	Steps           *[]StepDTO            `json:"steps" validate:"omitempty,dive"`
}

type ScheduleDTO struct {
	Frequency            string    `json:"frequency"`
	NextRun              time.Time `json:"nextRun"`
	CadenceDescription   string    `json:"cadenceDescription,omitempty"`
	DistributionChannels []string  `json:"distributionChannels"`
}

type PerformanceDTO struct {
	Views            int64   `json:"views"`
	WatchTimeMinutes int64   `json:"watchTimeMinutes"`
	Engagements      int64   `json:"engagements"`
	ConversionRate   float64 `json:"conversionRate"`
}

type AutomationDTO struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Persona         string         `json:"persona"`
	TargetAudience  string         `json:"targetAudience"`
	PrimaryPlatform string         `json:"primaryPlatform"`
	CrossPost       []string       `json:"crossPost"`
	Status          string         `json:"status"`
	Schedule        ScheduleDTO    `json:"schedule"`
	Performance     PerformanceDTO `json:"performance"`
	Steps           []StepDTO      `json:"steps"`
	CreatedAt       time.Time      `json:"createdAt"`
	LastRunAt       *time.Time     `json:"lastRunAt,omitempty"`
}

type RunMessageDTO struct {
	StepID    string    `json:"stepId"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

type RunLogDTO struct {
	ID           string          `json:"id"`
	AutomationID string          `json:"automationId"`
	Status       string          `json:"status"`
	StartedAt    time.Time       `json:"startedAt"`
	Messages     []RunMessageDTO `json:"messages"`
}

type ListAutomationsResponse struct {
	Items []AutomationDTO `json:"items"`
}

type ListRunLogsResponse struct {
	Items []RunLogDTO `json:"items"`
}

type AutomationInsightDTO struct {
	AutomationID       string `json:"automationId"`
	Name               string `json:"name"`
	Status             string `json:"status"`
	HealthScore        int    `json:"healthScore"`
	AutomationVelocity int    `json:"automationVelocity"`
}

type DashboardResponse struct {
	Items                 []AutomationInsightDTO `json:"items"`
	TotalViews            int64                  `json:"totalViews"`
	TotalWatchTimeMinutes int64                  `json:"totalWatchTimeMinutes"`
	TotalEngagements      int64                  `json:"totalEngagements"`
	AverageHealthScore    int                    `json:"averageHealthScore"`
}
