package entities

import (
	"strings"
	"time"
)

type Platform string
type AutomationStatus string
type Frequency string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformTikTok    Platform = "TikTok"
	PlatformInstagram Platform = "Instagram"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTwitter   Platform = "Twitter"

	AutomationStatusIdle      AutomationStatus = "idle"
	AutomationStatusRunning   AutomationStatus = "running"
	AutomationStatusScheduled AutomationStatus = "scheduled"
	AutomationStatusError     AutomationStatus = "error"

	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyCustom   Frequency = "custom"
)

type Schedule struct {
	Frequency            Frequency
	NextRun              time.Time
	CadenceDescription   string
	DistributionChannels []Platform
}

// Performance counters are cumulative across runs. Views, watch time and
// engagements only grow during normal operation; ConversionRate stays in [0,1].
type Performance struct {
	Views            int64
	WatchTimeMinutes int64
	Engagements      int64
	ConversionRate   float64
}

type Automation struct {
	AutomationID    string
	Name            string
	Persona         string
	TargetAudience  string
	PrimaryPlatform Platform
	CrossPost       []Platform
	Status          AutomationStatus
	Schedule        Schedule
	Performance     Performance
	Steps           []Step
	CreatedAt       time.Time
	LastRunAt       *time.Time
}

// CanStartRun gates the idle|scheduled|error -> running transition.
// A running automation must never be claimed twice.
func (a Automation) CanStartRun() bool {
	switch a.Status {
	case AutomationStatusIdle, AutomationStatusScheduled, AutomationStatusError:
		return true
	default:
		return false
	}
}

// IsOverridableStatus reports whether the lifecycle API may set the status
// directly. "running" is owned exclusively by the run engine.
func IsOverridableStatus(value AutomationStatus) bool {
	switch value {
	case AutomationStatusIdle, AutomationStatusScheduled, AutomationStatusError:
		return true
	default:
		return false
	}
}

func IsSupportedStatus(value AutomationStatus) bool {
	return value == AutomationStatusRunning || IsOverridableStatus(value)
}

func IsSupportedPlatform(value Platform) bool {
	switch value {
	case PlatformYouTube, PlatformTikTok, PlatformInstagram, PlatformLinkedIn, PlatformTwitter:
		return true
	default:
		return false
	}
}

func IsSupportedFrequency(value Frequency) bool {
	switch value {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyCustom:
		return true
	default:
		return false
	}
}

// NormalizeCrossPost deduplicates the cross-post set and reports whether it is
// structurally valid: every entry a supported platform and none equal to the
// primary platform.
func NormalizeCrossPost(primary Platform, crossPost []Platform) ([]Platform, bool) {
	seen := make(map[Platform]struct{}, len(crossPost))
	normalized := make([]Platform, 0, len(crossPost))
	for _, item := range crossPost {
		if !IsSupportedPlatform(item) {
			return nil, false
		}
		if item == primary {
			return nil, false
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		normalized = append(normalized, item)
	}
	return normalized, true
}

// DistributionChannels is the primary platform followed by the cross-post set.
func DistributionChannels(primary Platform, crossPost []Platform) []Platform {
	channels := make([]Platform, 0, len(crossPost)+1)
	channels = append(channels, primary)
	channels = append(channels, crossPost...)
	return channels
}

func (a Automation) ValidateBasics() bool {
	return strings.TrimSpace(a.Name) != "" &&
		strings.TrimSpace(a.Persona) != "" &&
		strings.TrimSpace(a.TargetAudience) != "" &&
		IsSupportedPlatform(a.PrimaryPlatform) &&
		IsSupportedFrequency(a.Schedule.Frequency)
}
