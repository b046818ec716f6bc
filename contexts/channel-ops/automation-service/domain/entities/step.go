package entities

type StepType string

const (
	StepTypeIdeation     StepType = "ideation"
	StepTypeScript       StepType = "script"
	StepTypeRecording    StepType = "recording"
	StepTypeEditing      StepType = "editing"
	StepTypeThumbnail    StepType = "thumbnail"
	StepTypeCaptions     StepType = "captions"
	StepTypeDistribution StepType = "distribution"
	StepTypeAnalytics    StepType = "analytics"
)

// Step is one ordered stage of an automation pipeline. Configuration is
// opaque to the core and carried through unchanged, with one exception: the
// run engine honors the "simulate_failure" key as the simulated domain's
// unrecoverable-failure hook.
type Step struct {
	StepID              string
	Title               string
	Description         string
	Type                StepType
	RequiresHumanReview bool
	DurationMinutes     int
	Tools               []string
	Configuration       map[string]any
}

func IsSupportedStepType(value StepType) bool {
	switch value {
	case StepTypeIdeation, StepTypeScript, StepTypeRecording, StepTypeEditing,
		StepTypeThumbnail, StepTypeCaptions, StepTypeDistribution, StepTypeAnalytics:
		return true
	default:
		return false
	}
}

// SimulatesFailure reports whether the step is configured to fail its
// simulated execution.
func (s Step) SimulatesFailure() bool {
	value, ok := s.Configuration["simulate_failure"]
	if !ok {
		return false
	}
	flag, ok := value.(bool)
	return ok && flag
}

// DefaultPipeline is installed when a creation request supplies no steps.
// Script and editing keep a human in the loop.
func DefaultPipeline() []Step {
	return []Step{
		{
			Title:           "Trend and topic ideation",
			Description:     "Scan platform trends and persona interests to shortlist video concepts.",
			Type:            StepTypeIdeation,
			DurationMinutes: 20,
			Tools:           []string{"trend-scanner", "persona-profiler"},
		},
		{
			Title:               "Script drafting",
			Description:         "Draft the hook, narrative beats, and call to action for the selected concept.",
			Type:                StepTypeScript,
			RequiresHumanReview: true,
			DurationMinutes:     35,
			Tools:               []string{"script-composer"},
		},
		{
			Title:           "Recording session",
			Description:     "Capture voiceover and footage against the approved script.",
			Type:            StepTypeRecording,
			DurationMinutes: 45,
			Tools:           []string{"studio-capture"},
		},
		{
			Title:               "Edit and assembly",
			Description:         "Cut scenes, apply motion templates, and balance audio.",
			Type:                StepTypeEditing,
			RequiresHumanReview: true,
			DurationMinutes:     60,
			Tools:               []string{"timeline-editor", "motion-templates"},
		},
		{
			Title:           "Thumbnail generation",
			Description:     "Produce thumbnail variants tuned for click-through.",
			Type:            StepTypeThumbnail,
			DurationMinutes: 15,
			Tools:           []string{"thumbnail-studio"},
		},
		{
			Title:           "Caption pack",
			Description:     "Generate captions and per-platform copy.",
			Type:            StepTypeCaptions,
			DurationMinutes: 10,
			Tools:           []string{"caption-writer"},
		},
		{
			Title:           "Multi-platform distribution",
			Description:     "Publish to the primary platform and queued cross-posts with tuned metadata.",
			Type:            StepTypeDistribution,
			DurationMinutes: 15,
			Tools:           []string{"publish-queue"},
		},
		{
			Title:           "Telemetry collection",
			Description:     "Collect retention, engagement, and conversion telemetry for the drop.",
			Type:            StepTypeAnalytics,
			DurationMinutes: 10,
			Tools:           []string{"telemetry-harvester"},
		},
	}
}
