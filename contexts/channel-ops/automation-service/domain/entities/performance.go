package entities

// SimulateGrowth applies one run's worth of simulated audience growth.
// The exact coefficients are cosmetic; what matters is that the result is
// deterministic for the same inputs and never decreases any counter.
func SimulateGrowth(current Performance, steps []Step) Performance {
	stepCount := int64(len(steps))
	var totalMinutes int64
	for _, step := range steps {
		totalMinutes += int64(step.DurationMinutes)
	}

	next := Performance{
		Views:            current.Views + 120*stepCount + current.Views/20,
		WatchTimeMinutes: current.WatchTimeMinutes + 3*totalMinutes + current.WatchTimeMinutes/25,
		Engagements:      current.Engagements + 18*stepCount + current.Engagements/40,
		ConversionRate:   current.ConversionRate + 0.002*float64(stepCount),
	}
	if next.ConversionRate > 1 {
		next.ConversionRate = 1
	}
	return next
}
