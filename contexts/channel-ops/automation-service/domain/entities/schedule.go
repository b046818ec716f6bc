package entities

import "time"

// NextRunAfter maps a cadence to the next scheduled run strictly after from.
// Custom cadences carry a free-text description the core never parses, so
// they fall back to a fixed seven-day offset.
func NextRunAfter(frequency Frequency, from time.Time) time.Time {
	switch frequency {
	case FrequencyDaily:
		return from.Add(24 * time.Hour)
	case FrequencyWeekly:
		return from.Add(7 * 24 * time.Hour)
	case FrequencyBiweekly:
		return from.Add(14 * 24 * time.Hour)
	case FrequencyMonthly:
		return addMonthClamped(from)
	default:
		return from.Add(7 * 24 * time.Hour)
	}
}

// addMonthClamped advances one calendar month, keeping the day-of-month and
// clamping to the target month's length (Jan 31 -> Feb 28/29). time.AddDate
// normalizes overflow into the following month, so the clamp is explicit.
func addMonthClamped(from time.Time) time.Time {
	year, month, day := from.Date()
	firstOfTarget := time.Date(year, month+1, 1, 0, 0, 0, 0, from.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(
		firstOfTarget.Year(), firstOfTarget.Month(), day,
		from.Hour(), from.Minute(), from.Second(), from.Nanosecond(),
		from.Location(),
	)
}
