package entities_test

import (
	"testing"
	"time"

	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
)

func TestNextRunAfterFixedCadences(t *testing.T) {
	from := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		frequency entities.Frequency
		want      time.Time
	}{
		{entities.FrequencyDaily, from.Add(24 * time.Hour)},
		{entities.FrequencyWeekly, from.Add(7 * 24 * time.Hour)},
		{entities.FrequencyBiweekly, from.Add(14 * 24 * time.Hour)},
		{entities.FrequencyCustom, from.Add(7 * 24 * time.Hour)},
	}
	for _, tc := range cases {
		got := entities.NextRunAfter(tc.frequency, from)
		if !got.Equal(tc.want) {
			t.Fatalf("frequency %s: expected %v, got %v", tc.frequency, tc.want, got)
		}
		if !got.After(from) {
			t.Fatalf("frequency %s: next run must be strictly after from", tc.frequency)
		}
	}
}

func TestNextRunAfterMonthlyKeepsDayAndClock(t *testing.T) {
	from := time.Date(2025, time.April, 15, 14, 45, 30, 0, time.UTC)
	got := entities.NextRunAfter(entities.FrequencyMonthly, from)
	want := time.Date(2025, time.May, 15, 14, 45, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextRunAfterMonthlyClampsShortMonths(t *testing.T) {
	cases := []struct {
		from time.Time
		want time.Time
	}{
		{
			time.Date(2025, time.January, 31, 8, 0, 0, 0, time.UTC),
			time.Date(2025, time.February, 28, 8, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2024, time.January, 31, 8, 0, 0, 0, time.UTC),
			time.Date(2024, time.February, 29, 8, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2025, time.March, 31, 23, 15, 0, 0, time.UTC),
			time.Date(2025, time.April, 30, 23, 15, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		got := entities.NextRunAfter(entities.FrequencyMonthly, tc.from)
		if !got.Equal(tc.want) {
			t.Fatalf("from %v: expected %v, got %v", tc.from, tc.want, got)
		}
	}
}
