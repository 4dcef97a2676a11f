package services_test

import (
	"reflect"
	"testing"
	"time"

	"projectpan/internal/services"
)

func d(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestAggregateUsage_CurrentMonth(t *testing.T) {
	// 2024-11-10 is a Sunday, so the week starts the same day.
	now := d(2024, time.November, 10, 12)
	events := []time.Time{
		d(2024, time.November, 1, 9),
		d(2024, time.November, 3, 9),
		d(2024, time.November, 5, 9),
	}

	stats := services.AggregateUsage(events, now)

	if stats.TotalCount != 3 {
		t.Fatalf("totalCount = %d, want 3", stats.TotalCount)
	}
	if stats.MonthCount != 3 {
		t.Fatalf("monthCount = %d, want 3", stats.MonthCount)
	}
	if stats.WeekCount != 0 {
		t.Fatalf("weekCount = %d, want 0 (all events before Sunday)", stats.WeekCount)
	}
	if !reflect.DeepEqual(stats.CurrentMonthDays, []int{1, 3, 5}) {
		t.Fatalf("currentMonthDays = %v, want [1 3 5]", stats.CurrentMonthDays)
	}
	b, ok := stats.MonthlyHistory["2024-11"]
	if !ok {
		t.Fatal("monthlyHistory missing 2024-11")
	}
	if b.Count != 3 || !reflect.DeepEqual(b.Days, []int{1, 3, 5}) {
		t.Fatalf("monthlyHistory[2024-11] = %+v, want count 3 days [1 3 5]", b)
	}
}

func TestAggregateUsage_Empty(t *testing.T) {
	stats := services.AggregateUsage(nil, d(2024, time.November, 10, 12))

	if stats.WeekCount != 0 || stats.MonthCount != 0 || stats.TotalCount != 0 {
		t.Fatalf("counts = %d/%d/%d, want all zero", stats.WeekCount, stats.MonthCount, stats.TotalCount)
	}
	if len(stats.CurrentMonthDays) != 0 {
		t.Fatalf("currentMonthDays = %v, want empty", stats.CurrentMonthDays)
	}
	if len(stats.MonthlyHistory) != 0 {
		t.Fatalf("monthlyHistory = %v, want empty", stats.MonthlyHistory)
	}
	// JSON shape matters to clients: empty, not null.
	if stats.CurrentMonthDays == nil || stats.MonthlyHistory == nil {
		t.Fatal("empty aggregation must return non-nil containers")
	}
}

func TestAggregateUsage_WeekBoundary(t *testing.T) {
	// Wednesday; the week started Sunday 2024-11-10 00:00.
	now := d(2024, time.November, 13, 15)
	events := []time.Time{
		time.Date(2024, time.November, 10, 0, 0, 0, 0, time.UTC), // exactly at boundary
		time.Date(2024, time.November, 9, 23, 59, 59, 0, time.UTC),
	}

	stats := services.AggregateUsage(events, now)

	if stats.WeekCount != 1 {
		t.Fatalf("weekCount = %d, want 1 (boundary inclusive)", stats.WeekCount)
	}
	if stats.MonthCount != 2 {
		t.Fatalf("monthCount = %d, want 2", stats.MonthCount)
	}
}

func TestAggregateUsage_MonthlyHistory(t *testing.T) {
	now := d(2024, time.November, 10, 12)
	events := []time.Time{
		d(2024, time.March, 5, 8),
		d(2024, time.March, 5, 20), // same calendar day, counted once in days
		d(2023, time.December, 31, 10),
	}

	stats := services.AggregateUsage(events, now)

	if stats.TotalCount != 3 || stats.MonthCount != 0 || stats.WeekCount != 0 {
		t.Fatalf("counts = %d/%d/%d, want 3/0/0", stats.TotalCount, stats.MonthCount, stats.WeekCount)
	}
	mar := stats.MonthlyHistory["2024-03"]
	if mar.Count != 2 || !reflect.DeepEqual(mar.Days, []int{5}) {
		t.Fatalf("monthlyHistory[2024-03] = %+v, want count 2 days [5]", mar)
	}
	dec := stats.MonthlyHistory["2023-12"]
	if dec.Count != 1 || !reflect.DeepEqual(dec.Days, []int{31}) {
		t.Fatalf("monthlyHistory[2023-12] = %+v, want count 1 days [31]", dec)
	}
}

func TestAggregateUsage_OrderIndependent(t *testing.T) {
	now := d(2024, time.November, 10, 12)
	events := []time.Time{
		d(2024, time.November, 5, 9),
		d(2024, time.October, 1, 9),
		d(2024, time.November, 1, 9),
	}
	reversed := []time.Time{events[2], events[1], events[0]}

	a := services.AggregateUsage(events, now)
	b := services.AggregateUsage(reversed, now)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("aggregation depends on event order: %+v vs %+v", a, b)
	}
}
