package services

import (
	"fmt"
	"sort"
	"time"

	"projectpan/internal/domain"
	"projectpan/internal/repos"
)

// UsageService loads a product's usage events and aggregates them.
type UsageService struct {
	Usage *repos.UsageRepo
}

func NewUsageService(usage *repos.UsageRepo) *UsageService {
	return &UsageService{Usage: usage}
}

// ProductUsage returns the raw logs plus their aggregation at "now".
func (s *UsageService) ProductUsage(productID int64, now time.Time) ([]domain.UsageLog, domain.UsageStats, error) {
	logs, err := s.Usage.ListByProduct(productID)
	if err != nil {
		return nil, domain.UsageStats{}, err
	}

	events := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		t, err := parseTimestamp(l.Date)
		if err != nil {
			// Skip rows with unparseable dates rather than failing the view.
			continue
		}
		events = append(events, t)
	}
	return logs, AggregateUsage(events, now), nil
}

// LogUsage appends one event at "now" and stamps the product's last_used.
func (s *UsageService) LogUsage(productID int64, now time.Time) error {
	return s.Usage.Log(productID, now)
}

// AggregateUsage groups usage timestamps into week/month/total counts, a
// day-of-month presence set for the current month, and a month-by-month
// history keyed "YYYY-MM". Pure function of the events and "now":
// identical inputs give identical output, independent of event order.
// Week boundary is the start of the current calendar week (Sunday 00:00
// in now's location); month boundary is the first of the current month.
func AggregateUsage(events []time.Time, now time.Time) domain.UsageStats {
	loc := now.Location()
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	weekStart := dayStart.AddDate(0, 0, -int(now.Weekday()))
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	stats := domain.UsageStats{
		CurrentMonthDays: []int{},
		MonthlyHistory:   map[string]domain.MonthBucket{},
	}
	currentDays := map[int]bool{}
	historyDays := map[string]map[int]bool{}

	for _, ev := range events {
		ev = ev.In(loc)
		stats.TotalCount++
		if !ev.Before(weekStart) {
			stats.WeekCount++
		}
		if !ev.Before(monthStart) {
			stats.MonthCount++
			currentDays[ev.Day()] = true
		}

		key := fmt.Sprintf("%04d-%02d", ev.Year(), int(ev.Month()))
		b := stats.MonthlyHistory[key]
		b.Count++
		stats.MonthlyHistory[key] = b
		if historyDays[key] == nil {
			historyDays[key] = map[int]bool{}
		}
		historyDays[key][ev.Day()] = true
	}

	stats.CurrentMonthDays = sortedDays(currentDays)
	for key, days := range historyDays {
		b := stats.MonthlyHistory[key]
		b.Days = sortedDays(days)
		stats.MonthlyHistory[key] = b
	}
	return stats
}

func sortedDays(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// parseTimestamp accepts the formats the store has historically written.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
