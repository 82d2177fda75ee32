package domain

import "time"

// ReportingPeriod is a half-open date range [Start, End) with a unique label.
type ReportingPeriod struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the period.
func (p ReportingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// MonthlyPeriods returns n consecutive calendar-month periods starting at the month of from.
func MonthlyPeriods(from time.Time, n int) []ReportingPeriod {
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	periods := make([]ReportingPeriod, 0, n)
	for i := 0; i < n; i++ {
		end := start.AddDate(0, 1, 0)
		label := start.Format("2006-01")
		periods = append(periods, ReportingPeriod{
			ID:    NewID("period", label),
			Label: label,
			Start: start,
			End:   end,
		})
		start = end
	}
	return periods
}
