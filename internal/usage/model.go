package usage

import "time"

// Usage represents a user's scan quota snapshot for the current period.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

// periodKey identifies the monthly counter row, e.g. "2026-08".
func periodKey(now time.Time) string {
	return now.UTC().Format("2006-01")
}

// periodEnd is the instant the current monthly counter expires.
func periodEnd(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
