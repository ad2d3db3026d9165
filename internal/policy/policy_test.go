package policy

import (
	"testing"
	"time"
)

func TestEligible(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		deliveredAt time.Time
		windowDays  int
		want        bool
	}{
		{"delivered yesterday", now.AddDate(0, 0, -1), 7, true},
		{"exactly at the window edge", now.Add(-7 * 24 * time.Hour), 7, true},
		{"one minute past the window", now.Add(-(7*24*time.Hour + time.Minute)), 7, false},
		{"well past the window", now.AddDate(0, 0, -30), 7, false},
		{"delivery timestamp in the future", now.Add(48 * time.Hour), 7, true},
		{"wider window", now.AddDate(0, 0, -10), 14, true},
		{"zero window only covers same instant", now.Add(-time.Minute), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.deliveredAt, now, tt.windowDays); got != tt.want {
				t.Errorf("Eligible(%v, now, %d) = %v, want %v",
					tt.deliveredAt, tt.windowDays, got, tt.want)
			}
		})
	}
}
