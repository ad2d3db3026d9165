// Package policy implements the return-eligibility window check.
package policy

import "time"

// DefaultWindowDays is the company return window: refunds and exchanges
// are automatically approvable within this many days of delivery.
const DefaultWindowDays = 7

// Eligible reports whether a delivery falls inside the return window.
// The boundary is inclusive: a delivery exactly windowDays ago is still
// eligible, one minute beyond is not.
//
// A delivery timestamp in the future means the upstream order system's
// clock is ahead of ours. Policy choice: clock skew never penalizes the
// user, so future deliveries count as eligible.
func Eligible(deliveredAt, now time.Time, windowDays int) bool {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	elapsed := now.Sub(deliveredAt)
	if elapsed < 0 {
		return true
	}
	return elapsed <= time.Duration(windowDays)*24*time.Hour
}
