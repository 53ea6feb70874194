package timeutil

import "time"

// Common layouts used in statements and logs.
const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02 Jan 2006, 03:04 PM"
)

// Now returns the current time in UTC. All due-date arithmetic in the
// billing subsystem is done in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// DaysLate returns the whole number of days now is past due, floored.
// Never negative: an obligation not yet due is 0 days late.
func DaysLate(due, now time.Time) int {
	d := now.Sub(due)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
