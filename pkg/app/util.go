package app

import "time"

// nextDelay returns the time from now until the next hour:minute wall clock time.
func nextDelay(now time.Time, hour, minute int) time.Duration {
	next := time.Date(
		now.Year(),
		now.Month(),
		now.Day(),
		hour,
		minute,
		0,
		0,
		now.Location(),
	)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
