// Package service holds the UI-side services built on top of the repositories.
package service

import "time"

// Clock supplies the instant the test-clock override falls back to when no
// override is stored.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time, truncated to the millisecond precision of
// the x-test-now-ms header so a stored override round-trips exactly.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FixedClock pins the fallback instant so Advance is deterministic in tests.
type FixedClock time.Time

func (f FixedClock) Now() time.Time { return time.Time(f) }

// FixedClockMS builds a FixedClock from epoch milliseconds.
func FixedClockMS(ms int64) FixedClock { return FixedClock(time.UnixMilli(ms).UTC()) }
