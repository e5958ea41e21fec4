package identity

import "time"

// IsWithinThresholdPeriod reports whether t falls inside the trailing window
// ending now.
func IsWithinThresholdPeriod(t time.Time, window time.Duration) bool {
	return t.After(time.Now().Add(-window))
}

// IsOutsideThresholdPeriod is the negation of IsWithinThresholdPeriod
func IsOutsideThresholdPeriod(t time.Time, window time.Duration) bool {
	return !IsWithinThresholdPeriod(t, window)
}
