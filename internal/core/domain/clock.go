package domain

import "time"

// Clock supplies the current time to services so that transition timestamps
// and validity checks are deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock returns a Clock backed by the system time in UTC.
func NewRealClock() Clock {
	return realClock{}
}
