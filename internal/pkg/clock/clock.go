package clock

import "time"

// Clock supplies the current instant. Services take a Clock instead of calling
// time.Now directly so that "now"-relative logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns a Clock backed by the wall clock, in UTC.
func System() Clock {
	return systemClock{}
}

// Fixed returns a Clock that always reports t.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
