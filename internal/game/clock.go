package game

import "time"

// Clock abstracts wall time so catch-dwell behavior is testable without
// real sleeps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
