package service

import "time"

// Clock abstracts wall-clock time. Poll expiry, fee lateness and annual-fee
// year matching all read the clock through this interface so tests can freeze
// it.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default runtime clock implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
