package chrono

import (
	"time"
)

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct {
	location *time.Location
}

// NewStandardTime is the constructor of StandardTime, an empty `zone`
// keeps times in UTC.
func NewStandardTime(zone string) (StandardTime, error) {
	if zone == "" {
		return StandardTime{location: time.UTC}, nil
	}
	location, err := time.LoadLocation(zone)
	if err != nil {
		return StandardTime{}, err
	}
	return StandardTime{location: location}, nil
}

func (s StandardTime) Now() time.Time {
	if s.location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(s.location)
}

// FixedTime always returns the same instant, it is meant for tests.
type FixedTime time.Time

func (f FixedTime) Now() time.Time {
	return time.Time(f)
}
