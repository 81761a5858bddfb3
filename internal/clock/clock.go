package clock

import "time"

// Clock supplies "now" to everything that stamps or filters by time.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in a fixed location.
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	return time.Now().In(s.Location)
}

// Fixed always returns the same instant. Used in tests.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// LoadLocation falls back to a fixed WIB (UTC+7) zone when tzdata is
// missing from the host.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = "Asia/Jakarta"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("WIB", 7*3600)
	}
	return loc
}
