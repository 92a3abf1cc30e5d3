package booking

import (
	"time"
)

const DateLayout = "2006-01-02"

// Stay is a check-in/check-out pair of calendar dates (UTC midnight).
type Stay struct {
	checkIn  time.Time
	checkOut time.Time
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	in, out := truncateDay(checkIn), truncateDay(checkOut)
	if !out.After(in) {
		return Stay{}, ErrInvalidStay
	}
	return Stay{checkIn: in, checkOut: out}, nil
}

func ParseStay(checkIn, checkOut string) (Stay, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return Stay{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return Stay{}, err
	}
	return NewStay(in, out)
}

func ReconstructStay(checkIn, checkOut time.Time) Stay {
	return Stay{checkIn: truncateDay(checkIn), checkOut: truncateDay(checkOut)}
}

func (s Stay) CheckIn() time.Time  { return s.checkIn }
func (s Stay) CheckOut() time.Time { return s.checkOut }

func (s Stay) Nights() int {
	return int(s.checkOut.Sub(s.checkIn).Hours() / 24)
}

func (s Stay) Days() int {
	return s.Nights() + 1
}

// Overlaps uses closed ranges: a check-out on day N collides with a
// check-in on day N.
func (s Stay) Overlaps(other Stay) bool {
	return !s.checkIn.After(other.checkOut) && !s.checkOut.Before(other.checkIn)
}

func (s Stay) Key() string {
	return s.checkIn.Format(DateLayout) + ":" + s.checkOut.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
