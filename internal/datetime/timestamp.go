package datetime

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmpty is returned (wrapped in a NormalizationError) for empty input.
var ErrEmpty = errors.New("empty date/time text")

// NormalizationError reports date/time text that matched no supported layout.
type NormalizationError struct {
	Input string
	Err   error
}

func (e *NormalizationError) Error() string {
	if errors.Is(e.Err, ErrEmpty) {
		return "date/time text is empty"
	}
	return fmt.Sprintf("unrecognized date/time format: %q", e.Input)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

const (
	naiveLayout       = "2006-01-02T15:04:05"
	naiveMicroLayout  = "2006-01-02T15:04:05.000000"
	zonedLayout       = "2006-01-02T15:04:05-07:00"
	zonedMicroLayout  = "2006-01-02T15:04:05.000000-07:00"
	dateOnlyLayout    = "2006-01-02"
	formattedDayStyle = "Monday, January 2, 2006"
)

// Timestamp is a normalized instant. A naive timestamp has no zone: its Time
// holds the wall clock reading in UTC and carries no offset meaning.
type Timestamp struct {
	time.Time
	Naive bool
}

// ISO renders the timestamp as ISO-8601. Naive timestamps have no offset
// suffix; fractional seconds are emitted as microseconds only when non-zero.
func (t Timestamp) ISO() string {
	micro := t.Nanosecond()/int(time.Microsecond) != 0
	switch {
	case t.Naive && micro:
		return t.Format(naiveMicroLayout)
	case t.Naive:
		return t.Format(naiveLayout)
	case micro:
		return t.Format(zonedMicroLayout)
	default:
		return t.Format(zonedLayout)
	}
}

// Wall returns the wall clock reading of t, stripped of any zone, for
// comparisons between naive and zoned timestamps.
func (t Timestamp) Wall() time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)
}

// AddDays shifts the timestamp by whole days, keeping its naive/zoned kind.
func (t Timestamp) AddDays(days int) Timestamp {
	return Timestamp{Time: t.AddDate(0, 0, days), Naive: t.Naive}
}

func naive(t time.Time) Timestamp {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return Timestamp{
		Time:  time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC),
		Naive: true,
	}
}
