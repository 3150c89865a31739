package datetime

import (
	"strings"
	"time"
)

// strictLayouts are tried in order; the first match wins.
var strictLayouts = []string{
	"2006-1-2 15:04",
	"2006-1-2 3:04 PM",
	"2006-1-2T15:04:05",
	"2006-1-2",
}

// isoZonedLayouts cover ISO-8601 date-times with a numeric offset.
// Fractional seconds after the seconds field are accepted by time.Parse.
var isoZonedLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04-07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05-07",
}

var isoNaiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"20060102T150405",
	"20060102",
}

// CurrentDate is the "today" fact handed to the reasoning component.
type CurrentDate struct {
	Date      string `json:"date"`
	Formatted string `json:"formatted"`
	Weekday   string `json:"weekday"`
	TimeZone  string `json:"timeZone"`
}

// Normalizer parses date/time text. The zero value is not usable; use NewNormalizer.
type Normalizer struct {
	location *time.Location
	now      func() time.Time
}

// NewNormalizer returns a Normalizer that reads "today" from the process clock in loc.
// A nil loc means time.Local.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{location: loc, now: time.Now}
}

// WithClock returns a copy of n that reads the current time from now.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	return &Normalizer{location: n.location, now: now}
}

// Location returns the zone used for "today".
func (n *Normalizer) Location() *time.Location {
	return n.location
}

// Normalize parses text into a Timestamp.
func (n *Normalizer) Normalize(text string) (Timestamp, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Timestamp{}, &NormalizationError{Input: text, Err: ErrEmpty}
	}

	if ts, ok := parseStrict(text); ok {
		return ts, nil
	}
	if ts, ok := parseISO(text); ok {
		return ts, nil
	}
	return Timestamp{}, &NormalizationError{Input: text}
}

// StartOfDay returns midnight of the current day as a naive timestamp.
func (n *Normalizer) StartOfDay() Timestamp {
	now := n.now().In(n.location)
	y, m, d := now.Date()
	return naive(time.Date(y, m, d, 0, 0, 0, 0, n.location))
}

// Today returns the current date fact.
func (n *Normalizer) Today() CurrentDate {
	now := n.now().In(n.location)
	return CurrentDate{
		Date:      now.Format(dateOnlyLayout),
		Formatted: now.Format(formattedDayStyle),
		Weekday:   now.Weekday().String(),
		TimeZone:  n.location.String(),
	}
}

func parseStrict(text string) (Timestamp, bool) {
	text = padClockFields(text)
	for _, layout := range strictLayouts {
		value := text
		if strings.HasSuffix(layout, "PM") {
			// AM/PM marker is matched case-insensitively.
			value = strings.ToUpper(text)
		}
		if t, err := time.Parse(layout, value); err == nil {
			return naive(t), true
		}
	}
	return Timestamp{}, false
}

// padClockFields zero-pads single-digit minute and second fields, so
// "14:5" reads as "14:05". Layout fields "04" and "05" need two digits.
func padClockFields(text string) string {
	if !strings.Contains(text, ":") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 2)
	for i := 0; i < len(text); i++ {
		b.WriteByte(text[i])
		if text[i] != ':' || i+1 >= len(text) || !isDigit(text[i+1]) {
			continue
		}
		if i+2 >= len(text) || !isDigit(text[i+2]) {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func parseISO(text string) (Timestamp, bool) {
	if strings.HasSuffix(text, "Z") || strings.HasSuffix(text, "z") {
		text = text[:len(text)-1] + "+00:00"
	}
	for _, layout := range isoZonedLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return Timestamp{Time: t}, true
		}
	}
	for _, layout := range isoNaiveLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return naive(t), true
		}
	}
	return Timestamp{}, false
}
