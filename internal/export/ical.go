// Package export renders listed events in formats other than the JSON
// result envelope.
package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/teemow/eventdesk/internal/calendar"
	"github.com/teemow/eventdesk/internal/datetime"
)

const (
	icsUTCLayout      = "20060102T150405Z"
	icsFloatingLayout = "20060102T150405"

	// UIDDomain qualifies backend event IDs in VEVENT UIDs.
	UIDDomain = "eventdesk"
)

// ICalendar writes events as an iCalendar (RFC 5545) document. Event times are
// the backend's strings run through n: zoned times are written in UTC, naive
// times carry the event's TZID or stay floating when it has none.
//
// Events whose start or end cannot be parsed are left out; the number of
// skipped events is returned.
func ICalendar(w io.Writer, events []calendar.EventView, n *datetime.Normalizer, stamp time.Time) (int, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//eventdesk//calendar export//EN")

	skipped := 0
	for _, ev := range events {
		start, err := n.Normalize(ev.Start)
		if err != nil {
			skipped++
			continue
		}
		end, err := n.Normalize(ev.End)
		if err != nil {
			skipped++
			continue
		}

		vevent := cal.AddEvent(fmt.Sprintf("%s@%s", ev.ID, UIDDomain))
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(ev.Summary)
		setTime(vevent, ics.ComponentPropertyDtStart, start, ev.TimeZone)
		setTime(vevent, ics.ComponentPropertyDtEnd, end, ev.TimeZone)
		if ev.BackgroundColor != "" {
			vevent.SetProperty(ics.ComponentProperty("COLOR"), ev.BackgroundColor)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return skipped, fmt.Errorf("failed to write calendar: %w", err)
	}
	return skipped, nil
}

func setTime(vevent *ics.VEvent, prop ics.ComponentProperty, ts datetime.Timestamp, timeZone string) {
	switch {
	case !ts.Naive:
		vevent.SetProperty(prop, ts.UTC().Format(icsUTCLayout))
	case timeZone != "":
		vevent.SetProperty(prop, ts.Format(icsFloatingLayout),
			&ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{timeZone}})
	default:
		vevent.SetProperty(prop, ts.Format(icsFloatingLayout))
	}
}
