package calendar

import (
	"encoding/json"

	"github.com/teemow/eventdesk/internal/backend"
)

// Status is the outcome class of an operation.
type Status string

const (
	StatusSuccess              Status = "success"
	StatusError                Status = "error"
	StatusConfirmationRequired Status = "confirmation_required"
	StatusInfo                 Status = "info"
)

// EventView is an event shaped for the reasoning component. The backend's
// "title" is exposed as "summary"; Start and End are the backend's strings.
type EventView struct {
	ID              string `json:"id"`
	Summary         string `json:"summary"`
	Start           string `json:"start"`
	End             string `json:"end"`
	TimeZone        string `json:"timeZone"`
	BackgroundColor string `json:"backgroundColor"`
}

// ViewOf converts a backend event.
func ViewOf(ev backend.Event) EventView {
	return EventView{
		ID:              string(ev.ID),
		Summary:         ev.Title,
		Start:           ev.Start,
		End:             ev.End,
		TimeZone:        ev.TimeZone,
		BackgroundColor: ev.BackgroundColor,
	}
}

// Envelope is the result of every operation. Message is always a short human
// readable summary. Details is set on create/update success. Events is non-nil
// for list results, including failed ones.
type Envelope struct {
	Status  Status
	Message string
	Details *EventView
	Events  []EventView
}

// IsError reports whether the envelope describes a failure.
func (e *Envelope) IsError() bool {
	return e.Status == StatusError
}

// MarshalJSON emits "events" whenever Events is non-nil, so an empty list
// result serializes as "events": [].
func (e Envelope) MarshalJSON() ([]byte, error) {
	out := struct {
		Status  Status       `json:"status"`
		Message string       `json:"message"`
		Details *EventView   `json:"details,omitempty"`
		Events  *[]EventView `json:"events,omitempty"`
	}{
		Status:  e.Status,
		Message: e.Message,
		Details: e.Details,
	}
	if e.Events != nil {
		out.Events = &e.Events
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var in struct {
		Status  Status      `json:"status"`
		Message string      `json:"message"`
		Details *EventView  `json:"details"`
		Events  []EventView `json:"events"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = Envelope{Status: in.Status, Message: in.Message, Details: in.Details, Events: in.Events}
	return nil
}

func success(message string) *Envelope {
	return &Envelope{Status: StatusSuccess, Message: message}
}

func failure(message string) *Envelope {
	return &Envelope{Status: StatusError, Message: message}
}
