package calendar

import (
	"context"

	"github.com/teemow/eventdesk/internal/backend"
)

// CreateInput is the input of Service.Create. Start and End are free-form
// date/time text; TimeZone defaults to the service's default zone.
type CreateInput struct {
	Summary  string
	Start    string
	End      string
	TimeZone string
}

// ListInput is the input of Service.List. A nil or unparsable Start means
// the beginning of the current day.
type ListInput struct {
	Start *string
	Days  int
}

// UpdateInput is the input of Service.Update. Only non-nil fields are sent.
type UpdateInput struct {
	EventID  string
	Summary  *string
	Start    *string
	End      *string
	TimeZone *string
}

// DeleteInput is the input of Service.Delete. Nothing is sent unless Confirm
// is true.
type DeleteInput struct {
	EventID string
	Confirm bool
}

// Backend is the subset of *backend.Client the service needs.
type Backend interface {
	CreateEvent(ctx context.Context, req backend.CreateRequest) (*backend.Event, error)
	ListEvents(ctx context.Context) ([]backend.Event, error)
	UpdateEvent(ctx context.Context, id string, req backend.UpdateRequest) (*backend.Event, error)
	DeleteEvent(ctx context.Context, id string) (int, error)
}

var _ Backend = (*backend.Client)(nil)
