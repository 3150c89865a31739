package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a backend event identifier. Backends may send it as a JSON string or
// number; it is always handled as an opaque string here.
type ID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("event id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Event is an event as stored by the backend. Start and End are ISO-8601
// strings exactly as the backend returned them.
type Event struct {
	ID              ID     `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	TimeZone        string `json:"timeZone,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// CreateRequest is the body of POST /events.
type CreateRequest struct {
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	TimeZone        string `json:"timeZone"`
	BackgroundColor string `json:"backgroundColor"`
}

// UpdateRequest is the body of PUT /events/{id}. Nil fields are left out of
// the request so the backend keeps their current values.
type UpdateRequest struct {
	Title    *string `json:"title,omitempty"`
	Start    *string `json:"start,omitempty"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"timeZone,omitempty"`
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateRequest) IsEmpty() bool {
	return r.Title == nil && r.Start == nil && r.End == nil && r.TimeZone == nil
}
