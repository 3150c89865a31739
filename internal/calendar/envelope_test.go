package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/eventdesk/internal/backend"
	"github.com/teemow/eventdesk/internal/datetime"
)

func TestEnvelope_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{
			name: "empty list keeps events",
			env:  Envelope{Status: StatusSuccess, Message: "No events found in the specified range.", Events: []EventView{}},
			want: `{"status":"success","message":"No events found in the specified range.","events":[]}`,
		},
		{
			name: "non-list omits events",
			env:  Envelope{Status: StatusConfirmationRequired, Message: "confirm"},
			want: `{"status":"confirmation_required","message":"confirm"}`,
		},
		{
			name: "details",
			env:  Envelope{Status: StatusSuccess, Message: "ok", Details: &EventView{ID: "e1", Summary: "s"}},
			want: `{"status":"success","message":"ok","details":{"id":"e1","summary":"s","start":"","end":"","timeZone":"","backgroundColor":""}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.env)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var back Envelope
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.env.Status, back.Status)
			assert.Equal(t, tt.env.Events == nil, back.Events == nil)
		})
	}
}

func TestViewOf_RenamesTitle(t *testing.T) {
	view := ViewOf(backend.Event{ID: "7", Title: "Standup", Start: "2025-06-01T09:00:00"})
	assert.Equal(t, "Standup", view.Summary)
	assert.Equal(t, "7", view.ID)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "title")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation",
			err:  &ValidationError{Field: "summary", Reason: "is required"},
			want: "Summary is required.",
		},
		{
			name: "normalization",
			err:  &dateError{Field: "start time", Err: &datetime.NormalizationError{Input: "soon"}},
			want: `Invalid start time format: "soon". Please provide a clear date and time.`,
		},
		{
			name: "backend",
			err:  fmt.Errorf("wrapped: %w", &backend.Error{StatusCode: 500, Message: "db down"}),
			want: "Calendar backend error: db down",
		},
		{
			name: "connectivity",
			err:  &backend.ConnectivityError{Op: "GET", URL: "http://localhost:3000/events", Err: errors.New("connection refused")},
			want: "Failed to connect to calendar backend: connection refused",
		},
		{
			name: "unexpected",
			err:  errors.New("boom"),
			want: "An unexpected error occurred: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.err, ""))
		})
	}
}
