package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr string
	}{
		{name: "default", baseURL: ""},
		{name: "https", baseURL: "https://calendar.example.com/api"},
		{name: "bad scheme", baseURL: "ftp://example.com", wantErr: "scheme"},
		{name: "missing host", baseURL: "http://", wantErr: "missing host"},
		{name: "unparsable", baseURL: "http://[::1", wantErr: "invalid backend URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(Config{BaseURL: tt.baseURL})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}

	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
}

func TestCreateEvent(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":42,"title":"Standup","start":"2025-06-01T14:00:00","end":"2025-06-01T14:30:00","timeZone":"Asia/Colombo","backgroundColor":"#def5e6"}`)
	})

	ev, err := client.CreateEvent(context.Background(), CreateRequest{
		Title:           "Standup",
		Start:           "2025-06-01T14:00:00",
		End:             "2025-06-01T14:30:00",
		TimeZone:        "Asia/Colombo",
		BackgroundColor: "#def5e6",
	})
	require.NoError(t, err)

	assert.Equal(t, ID("42"), ev.ID)
	assert.Equal(t, "Standup", ev.Title)
	assert.Equal(t, map[string]any{
		"title":           "Standup",
		"start":           "2025-06-01T14:00:00",
		"end":             "2025-06-01T14:30:00",
		"timeZone":        "Asia/Colombo",
		"backgroundColor": "#def5e6",
	}, gotBody)
}

func TestListEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/events", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `[{"id":"a","title":"One","start":"2025-06-01T09:00:00","end":"2025-06-01T10:00:00"},{"id":"b","title":"Two","start":null,"end":null}]`)
	})

	events, err := client.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ID("a"), events[0].ID)
	assert.Empty(t, events[1].Start)
}

func TestUpdateEvent_OnlySuppliedFields(t *testing.T) {
	var raw map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/events/e%2F1", r.URL.EscapedPath())
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = io.WriteString(w, `{"id":"e/1","title":"Renamed","start":"2025-06-01T09:00:00","end":"2025-06-01T10:00:00"}`)
	})

	title := "Renamed"
	ev, err := client.UpdateEvent(context.Background(), "e/1", UpdateRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"title": "Renamed"}, raw)
	assert.Equal(t, "Renamed", ev.Title)
}

func TestDeleteEvent(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "no content", status: http.StatusNoContent, wantStatus: http.StatusNoContent},
		{name: "ok with body", status: http.StatusOK, body: `{"deleted":true}`, wantStatus: http.StatusOK},
		{name: "accepted", status: http.StatusAccepted, wantStatus: http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/events/e1", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			status, err := client.DeleteEvent(context.Background(), "e1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "json message", status: 500, body: `{"message":"db down"}`, wantMessage: "db down"},
		{name: "json message list", status: 400, body: `{"statusCode":400,"message":["title should not be empty","start must be a date"],"error":"Bad Request"}`, wantMessage: "title should not be empty; start must be a date"},
		{name: "plain text", status: 502, body: "upstream unavailable", wantMessage: "Bad Gateway"},
		{name: "html page", status: 502, body: "<html><body><h1>502 Bad Gateway</h1><hr>nginx</body></html>", wantMessage: "Bad Gateway"},
		{name: "json without message", status: 409, body: `{"error":"conflict","detail":{"row":12,"sql":"INSERT ..."}}`, wantMessage: "Conflict"},
		{name: "empty message", status: 400, body: `{"message":""}`, wantMessage: "Bad Request"},
		{name: "empty body", status: 404, body: "", wantMessage: "Not Found"},
		{name: "unknown status", status: 599, body: "oops", wantMessage: "HTTP 599"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.ListEvents(context.Background())
			require.Error(t, err)

			var berr *Error
			require.True(t, errors.As(err, &berr))
			assert.Equal(t, tt.status, berr.StatusCode)
			assert.Equal(t, tt.wantMessage, berr.Message)
		})
	}
}

func TestConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(Config{BaseURL: baseURL})
	require.NoError(t, err)

	_, err = client.ListEvents(context.Background())
	require.Error(t, err)

	var cerr *ConnectivityError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, http.MethodGet, cerr.Op)
	assert.Contains(t, cerr.URL, "/events")
	assert.NotNil(t, errors.Unwrap(cerr))
}

func TestDecodeFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"}`)
	})

	_, err := client.ListEvents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")

	var berr *Error
	assert.False(t, errors.As(err, &berr))
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{in: `"abc"`, want: "abc"},
		{in: `17`, want: "17"},
		{in: `null`, want: ""},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.in), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestUpdateRequest_IsEmpty(t *testing.T) {
	assert.True(t, UpdateRequest{}.IsEmpty())

	tz := "UTC"
	assert.False(t, UpdateRequest{TimeZone: &tz}.IsEmpty())
}
