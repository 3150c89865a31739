package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/eventdesk/internal/calendar"
	"github.com/teemow/eventdesk/internal/config"
)

type recordingBackend struct {
	mu       sync.Mutex
	requests []string
	bodies   []map[string]any
	status   int
	listBody string
}

func (b *recordingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	var body map[string]any
	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	b.bodies = append(b.bodies, body)

	w.Header().Set("Content-Type", "application/json")
	if b.status != 0 {
		w.WriteHeader(b.status)
		_, _ = w.Write([]byte(`{"message":"calendar unavailable"}`))
		return
	}

	switch r.Method {
	case http.MethodPost:
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(withID(body, 42))
	case http.MethodGet:
		if b.listBody == "" {
			b.listBody = `[]`
		}
		_, _ = w.Write([]byte(b.listBody))
	case http.MethodPut:
		_ = json.NewEncoder(w).Encode(withID(body, "e1"))
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	}
}

// withID returns a copy of body with id set, leaving the recorded body intact.
func withID(body map[string]any, id any) map[string]any {
	out := make(map[string]any, len(body)+1)
	for k, v := range body {
		out[k] = v
	}
	out["id"] = id
	return out
}

func (b *recordingBackend) calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func startBackend(t *testing.T) (*recordingBackend, *httptest.Server) {
	t.Helper()
	isolateConfigDir(t)

	b := &recordingBackend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	t.Setenv(config.EnvBackendURL, srv.URL)
	t.Setenv(config.EnvLocation, "UTC")
	t.Setenv(config.DefaultConfigEnvVar, "")
	return b, srv
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (calendar.Envelope, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()

	var env calendar.Envelope
	if stdout.Len() > 0 {
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &env), stdout.String())
	}
	return env, err
}

func TestEventsCreate(t *testing.T) {
	b, _ := startBackend(t)

	env, err := runCommand(t, newEventsCmd(), "create",
		"--summary", "Standup",
		"--start", "2025-06-03 09:00",
		"--end", "2025-06-03 09:15",
	)
	require.NoError(t, err)

	assert.Equal(t, calendar.StatusSuccess, env.Status)
	assert.Equal(t, "Event 'Standup' created successfully.", env.Message)
	require.NotNil(t, env.Details)
	assert.Equal(t, "42", env.Details.ID)
	assert.Equal(t, []string{"POST /events"}, b.calls())

	body := b.bodies[0]
	assert.Equal(t, "Standup", body["title"])
	assert.Equal(t, "2025-06-03T09:00:00", body["start"])
	assert.Equal(t, config.DefaultTimeZone, body["timeZone"])
	assert.Equal(t, config.DefaultColor, body["backgroundColor"])
}

func TestEventsCreate_InvalidDate(t *testing.T) {
	b, _ := startBackend(t)

	env, err := runCommand(t, newEventsCmd(), "create",
		"--summary", "Standup",
		"--start", "whenever",
		"--end", "2025-06-03 09:15",
	)
	require.Error(t, err)
	assert.Equal(t, calendar.StatusError, env.Status)
	assert.Equal(t, env.Message, err.Error())
	assert.Empty(t, b.calls(), "nothing is sent for unparsable dates")
}

func TestEventsList(t *testing.T) {
	b, _ := startBackend(t)

	env, err := runCommand(t, newEventsCmd(), "list", "--start", "2025-06-02", "--days", "3")
	require.NoError(t, err)

	assert.Equal(t, calendar.StatusSuccess, env.Status)
	assert.NotNil(t, env.Events)
	assert.Empty(t, env.Events)
	assert.Equal(t, []string{"GET /events"}, b.calls())
}

func TestEventsList_BackendError(t *testing.T) {
	b, _ := startBackend(t)
	b.status = http.StatusServiceUnavailable

	env, err := runCommand(t, newEventsCmd(), "list")
	require.Error(t, err)
	assert.Equal(t, calendar.StatusError, env.Status)
	assert.Contains(t, env.Message, "calendar unavailable")
	assert.NotNil(t, env.Events)
}

func TestEventsUpdate(t *testing.T) {
	b, _ := startBackend(t)

	env, err := runCommand(t, newEventsCmd(), "update", "e1", "--summary", "Renamed")
	require.NoError(t, err)

	assert.Equal(t, calendar.StatusSuccess, env.Status)
	assert.Equal(t, []string{"PUT /events/e1"}, b.calls())
	assert.Equal(t, map[string]any{"title": "Renamed"}, b.bodies[0], "only set flags are sent")
}

func TestEventsUpdate_NothingToChange(t *testing.T) {
	b, _ := startBackend(t)

	env, err := runCommand(t, newEventsCmd(), "update", "e1")
	require.NoError(t, err)
	assert.Equal(t, calendar.StatusInfo, env.Status)
	assert.Empty(t, b.calls())
}

func TestEventsDelete(t *testing.T) {
	b, _ := startBackend(t)

	env, err := runCommand(t, newEventsCmd(), "delete", "e1")
	require.NoError(t, err)
	assert.Equal(t, calendar.StatusConfirmationRequired, env.Status)
	assert.Empty(t, b.calls(), "unconfirmed deletes never reach the backend")

	env, err = runCommand(t, newEventsCmd(), "delete", "e1", "--yes")
	require.NoError(t, err)
	assert.Equal(t, calendar.StatusSuccess, env.Status)
	assert.Equal(t, "Event 'e1' successfully deleted.", env.Message)
	assert.Equal(t, []string{"DELETE /events/e1"}, b.calls())
}

func TestEventsDelete_RequiresID(t *testing.T) {
	b, _ := startBackend(t)

	cmd := newEventsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"delete"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
	assert.Empty(t, b.calls())
}

func TestEventsList_ICSFormat(t *testing.T) {
	b, _ := startBackend(t)
	b.listBody = `[
		{"id": 7, "title": "Standup", "start": "2025-06-03T09:00:00", "end": "2025-06-03T09:15:00", "timeZone": "Asia/Colombo"},
		{"id": 8, "title": "Next week", "start": "2025-06-10T09:00:00", "end": "2025-06-10T10:00:00"}
	]`

	cmd := newEventsCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list", "--start", "2025-06-03", "--days", "1", "--format", "ics"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"), out)
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Standup")
	assert.Contains(t, out, "7@eventdesk")
	assert.NotContains(t, out, "Next week")
}

func TestEventsList_ICSFormatReportsErrorsAsJSON(t *testing.T) {
	b, _ := startBackend(t)
	b.status = http.StatusServiceUnavailable

	env, err := runCommand(t, newEventsCmd(), "list", "--format", "ics")
	require.Error(t, err)
	assert.Equal(t, calendar.StatusError, env.Status)
	assert.Empty(t, env.Events)
}

func TestEventsList_UnsupportedFormat(t *testing.T) {
	b, _ := startBackend(t)

	_, err := runCommand(t, newEventsCmd(), "list", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "xml"`)
	assert.Empty(t, b.calls())
}

func TestRecordingBackend_KeepsRequestBodies(t *testing.T) {
	b := &recordingBackend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	for _, method := range []string{http.MethodPost, http.MethodPut} {
		req, err := http.NewRequest(method, srv.URL+"/events", strings.NewReader(`{"title":"Renamed"}`))
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/events", http.NoBody)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.bodies, 3)
	assert.Equal(t, map[string]any{"title": "Renamed"}, b.bodies[0])
	assert.Equal(t, map[string]any{"title": "Renamed"}, b.bodies[1])
	assert.Nil(t, b.bodies[2])
}
