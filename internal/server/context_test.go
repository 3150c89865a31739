package server

import (
	"context"
	"testing"
	"time"

	"github.com/teemow/eventdesk/internal/backend"
	"github.com/teemow/eventdesk/internal/calendar"
	"github.com/teemow/eventdesk/internal/datetime"
)

var fixedNow = time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *calendar.Service {
	t.Helper()

	client, err := backend.NewClient(backend.Config{BaseURL: "http://localhost:3000"})
	if err != nil {
		t.Fatalf("backend.NewClient() error = %v", err)
	}

	clock := fixedNow
	svc, err := calendar.NewService(calendar.Config{
		Backend:    client,
		Normalizer: datetime.NewNormalizer(time.UTC).WithClock(func() time.Time { return clock }),
	})
	if err != nil {
		t.Fatalf("calendar.NewService() error = %v", err)
	}
	return svc
}

func TestNewServerContext(t *testing.T) {
	sc, err := NewServerContext(context.Background(), newTestService(t), WithBackendURL("http://localhost:3000"))
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer sc.Shutdown()

	today := sc.Today()
	if today.Date != "2025-06-02" {
		t.Errorf("Today().Date = %q, want %q", today.Date, "2025-06-02")
	}
	if today.Weekday != "Monday" {
		t.Errorf("Today().Weekday = %q, want %q", today.Weekday, "Monday")
	}
	if sc.Calendar() == nil {
		t.Error("Calendar() returned nil")
	}
	if sc.BackendURL() != "http://localhost:3000" {
		t.Errorf("BackendURL() = %q", sc.BackendURL())
	}
	if sc.Metrics() != nil || sc.AuditLogger() != nil {
		t.Error("expected no instrumentation by default")
	}
	if sc.Logger() == nil {
		t.Error("Logger() returned nil")
	}
}

func TestNewServerContext_NilService(t *testing.T) {
	if _, err := NewServerContext(context.Background(), nil); err == nil {
		t.Error("NewServerContext(nil) expected error")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), newTestService(t))
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if sc.IsShutdown() {
		t.Fatal("new context reports shutdown")
	}
	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() = false after Shutdown")
	}
	if sc.Context().Err() == nil {
		t.Error("context not cancelled after Shutdown")
	}
	// Second call is a no-op.
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}
