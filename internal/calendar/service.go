package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/eventdesk/internal/backend"
	"github.com/teemow/eventdesk/internal/datetime"
	"github.com/teemow/eventdesk/internal/instrumentation"
	"github.com/teemow/eventdesk/internal/logging"
)

const (
	// DefaultTimeZone is used when a create request names no zone.
	DefaultTimeZone = "Asia/Colombo"

	// DefaultColor is the background colour given to new events.
	DefaultColor = "#def5e6"

	// DefaultListDays is the default length of a list window.
	DefaultListDays = 7
)

// Config configures a Service.
type Config struct {
	Backend    Backend
	Normalizer *datetime.Normalizer

	// DefaultTimeZone defaults to DefaultTimeZone.
	DefaultTimeZone string
	// DefaultColor defaults to DefaultColor.
	DefaultColor string

	// Metrics may be nil.
	Metrics *instrumentation.Metrics
	// Logger defaults to slog.Default().
	Logger logging.Logger
}

// Service implements the four calendar operations on top of the backend.
// Every operation returns an Envelope; none returns a Go error. A Service
// holds no mutable state and is safe for concurrent use.
type Service struct {
	backend    Backend
	normalizer *datetime.Normalizer
	timeZone   string
	color      string
	metrics    *instrumentation.Metrics
	logger     logging.Logger
}

// NewService returns a Service. Backend is required.
func NewService(cfg Config) (*Service, error) {
	if cfg.Backend == nil {
		return nil, errors.New("calendar backend is required")
	}
	if cfg.Normalizer == nil {
		cfg.Normalizer = datetime.NewNormalizer(nil)
	}
	if cfg.DefaultTimeZone == "" {
		cfg.DefaultTimeZone = DefaultTimeZone
	}
	if cfg.DefaultColor == "" {
		cfg.DefaultColor = DefaultColor
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.DefaultLogger()
	}

	return &Service{
		backend:    cfg.Backend,
		normalizer: cfg.Normalizer,
		timeZone:   cfg.DefaultTimeZone,
		color:      cfg.DefaultColor,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}, nil
}

// Normalizer returns the normalizer used for date/time arguments.
func (s *Service) Normalizer() *datetime.Normalizer {
	return s.normalizer
}

// DefaultTimeZone returns the zone applied to new events without one.
func (s *Service) DefaultTimeZone() string {
	return s.timeZone
}

// Create normalizes the start and end text and posts a new event.
func (s *Service) Create(ctx context.Context, in CreateInput) *Envelope {
	ctx, span := instrumentation.StartOperationSpan(ctx, instrumentation.OperationCreate)
	defer span.End()

	env := s.create(ctx, in)
	return s.finish(ctx, span, instrumentation.OperationCreate, env)
}

func (s *Service) create(ctx context.Context, in CreateInput) *Envelope {
	if strings.TrimSpace(in.Summary) == "" {
		return failure(describe(&ValidationError{Field: "summary", Reason: "is required"}, ""))
	}

	start, err := s.normalize("start time", in.Start)
	if err != nil {
		return failure(describe(err, ""))
	}
	end, err := s.normalize("end time", in.End)
	if err != nil {
		return failure(describe(err, ""))
	}

	tz := in.TimeZone
	if tz == "" {
		tz = s.timeZone
	}

	ev, err := s.backend.CreateEvent(ctx, backend.CreateRequest{
		Title:           in.Summary,
		Start:           start.ISO(),
		End:             end.ISO(),
		TimeZone:        tz,
		BackgroundColor: s.color,
	})
	if err != nil {
		s.logger.Warn("failed to create event", logging.Err(err))
		return failure(describe(err, ""))
	}

	view := ViewOf(*ev)
	s.logger.Info("event created", logging.EventID(view.ID))
	env := success(fmt.Sprintf("Event '%s' created successfully.", in.Summary))
	env.Details = &view
	return env
}

// List returns the events whose start falls in [start, start+days).
//
// A missing or unparsable start silently falls back to the beginning of the
// current day. Filtering happens here on the full GET /events response,
// comparing wall clock readings.
func (s *Service) List(ctx context.Context, in ListInput) *Envelope {
	ctx, span := instrumentation.StartOperationSpan(ctx, instrumentation.OperationList)
	defer span.End()

	env := s.list(ctx, in)
	if env.Events == nil {
		env.Events = []EventView{}
	}
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrEventCount, len(env.Events)))
	return s.finish(ctx, span, instrumentation.OperationList, env)
}

func (s *Service) list(ctx context.Context, in ListInput) *Envelope {
	if in.Days < 0 {
		return failure(describe(&ValidationError{Field: "days", Reason: "must not be negative"}, ""))
	}

	from := s.normalizer.StartOfDay()
	if in.Start != nil && strings.TrimSpace(*in.Start) != "" {
		ts, err := s.normalizer.Normalize(*in.Start)
		if err != nil {
			s.logger.Debug("unparsable list start, using start of today", "start", *in.Start, logging.Err(err))
		} else {
			from = ts
		}
	}
	lo := from.Wall()
	hi := from.AddDays(in.Days).Wall()

	events, err := s.backend.ListEvents(ctx)
	if err != nil {
		s.logger.Warn("failed to list events", logging.Err(err))
		return failure(describe(err, ""))
	}

	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		if ev.Start == "" {
			continue
		}
		ts, err := s.normalizer.Normalize(ev.Start)
		if err != nil {
			s.logger.Warn("skipping event with unparsable start",
				logging.EventID(string(ev.ID)), "start", ev.Start)
			continue
		}
		at := ts.Wall()
		if at.Before(lo) || !at.Before(hi) {
			continue
		}
		views = append(views, ViewOf(ev))
	}

	env := success(fmt.Sprintf("Found %d event(s).", len(views)))
	if len(views) == 0 {
		env.Message = "No events found in the specified range."
	}
	env.Events = views
	return env
}

// Update sends only the supplied fields. Any supplied date that fails to
// normalize fails the whole call before anything is sent.
func (s *Service) Update(ctx context.Context, in UpdateInput) *Envelope {
	ctx, span := instrumentation.StartOperationSpan(ctx, instrumentation.OperationUpdate,
		instrumentation.NewSpanAttributeBuilder().WithEventID(in.EventID).Build()...)
	defer span.End()

	env := s.update(ctx, in)
	return s.finish(ctx, span, instrumentation.OperationUpdate, env)
}

func (s *Service) update(ctx context.Context, in UpdateInput) *Envelope {
	if strings.TrimSpace(in.EventID) == "" {
		return failure("Event ID is required to update an event.")
	}

	var req backend.UpdateRequest
	if in.Summary != nil {
		req.Title = in.Summary
	}
	if in.Start != nil {
		ts, err := s.normalize("start time", *in.Start)
		if err != nil {
			return failure(describe(err, ""))
		}
		iso := ts.ISO()
		req.Start = &iso
	}
	if in.End != nil {
		ts, err := s.normalize("end time", *in.End)
		if err != nil {
			return failure(describe(err, ""))
		}
		iso := ts.ISO()
		req.End = &iso
	}
	if in.TimeZone != nil {
		req.TimeZone = in.TimeZone
	}

	if req.IsEmpty() {
		return &Envelope{Status: StatusInfo, Message: "No changes provided to update the event."}
	}

	ev, err := s.backend.UpdateEvent(ctx, in.EventID, req)
	if err != nil {
		s.logger.Warn("failed to update event", logging.EventID(in.EventID), logging.Err(err))
		return failure(describe(err, "updating event "+in.EventID))
	}

	view := ViewOf(*ev)
	if view.ID == "" {
		view.ID = in.EventID
	}
	s.logger.Info("event updated", logging.EventID(in.EventID))
	env := success(fmt.Sprintf("Event '%s' updated successfully.", in.EventID))
	env.Details = &view
	return env
}

// Delete removes an event. Without Confirm it only asks for confirmation.
func (s *Service) Delete(ctx context.Context, in DeleteInput) *Envelope {
	ctx, span := instrumentation.StartOperationSpan(ctx, instrumentation.OperationDelete,
		instrumentation.NewSpanAttributeBuilder().WithEventID(in.EventID).Build()...)
	defer span.End()

	env := s.delete(ctx, in)
	return s.finish(ctx, span, instrumentation.OperationDelete, env)
}

func (s *Service) delete(ctx context.Context, in DeleteInput) *Envelope {
	if !in.Confirm {
		return &Envelope{
			Status:  StatusConfirmationRequired,
			Message: "Deletion not confirmed. Please confirm you want to delete this event.",
		}
	}
	if strings.TrimSpace(in.EventID) == "" {
		return failure("Event ID is required to delete an event.")
	}

	status, err := s.backend.DeleteEvent(ctx, in.EventID)
	if err != nil {
		s.logger.Warn("failed to delete event", logging.EventID(in.EventID), logging.Err(err))
		return failure(describe(err, "deleting event "+in.EventID))
	}

	s.logger.Info("event deleted", logging.EventID(in.EventID), "http_status", status)
	if status == http.StatusOK || status == http.StatusNoContent {
		return success(fmt.Sprintf("Event '%s' successfully deleted.", in.EventID))
	}
	return success(fmt.Sprintf("Event '%s' deletion request sent to backend with status %d.", in.EventID, status))
}

func (s *Service) normalize(field, text string) (datetime.Timestamp, error) {
	ts, err := s.normalizer.Normalize(text)
	if err != nil {
		return datetime.Timestamp{}, &dateError{Field: field, Err: err}
	}
	return ts, nil
}

// finish records the envelope outcome on metrics and the span.
func (s *Service) finish(ctx context.Context, span trace.Span, operation string, env *Envelope) *Envelope {
	span.SetAttributes(attribute.String(instrumentation.SpanAttrEnvelopeStatus, string(env.Status)))
	if env.IsError() {
		instrumentation.SetSpanError(span, errors.New(env.Message))
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	s.metrics.RecordEnvelope(ctx, operation, string(env.Status))
	return env
}
