package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/eventdesk/internal/calendar"
	"github.com/teemow/eventdesk/internal/export"
	"github.com/teemow/eventdesk/internal/logging"
)

// Output formats of events list.
const (
	formatJSON = "json"
	formatICS  = "ics"
)

// renderFunc writes a finished envelope to w.
type renderFunc func(w io.Writer, svc *calendar.Service, env *calendar.Envelope, logger *slog.Logger) error

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage backend events from the command line",
		Long: `Run the same create, list, update and delete operations the MCP tools
expose, printing the result envelope as JSON.

The command fails when the envelope status is "error".`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newEventsListCmd())
	cmd.AddCommand(newEventsCreateCmd())
	cmd.AddCommand(newEventsUpdateCmd())
	cmd.AddCommand(newEventsDeleteCmd())

	return cmd
}

func newEventsListCmd() *cobra.Command {
	var (
		s      settings
		start  string
		days   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events for a window of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			render := renderJSON
			switch format {
			case formatJSON:
			case formatICS:
				render = renderICS
			default:
				return fmt.Errorf("unsupported format %q (use %s or %s)", format, formatJSON, formatICS)
			}

			in := calendar.ListInput{Days: days}
			if cmd.Flags().Changed("start") {
				in.Start = &start
			}
			return runEventOperation(cmd, &s, func(ctx context.Context, svc *calendar.Service) *calendar.Envelope {
				return svc.List(ctx, in)
			}, render)
		},
	}

	s.bindFlags(cmd)
	cmd.Flags().StringVar(&start, "start", "", "First day of the window (default: today)")
	cmd.Flags().IntVar(&days, "days", calendar.DefaultListDays, "Number of days to include")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or ics")

	return cmd
}

func newEventsCreateCmd() *cobra.Command {
	var (
		s  settings
		in calendar.CreateInput
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventOperation(cmd, &s, func(ctx context.Context, svc *calendar.Service) *calendar.Envelope {
				return svc.Create(ctx, in)
			}, renderJSON)
		},
	}

	s.bindFlags(cmd)
	cmd.Flags().StringVar(&in.Summary, "summary", "", "Event title")
	cmd.Flags().StringVar(&in.Start, "start", "", "Start date and time, e.g. '2025-06-03 14:00'")
	cmd.Flags().StringVar(&in.End, "end", "", "End date and time")
	cmd.Flags().StringVar(&in.TimeZone, "timezone", "", "IANA time zone (default: the configured default zone)")
	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newEventsUpdateCmd() *cobra.Command {
	var (
		s        settings
		summary  string
		start    string
		end      string
		timeZone string
	)

	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Update fields of an event",
		Long:  "Update an event. Only the flags that are set are sent to the backend.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := calendar.UpdateInput{EventID: args[0]}
			flags := cmd.Flags()
			if flags.Changed("summary") {
				in.Summary = &summary
			}
			if flags.Changed("start") {
				in.Start = &start
			}
			if flags.Changed("end") {
				in.End = &end
			}
			if flags.Changed("timezone") {
				in.TimeZone = &timeZone
			}
			return runEventOperation(cmd, &s, func(ctx context.Context, svc *calendar.Service) *calendar.Envelope {
				return svc.Update(ctx, in)
			}, renderJSON)
		},
	}

	s.bindFlags(cmd)
	cmd.Flags().StringVar(&summary, "summary", "", "New event title")
	cmd.Flags().StringVar(&start, "start", "", "New start date and time")
	cmd.Flags().StringVar(&end, "end", "", "New end date and time")
	cmd.Flags().StringVar(&timeZone, "timezone", "", "New IANA time zone")

	return cmd
}

func newEventsDeleteCmd() *cobra.Command {
	var (
		s   settings
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event",
		Long:  "Delete an event. Without --yes nothing is deleted and the command reports that confirmation is required.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := calendar.DeleteInput{EventID: args[0], Confirm: yes}
			return runEventOperation(cmd, &s, func(ctx context.Context, svc *calendar.Service) *calendar.Envelope {
				return svc.Delete(ctx, in)
			}, renderJSON)
		},
	}

	s.bindFlags(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")

	return cmd
}

// runEventOperation resolves the configuration, runs op and renders the
// envelope to the command's output. An error envelope fails the command.
func runEventOperation(cmd *cobra.Command, s *settings, op func(context.Context, *calendar.Service) *calendar.Envelope, render renderFunc) error {
	cfg, err := s.resolve(cmd, os.LookupEnv)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	svc, err := newCalendarService(cfg, nil, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env := op(ctx, svc)
	if env.IsError() {
		// Failures are always reported as the JSON envelope.
		render = renderJSON
	}
	if err := render(cmd.OutOrStdout(), svc, env, logger); err != nil {
		return err
	}

	if env.IsError() {
		return errors.New(env.Message)
	}
	return nil
}

func renderJSON(w io.Writer, _ *calendar.Service, env *calendar.Envelope, _ *slog.Logger) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderICS(w io.Writer, svc *calendar.Service, env *calendar.Envelope, logger *slog.Logger) error {
	skipped, err := export.ICalendar(w, env.Events, svc.Normalizer(), time.Now())
	if err != nil {
		return err
	}
	if skipped > 0 {
		logger.Warn("events left out of calendar export", slog.Int("skipped", skipped), logging.Operation("calendar.list"))
	}
	return nil
}
