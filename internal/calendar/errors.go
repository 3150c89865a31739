package calendar

import (
	"errors"
	"fmt"

	"github.com/teemow/eventdesk/internal/backend"
	"github.com/teemow/eventdesk/internal/datetime"
)

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// dateError ties a normalization failure to the field it came from.
type dateError struct {
	Field string
	Err   error
}

func (e *dateError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *dateError) Unwrap() error {
	return e.Err
}

// describe turns an operation failure into the envelope message. action is
// appended to backend errors, e.g. "updating event e1".
func describe(err error, action string) string {
	var (
		verr *ValidationError
		derr *dateError
		nerr *datetime.NormalizationError
		berr *backend.Error
		cerr *backend.ConnectivityError
	)

	switch {
	case errors.As(err, &verr):
		return capitalize(verr.Error()) + "."
	case errors.As(err, &derr) && errors.As(err, &nerr):
		if errors.Is(nerr, datetime.ErrEmpty) {
			return fmt.Sprintf("The %s is required. Please provide a clear date and time.", derr.Field)
		}
		return fmt.Sprintf("Invalid %s format: %q. Please provide a clear date and time.", derr.Field, nerr.Input)
	case errors.As(err, &berr):
		if action != "" {
			return fmt.Sprintf("Calendar backend error %s: %s", action, berr.Message)
		}
		return "Calendar backend error: " + berr.Message
	case errors.As(err, &cerr):
		return fmt.Sprintf("Failed to connect to calendar backend: %v", cerr.Err)
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
