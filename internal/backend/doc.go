// Package backend is an HTTP client for the remote calendar backend.
//
// The backend owns event storage and any Google Calendar synchronization; this
// package only speaks its four-route REST contract. Failures are reported as
// *Error (the backend answered with a non-2xx status) or *ConnectivityError
// (no response at all). Requests are not retried.
//
// Example usage:
//
//	client, err := backend.NewClient(backend.Config{BaseURL: "http://localhost:3000"})
//	if err != nil {
//	    return err
//	}
//	events, err := client.ListEvents(ctx)
package backend
