// Package calendar implements the calendar operations exposed to the agent:
// create, list, update and delete events on the remote backend.
//
// Each operation validates its input, normalizes any date/time text with the
// datetime package, makes at most one backend call and reports the outcome as
// an Envelope. Errors never escape as Go errors; they become envelopes with
// status "error" and a message naming what went wrong.
//
// Example usage:
//
//	client, _ := backend.NewClient(backend.Config{BaseURL: "http://localhost:3000"})
//	svc, err := calendar.NewService(calendar.Config{Backend: client})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	env := svc.List(ctx, calendar.ListInput{Days: 7})
//	for _, ev := range env.Events {
//	    fmt.Println(ev.Summary, ev.Start)
//	}
package calendar
