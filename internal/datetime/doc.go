// Package datetime converts loosely formatted date/time text into unambiguous
// timestamps.
//
// The Normalizer tries a fixed list of strict layouts first and falls back to a
// single general ISO-8601 parse. Strict matches carry no zone (naive); ISO input
// with a numeric offset or a trailing "Z" keeps its offset. Empty input is always
// a failure, never "now".
//
// Example usage:
//
//	n := datetime.NewNormalizer(time.Local)
//	ts, err := n.Normalize("2025-06-01 2:00 PM")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(ts.ISO()) // 2025-06-01T14:00:00
package datetime
