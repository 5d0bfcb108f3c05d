package bookmark

import "time"

// Record is one bookmark row pulled from the history store.
//
// Everything except Summary is immutable once read; the interactive
// annotator overwrites Summary in place.
type Record struct {
	URL        string
	Title      string
	TimeMicros int64 // creation time, microseconds since epoch (UTC)
	Summary    string
}

// Date returns the creation date as an ISO-8601 string in the local timezone.
func (r Record) Date() string {
	return time.UnixMicro(r.TimeMicros).Local().Format("2006-01-02")
}
