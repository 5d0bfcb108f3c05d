package bookmark

import (
	"testing"
	"time"
)

func TestDateUsesLocalTimezone(t *testing.T) {
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	rec := Record{URL: "https://example.com", Title: "Example", TimeMicros: ts.UnixMicro()}

	if got, want := rec.Date(), "2026-03-14"; got != want {
		t.Errorf("Date() = %q, want %q", got, want)
	}
}

func TestDateMicrosecondConversion(t *testing.T) {
	// Round-trip through UnixMicro must not drop sub-second precision
	// when deriving the date.
	ts := time.Date(2026, 6, 1, 23, 59, 59, 999000000, time.Local)
	rec := Record{TimeMicros: ts.UnixMicro()}

	if got, want := rec.Date(), ts.Format("2006-01-02"); got != want {
		t.Errorf("Date() = %q, want %q", got, want)
	}
}

func TestSummaryDefaultsEmpty(t *testing.T) {
	rec := Record{URL: "https://example.com", Title: "Example", TimeMicros: 1}
	if rec.Summary != "" {
		t.Errorf("expected empty default summary, got %q", rec.Summary)
	}
}
