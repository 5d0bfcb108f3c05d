// Package render turns bookmark records into output lines in one of four
// formats. All renderers are pure: they sort a copy of the input and never
// mutate records.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/foxtail-dev/foxtail/internal/bookmark"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
)

func ParseFormat(raw string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	case string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatCSV):
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("want markdown|table|json|csv, got %q", raw)
	}
}

// Suffix returns the file extension implied by the format.
func (f Format) Suffix() string {
	switch f {
	case FormatTable:
		return ".txt"
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	default:
		return ".md"
	}
}

// Render formats records per f, one output line per element.
func Render(f Format, records []bookmark.Record) ([]string, error) {
	switch f {
	case FormatMarkdown:
		return markdown(records), nil
	case FormatTable:
		return delimited(records, "\t"), nil
	case FormatCSV:
		return delimited(records, ","), nil
	case FormatJSON:
		return jsonLines(records)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}

func sortedByTime(records []bookmark.Record) []bookmark.Record {
	out := make([]bookmark.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimeMicros < out[j].TimeMicros })
	return out
}

// escapeNewlines keeps tabular and JSON summaries on a single line by
// replacing each newline with the literal two characters \n.
func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

func escapeBrackets(s string) string {
	s = strings.ReplaceAll(s, "]", `\]`)
	return strings.ReplaceAll(s, "[", `\[`)
}

func delimited(records []bookmark.Record, sep string) []string {
	sorted := sortedByTime(records)
	lines := make([]string, 0, len(sorted))
	for _, rec := range sorted {
		lines = append(lines, strings.Join([]string{
			rec.Date(),
			rec.Title,
			rec.URL,
			escapeNewlines(rec.Summary),
		}, sep))
	}
	return lines
}

func jsonLines(records []bookmark.Record) ([]string, error) {
	type jsonRecord struct {
		Date    string `json:"date"`
		Title   string `json:"title"`
		URL     string `json:"url"`
		Summary string `json:"summary"`
	}
	out := struct {
		Results []jsonRecord `json:"results"`
	}{Results: []jsonRecord{}}

	for _, rec := range sortedByTime(records) {
		out.Results = append(out.Results, jsonRecord{
			Date:    rec.Date(),
			Title:   rec.Title,
			URL:     rec.URL,
			Summary: escapeNewlines(rec.Summary),
		})
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing results: %w", err)
	}
	return strings.Split(string(b), "\n"), nil
}

func markdown(records []bookmark.Record) []string {
	sorted := sortedByTime(records)

	var lines []string
	prevDate := ""
	for _, rec := range sorted {
		// Records are in ascending time order, so dates arrive ascending
		// and grouping reduces to detecting a date change.
		if date := rec.Date(); date != prevDate {
			lines = append(lines, "## "+date, "")
			prevDate = date
		}
		lines = append(lines, fmt.Sprintf("[%s](%s)", escapeBrackets(rec.Title), rec.URL), "")
		if rec.Summary != "" {
			lines = append(lines, rec.Summary, "")
		}
	}
	return lines
}
