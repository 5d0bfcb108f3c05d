// Package annotate drives the interactive summary prompt loop.
package annotate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/foxtail-dev/foxtail/internal/bookmark"
)

// Cache recalls and persists summaries across sessions.
type Cache interface {
	GetOrDefault(url, fallback string) string
	Set(url, summary string) error
}

// Suggester drafts a summary for a bookmark. Optional; failures never
// block annotation.
type Suggester interface {
	Suggest(ctx context.Context, title, url string) (string, error)
}

const suggestTimeout = 30 * time.Second

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	urlStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	recallStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"})
	suggestStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}).Italic(true)
)

type Annotator struct {
	In        io.Reader
	Out       io.Writer
	Cache     Cache
	Suggester Suggester
	Log       *slog.Logger
}

// Run prompts for a summary per record, in input order. The result has the
// same length and order as records; only Summary fields differ. Hitting
// end-of-input stops the loop early and is not an error: records prompted
// so far carry their new summaries, the rest are returned unchanged.
// Every completed entry is written to the cache before the next prompt.
func (a *Annotator) Run(ctx context.Context, records []bookmark.Record) ([]bookmark.Record, error) {
	out := make([]bookmark.Record, len(records))
	copy(out, records)

	log := a.Log
	if log == nil {
		log = slog.Default()
	}

	fmt.Fprintf(a.Out, "Starting interactive annotation mode for %d entries\n", len(out))
	if isTerminalReader(a.In) {
		fmt.Fprintln(a.Out, "Use Ctrl-D to exit")
	}
	fmt.Fprintln(a.Out, "========")

	scanner := bufio.NewScanner(a.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for i := range out {
		rec := &out[i]
		fmt.Fprintf(a.Out, "%s\n", titleStyle.Render(fmt.Sprintf("%d: %s", i+1, rec.Title)))
		fmt.Fprintln(a.Out, urlStyle.Render(rec.URL))

		if prev := a.Cache.GetOrDefault(rec.URL, ""); prev != "" {
			fmt.Fprintln(a.Out, recallStyle.Render(">> Previous summary:"))
			for _, line := range strings.Split(prev, "\n") {
				fmt.Fprintln(a.Out, recallStyle.Render(">> "+line))
			}
		}
		a.printSuggestion(ctx, log, rec)

		summary, ok := readMultiline(scanner, a.Out, "> ")
		if !ok {
			break
		}
		if err := a.Cache.Set(rec.URL, summary); err != nil {
			return out, err
		}
		rec.Summary = summary
		fmt.Fprintln(a.Out)
	}
	fmt.Fprintln(a.Out, "========")
	return out, nil
}

func (a *Annotator) printSuggestion(ctx context.Context, log *slog.Logger, rec *bookmark.Record) {
	if a.Suggester == nil {
		return
	}
	sctx, cancel := context.WithTimeout(ctx, suggestTimeout)
	defer cancel()

	draft, err := a.Suggester.Suggest(sctx, rec.Title, rec.URL)
	if err != nil {
		log.Debug("suggestion failed", "url", rec.URL, "error", err)
		return
	}
	if draft = strings.TrimSpace(draft); draft != "" {
		fmt.Fprintln(a.Out, suggestStyle.Render("~~ Suggested: "+draft))
	}
}

// readMultiline collects prompt lines until two blank lines have been
// entered. A blank very first line counts one toward the two; blank-line
// credits accumulate and are never reset by later non-blank lines. The
// collected lines are joined with newlines and trimmed. ok is false when
// the input hit end-of-input before the rule completed.
func readMultiline(scanner *bufio.Scanner, w io.Writer, prompt string) (summary string, ok bool) {
	fmt.Fprint(w, prompt)
	if !scanner.Scan() {
		return "", false
	}
	first := scanner.Text()
	lines := []string{first}

	blanks := 0
	if first == "" {
		blanks = 1
	}
	for blanks < 2 {
		fmt.Fprint(w, prompt)
		if !scanner.Scan() {
			return "", false
		}
		line := scanner.Text()
		lines = append(lines, line)
		if line == "" {
			blanks++
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), true
}

func isTerminalReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
