// Command foxtail extracts recently added Firefox bookmarks and renders
// them as Markdown, a tab table, JSON, or CSV, optionally collecting
// free-text summaries interactively.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/foxtail-dev/foxtail/internal/annotate"
	"github.com/foxtail-dev/foxtail/internal/config"
	"github.com/foxtail-dev/foxtail/internal/history"
	"github.com/foxtail-dev/foxtail/internal/inputcache"
	"github.com/foxtail-dev/foxtail/internal/lockfile"
	"github.com/foxtail-dev/foxtail/internal/render"
	"github.com/foxtail-dev/foxtail/internal/suggest"
)

var (
	// Version is set via -ldflags at build time.
	Version = "dev"
	// Commit is set via -ldflags at build time.
	Commit = "unknown"
)

type options struct {
	firefoxDir  string
	after       string
	before      string
	output      string
	format      string
	interactive bool
	overwrite   bool
	configPath  string
}

func main() {
	// Suggestion API keys may live in a local .env.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("foxtail", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `foxtail [flags] [firefox_dir]

Extracts bookmarks added to a Firefox history store within a time window
and renders them to a file or stdout.

  firefox_dir   Directory searched recursively for places.sqlite
                (default: ~/.mozilla/firefox, or firefox_dir from config).

Flags:
`)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.after, "after", "", "Return results after this ISO-formatted datetime (default: 7 days ago)")
	fs.StringVar(&opts.before, "before", "", "Return results before this ISO-formatted datetime (default: now)")
	fs.StringVar(&opts.output, "o", "./foxtail.txt", "Output file path; '-' writes to stdout")
	fs.StringVar(&opts.format, "f", "", "Output format: markdown|table|json|csv (default: markdown)")
	fs.BoolVar(&opts.interactive, "i", false, "Enable interactive mode for inputting summaries")
	fs.BoolVar(&opts.overwrite, "w", false, "Overwrite output file if present")
	fs.StringVar(&opts.configPath, "config", "", "Config file path (default: per-user config dir)")
	logFormat := fs.String("log-format", "text", "Log format: json|text")
	logLevel := fs.String("log-level", "info", "Log level: debug|info|warn|error")
	version := fs.Bool("version", false, "Show version information and exit")
	fs.BoolVar(version, "v", *version, "Show version information and exit")

	_ = fs.Parse(os.Args[1:])

	if *version {
		fmt.Printf("foxtail %s (%s)\n", Version, Commit)
		return
	}
	opts.firefoxDir = fs.Arg(0)

	log, err := newLogger(*logFormat, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encountered error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, log); err != nil {
		if debugEnabled() {
			// Re-raise with the full chain and a stack for debugging.
			panic(err)
		}
		fmt.Fprintf(os.Stderr, "Encountered error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log *slog.Logger) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	firefoxDir := opts.firefoxDir
	if firefoxDir == "" {
		firefoxDir = cfg.FirefoxDir
	}
	if firefoxDir == "" {
		firefoxDir = "~/.mozilla/firefox"
	}
	firefoxDir = config.ExpandHome(firefoxDir)

	formatRaw := opts.format
	if formatRaw == "" {
		formatRaw = cfg.Format
	}
	if formatRaw == "" {
		formatRaw = string(render.FormatMarkdown)
	}
	format, err := render.ParseFormat(formatRaw)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	now := time.Now()
	after, err := parseWhen(opts.after, now.AddDate(0, 0, -7))
	if err != nil {
		return fmt.Errorf("invalid --after: %w", err)
	}
	before, err := parseWhen(opts.before, now)
	if err != nil {
		return fmt.Errorf("invalid --before: %w", err)
	}
	// Validated here so a bad window aborts before any file I/O.
	if before.Before(after) {
		return fmt.Errorf("invalid query interval: after %s is later than before %s",
			after.Format(time.RFC3339), before.Format(time.RFC3339))
	}

	toStdout := opts.output == "-"
	var outPath string
	if !toStdout {
		outPath = withSuffix(opts.output, format)
		if _, err := os.Stat(outPath); err == nil && !opts.overwrite {
			return fmt.Errorf("output file %s already exists (use -w to overwrite)", outPath)
		}
	}

	cacheDir := cfg.ResolvedCacheDir()
	if err := os.MkdirAll(cacheDir, 0o700); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	lk, err := lockfile.Acquire(cfg.LockPath())
	if err != nil {
		return fmt.Errorf("another foxtail run is active (%s): %w", cfg.LockPath(), err)
	}
	defer func() { _ = lk.Release() }()

	history.WarnIfBrowserRunning(log)

	src, err := history.Locate(firefoxDir, log)
	if err != nil {
		return err
	}
	snap, err := history.Snapshot(src, cacheDir)
	if err != nil {
		return err
	}

	records, err := history.Read(snap, after, before)
	if err != nil {
		return err
	}

	if opts.interactive {
		cache, err := inputcache.Open(cfg.InputCachePath())
		if err != nil {
			return err
		}
		defer cache.Close()

		ann := annotate.Annotator{
			In:        os.Stdin,
			Out:       os.Stderr,
			Cache:     cache,
			Suggester: newSuggester(cfg, log),
			Log:       log,
		}
		records, err = ann.Run(ctx, records)
		if err != nil {
			return err
		}
	}

	lines, err := render.Render(format, records)
	if err != nil {
		return err
	}
	data := strings.Join(lines, "\n") + "\n"

	if toStdout {
		_, err := fmt.Fprint(os.Stdout, data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Generated output at %s\n", outPath)
	return nil
}

func newSuggester(cfg *config.Config, log *slog.Logger) annotate.Suggester {
	if !cfg.SuggestEnabled() {
		return nil
	}
	s, err := suggest.New(cfg.Suggest.Provider, cfg.Suggest.Model, cfg.SuggestKey())
	if err != nil {
		log.Warn("suggestions disabled", "error", err)
		return nil
	}
	return s
}

// parseWhen accepts RFC 3339, a local datetime without offset, or a bare
// date; empty input yields fallback.
func parseWhen(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("want an ISO-8601 datetime, got %q", raw)
}

// withSuffix swaps path's extension for the one the format implies.
func withSuffix(path string, f render.Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + f.Suffix()
}

func debugEnabled() bool {
	return strings.HasPrefix(strings.ToLower(os.Getenv("FOXTAIL_DEBUG")), "t")
}

func newLogger(format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		h = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}

	return slog.New(h), nil
}
