// Package history locates and reads the Firefox history store.
//
// The live places.sqlite may be locked by a running browser, so reads
// always go through a private snapshot copy.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/foxtail-dev/foxtail/internal/bookmark"
)

const storeName = "places.sqlite"

// ErrStoreNotFound indicates no places.sqlite exists under the search root.
var ErrStoreNotFound = errors.New("couldn't find places.sqlite")

// Locate walks root recursively and returns the first places.sqlite found.
// Multiple candidates get a warning; the first in traversal order wins.
func Locate(root string, log *slog.Logger) (string, error) {
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories (other users' profiles) are skipped.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == storeName {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching %s: %w", root, err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w under %s", ErrStoreNotFound, root)
	}
	if len(matches) > 1 {
		log.Warn("found multiple places.sqlite files, using first",
			"count", len(matches), "using", matches[0])
	}
	return matches[0], nil
}

// Snapshot copies the history store at src into dstDir and returns the
// copy's path. The live store is never opened directly.
func Snapshot(src, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, 0o700); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}
	dst := filepath.Join(dstDir, storeName)

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening history store: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating snapshot: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("copying history store: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return dst, nil
}

// Read returns every bookmark whose creation time falls strictly inside
// (after, before). Both bounds are exclusive. No result ordering is
// guaranteed; the renderers sort.
func Read(path string, after, before time.Time) ([]bookmark.Record, error) {
	if before.Before(after) {
		return nil, fmt.Errorf("invalid query interval: after %s is later than before %s",
			after.Format(time.RFC3339), before.Format(time.RFC3339))
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening history snapshot: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rows, err := db.Query(`
		SELECT p.url, b.title, b.dateAdded
		FROM moz_places p INNER JOIN moz_bookmarks b ON p.id = b.fk
		WHERE b.dateAdded > ? AND b.dateAdded < ?
	`, after.UnixMicro(), before.UnixMicro())
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	var records []bookmark.Record
	for rows.Next() {
		var (
			rec   bookmark.Record
			title sql.NullString // bookmark titles can be NULL
		)
		if err := rows.Scan(&rec.URL, &title, &rec.TimeMicros); err != nil {
			return nil, fmt.Errorf("scanning bookmark row: %w", err)
		}
		rec.Title = title.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading bookmark rows: %w", err)
	}
	return records, nil
}
