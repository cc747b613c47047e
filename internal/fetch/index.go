package fetch

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current index schema version. Bump this when the
// schema changes; users clear the cache to upgrade.
const schemaVersion = 1

// ErrSchemaMismatch indicates the index was written by an incompatible version.
var ErrSchemaMismatch = errors.New("cache schema version mismatch")

// Entry is one URL's cache record.
type Entry struct {
	URL          string
	BodyFile     string
	ETag         string
	LastModified string
	ContentType  string
	Size         int64
	FailedStatus int
	FetchedAt    time.Time
}

// Failed reports whether the entry records a failed last attempt.
func (e Entry) Failed() bool {
	return e.FailedStatus != 0
}

// Index is the SQLite catalogue of cached URLs.
type Index struct {
	db   *sql.DB
	path string
}

func openIndex(ctx context.Context, dir string) (*Index, error) {
	path := filepath.Join(dir, "index.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	idx := &Index{db: db, path: path}
	if err := idx.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

func (i *Index) initSchema(ctx context.Context) error {
	var tableExists int
	err := i.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return i.createSchema(ctx)
	}
	var version int
	if err := i.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: index has version %d, expected %d (run 'anemone cache clear')",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (i *Index) createSchema(ctx context.Context) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (i *Index) Close() error {
	if i == nil || i.db == nil {
		return nil
	}
	return i.db.Close()
}

const entryColumns = "url, body_file, etag, last_modified, content_type, size, failed_status, fetched_at"

// Get returns the entry for url.
func (i *Index) Get(ctx context.Context, url string) (Entry, bool, error) {
	row := i.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE url = ?`, url)
	var (
		entry        Entry
		bodyFile     sql.NullString
		etag         sql.NullString
		lastModified sql.NullString
		contentType  sql.NullString
		fetchedRaw   string
	)
	err := row.Scan(&entry.URL, &bodyFile, &etag, &lastModified, &contentType, &entry.Size, &entry.FailedStatus, &fetchedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	entry.BodyFile = bodyFile.String
	entry.ETag = etag.String
	entry.LastModified = lastModified.String
	entry.ContentType = contentType.String
	if parsed, err := time.Parse(time.RFC3339Nano, fetchedRaw); err == nil {
		entry.FetchedAt = parsed
	}
	return entry, true, nil
}

// Put inserts or replaces the entry for entry.URL.
func (i *Index) Put(ctx context.Context, entry Entry) error {
	_, err := i.db.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(url) DO UPDATE SET
            body_file = excluded.body_file,
            etag = excluded.etag,
            last_modified = excluded.last_modified,
            content_type = excluded.content_type,
            size = excluded.size,
            failed_status = excluded.failed_status,
            fetched_at = excluded.fetched_at`,
		entry.URL,
		nullableString(entry.BodyFile),
		nullableString(entry.ETag),
		nullableString(entry.LastModified),
		nullableString(entry.ContentType),
		entry.Size,
		entry.FailedStatus,
		entry.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// Touch refreshes fetched_at after a successful re-validation.
func (i *Index) Touch(ctx context.Context, url string, at time.Time) error {
	if _, err := i.db.ExecContext(ctx, `UPDATE entries SET fetched_at = ? WHERE url = ?`, at.UTC().Format(time.RFC3339Nano), url); err != nil {
		return fmt.Errorf("touch cache entry: %w", err)
	}
	return nil
}

// Stats summarizes the index.
type Stats struct {
	Entries  int   `json:"entries"`
	Failures int   `json:"failures"`
	Bytes    int64 `json:"bytes"`
}

// Stats returns entry counts and stored body bytes.
func (i *Index) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := i.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(CASE WHEN failed_status != 0 THEN 1 ELSE 0 END), 0), COALESCE(SUM(size), 0) FROM entries`,
	).Scan(&stats.Entries, &stats.Failures, &stats.Bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

// Clear deletes every entry.
func (i *Index) Clear(ctx context.Context) error {
	if _, err := i.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear cache index: %w", err)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
