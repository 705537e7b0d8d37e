package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/linkscout/linkscout/internal/model"
)

// ErrRunNotFound means the requested run ID does not exist in the
// history database.
var ErrRunNotFound = errors.New("database: run not found")

// HistoryDB provides SQLite-based storage for check run history.
// It manages connection pooling and provides methods for saving,
// listing and comparing runs.
//
// Design decision: We store the full report as a JSON blob plus a thin
// metadata row rather than normalizing every result into columns. Runs
// are written once and read whole; the only cross-run query is the
// diff, which works on deserialized reports anyway.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "linkscout.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids lock
	// contention entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Run records store one complete check report per row
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		elapsed_ns INTEGER NOT NULL,
		documents INTEGER NOT NULL,
		total INTEGER NOT NULL,
		successful INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		excluded INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport persists a run and returns its run ID. A fresh UUID is
// assigned when the report does not carry one yet.
func (hdb *HistoryDB) SaveReport(ctx context.Context, report *model.Report) (string, error) {
	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO runs (run_id, started_at, elapsed_ns, documents, total, successful, failed, excluded, skipped, cancelled, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		report.RunID,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		int64(report.Elapsed),
		len(report.DocumentOrder),
		report.Summary.Total,
		report.Summary.Successful,
		report.Summary.Failed,
		report.Summary.Excluded,
		report.Summary.Skipped,
		boolToInt(report.Cancelled),
		string(reportJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return report.RunID, nil
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading full reports.
type RunMetadata struct {
	// RunID is the unique identifier of the run.
	RunID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Documents is the number of input documents.
	Documents int

	// Summary holds the aggregate counts of the run.
	Summary model.Summary

	// Cancelled is true when the run was cut short.
	Cancelled bool
}

// ListRuns returns metadata for stored runs, newest first.
// A limit of 0 returns all runs.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT run_id, started_at, documents, total, successful, failed, excluded, skipped, cancelled
	FROM runs
	ORDER BY started_at DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var startedAt string
		var cancelled int

		err := rows.Scan(
			&meta.RunID,
			&startedAt,
			&meta.Documents,
			&meta.Summary.Total,
			&meta.Summary.Successful,
			&meta.Summary.Failed,
			&meta.Summary.Excluded,
			&meta.Summary.Skipped,
			&cancelled,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.StartedAt = parseTimestamp(startedAt)
		meta.Cancelled = cancelled != 0
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetReport retrieves a stored report by run ID.
func (hdb *HistoryDB) GetReport(ctx context.Context, runID string) (*model.Report, error) {
	query := `SELECT report_json FROM runs WHERE run_id = ?`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, runID).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetLatestReport retrieves the most recent stored report, or
// ErrRunNotFound when the history is empty.
func (hdb *HistoryDB) GetLatestReport(ctx context.Context) (*model.Report, error) {
	query := `
	SELECT report_json FROM runs
	ORDER BY started_at DESC
	LIMIT 1
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// LinkChange describes one link whose outcome differs between two runs.
type LinkChange struct {
	// DocumentID identifies the originating document.
	DocumentID string

	// Link is the checked link.
	Link string

	// Line is the source line in the newer run.
	Line int
}

// RunDiff is the comparison of two stored runs.
type RunDiff struct {
	// OldRunID and NewRunID identify the compared runs.
	OldRunID string
	NewRunID string

	// Broken lists links failing in the new run but not in the old one.
	Broken []LinkChange

	// Fixed lists links failing in the old run but not in the new one.
	Fixed []LinkChange
}

// CompareRuns diffs two stored runs by their failed links. A link is
// identified by document and link text, so reordering inside a document
// does not register as a change.
func (hdb *HistoryDB) CompareRuns(ctx context.Context, oldID, newID string) (*RunDiff, error) {
	oldReport, err := hdb.GetReport(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newReport, err := hdb.GetReport(ctx, newID)
	if err != nil {
		return nil, err
	}

	oldFailed := failedSet(oldReport)
	newFailed := failedSet(newReport)

	diff := &RunDiff{
		OldRunID: oldID,
		NewRunID: newID,
	}

	for key, change := range newFailed {
		if _, ok := oldFailed[key]; !ok {
			diff.Broken = append(diff.Broken, change)
		}
	}
	for key, change := range oldFailed {
		if _, ok := newFailed[key]; !ok {
			diff.Fixed = append(diff.Fixed, change)
		}
	}

	sortChanges(diff.Broken)
	sortChanges(diff.Fixed)

	return diff, nil
}

// failedKey identifies a failed link across runs.
type failedKey struct {
	documentID string
	link       string
}

// failedSet indexes a report's failed results by document and link.
func failedSet(report *model.Report) map[failedKey]LinkChange {
	set := make(map[failedKey]LinkChange)
	for _, res := range report.FailedResults() {
		key := failedKey{documentID: res.DocumentID, link: res.Link}
		set[key] = LinkChange{
			DocumentID: res.DocumentID,
			Link:       res.Link,
			Line:       res.Line,
		}
	}
	return set
}

// sortChanges orders changes by document then link for stable output.
func sortChanges(changes []LinkChange) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].DocumentID != changes[j].DocumentID {
			return changes[i].DocumentID < changes[j].DocumentID
		}
		return changes[i].Link < changes[j].Link
	})
}

// boolToInt stores booleans as SQLite integers.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
