package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/darkvigil/darkvigil/internal/model"
)

// DBFileName is the SQLite file created inside the data directory.
const DBFileName = "darkvigil.db"

// ScanDB provides SQLite-based storage for search results and scan reports.
//
// Design decision: One database file holds both subsystems' history. Search
// results and scan reports share targets, so keeping them together makes
// cross-queries and backups trivial.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent reads.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScanDB under the given directory.
// With CreateIfNotExists unset, a missing database is an error rather than
// a silently created empty file.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

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

	// modernc.org/sqlite DSN: mode=rw refuses to create a new file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer; keep the pool minimal.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// Path returns the database file path.
func (sdb *ScanDB) Path() string {
	return sdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- Search results store one row per harvested record
	CREATE TABLE IF NOT EXISTS search_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		engine TEXT NOT NULL,
		term TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		domain TEXT NOT NULL,
		description TEXT NOT NULL,
		alive INTEGER,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(engine, term, url)
	);

	CREATE INDEX IF NOT EXISTS idx_results_term ON search_results(term);
	CREATE INDEX IF NOT EXISTS idx_results_domain ON search_results(domain);
	CREATE INDEX IF NOT EXISTS idx_results_timestamp ON search_results(timestamp);

	-- Scan reports store complete audits as JSON plus queryable summary columns
	CREATE TABLE IF NOT EXISTS scan_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		risk_score INTEGER NOT NULL,
		threat_level TEXT NOT NULL,
		report_json TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reports_url ON scan_reports(url);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON scan_reports(timestamp);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCrawlResult stores every record of a crawl under the search term.
// A record already stored for the same engine, term and URL is refreshed
// rather than duplicated. Returns the number of records written.
func (sdb *ScanDB) SaveCrawlResult(ctx context.Context, term string, results model.CrawlResult) (int, error) {
	query := `
	INSERT INTO search_results (engine, term, title, url, domain, description, alive)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(engine, term, url) DO UPDATE SET
		title = excluded.title,
		domain = excluded.domain,
		description = excluded.description,
		alive = excluded.alive,
		timestamp = CURRENT_TIMESTAMP
	`

	var written int
	for engine, records := range results {
		for _, record := range records {
			var alive sql.NullBool
			if v, checked := record.IsAlive(); checked {
				alive = sql.NullBool{Bool: v, Valid: true}
			}

			_, err := sdb.db.ExecContext(ctx, query,
				engine,
				term,
				record.Title,
				record.URL,
				record.Domain,
				record.Description,
				alive,
			)
			if err != nil {
				return written, fmt.Errorf("failed to insert search result: %w", err)
			}
			written++
		}
	}

	return written, nil
}

// StoredResult is a search result row with its storage metadata.
type StoredResult struct {
	ID        int64
	Engine    string
	Term      string
	Timestamp time.Time
	Record    *model.SearchResult
}

// ResultsByTerm retrieves all stored results for a search term, newest
// first.
func (sdb *ScanDB) ResultsByTerm(ctx context.Context, term string) ([]StoredResult, error) {
	query := `
	SELECT id, engine, term, title, url, domain, description, alive, timestamp
	FROM search_results
	WHERE term = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, term)
	if err != nil {
		return nil, fmt.Errorf("failed to query search results: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		var (
			stored    StoredResult
			record    model.SearchResult
			alive     sql.NullBool
			timestamp string
		)

		err := rows.Scan(
			&stored.ID,
			&stored.Engine,
			&stored.Term,
			&record.Title,
			&record.URL,
			&record.Domain,
			&record.Description,
			&alive,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}

		if alive.Valid {
			record.SetAlive(alive.Bool)
		}
		stored.Timestamp = parseTimestamp(timestamp)
		stored.Record = &record
		results = append(results, stored)
	}

	return results, rows.Err()
}

// SaveScanReport stores a complete scan report as JSON with queryable
// summary columns.
func (sdb *ScanDB) SaveScanReport(ctx context.Context, report *model.ScanReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO scan_reports (url, risk_score, threat_level, report_json)
	VALUES (?, ?, ?, ?)
	`

	_, err = sdb.db.ExecContext(ctx, query,
		report.URL,
		report.RiskScore,
		report.ThreatLevel.String(),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	return nil
}

// LatestScanReport retrieves the most recent report for a target URL.
// Returns nil without error when the target was never scanned.
func (sdb *ScanDB) LatestScanReport(ctx context.Context, url string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE url = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, url).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan report: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListScannedTargets returns every target URL with at least one stored
// report, sorted.
func (sdb *ScanDB) ListScannedTargets(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT url FROM scan_reports
	ORDER BY url
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}

	return targets, rows.Err()
}

// parseTimestamp parses the formats SQLite emits for DATETIME columns.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
