package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/apscan/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "apscan.db"

// ScanDB provides SQLite-based storage for scan reports and station
// observations.
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

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScanDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a scan first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a new file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

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

// Path returns the path of the database file.
func (sdb *ScanDB) Path() string {
	return sdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- One row per run of the scan command
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		utility TEXT NOT NULL,
		station_count INTEGER NOT NULL,
		digest TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_started_at ON scans(started_at);

	-- One row per base station seen by a scan
	CREATE TABLE IF NOT EXISTS observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id INTEGER NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		bssid TEXT NOT NULL,
		ssid TEXT NOT NULL,
		channel INTEGER NOT NULL,
		rssi INTEGER NOT NULL,
		ht TEXT,
		cc TEXT,
		security TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_obs_bssid ON observations(bssid);
	CREATE INDEX IF NOT EXISTS idx_obs_scan ON observations(scan_id);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Digest returns a fingerprint of the stations in a report: the hex
// SHA3-256 of the sorted "bssid|ssid|channel|rssi" lines. Two scans with
// the same digest saw the same stations at the same strength.
func Digest(report *model.ScanReport) string {
	lines := make([]string, len(report.Stations))
	for i, st := range report.Stations {
		lines[i] = strings.Join([]string{
			st.BSSID,
			st.Record.SSID,
			strconv.Itoa(st.Record.Channel),
			strconv.Itoa(st.Record.RSSI),
		}, "|")
	}
	slices.Sort(lines)

	sum := sha3.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// SaveScanReport stores a report and its observations in one transaction
// and returns the new scan ID.
func (sdb *ScanDB) SaveScanReport(ctx context.Context, report *model.ScanReport) (id int64, err error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO scans (started_at, utility, station_count, digest, report_json)
	VALUES (?, ?, ?, ?, ?)
	`,
		report.StartedAt.Format(time.RFC3339Nano),
		report.Utility,
		report.StationCount(),
		Digest(report),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO observations (scan_id, bssid, ssid, channel, rssi, ht, cc, security)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare observation insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range report.Stations {
		r := st.Record
		if _, err = stmt.ExecContext(ctx, id, st.BSSID, r.SSID, r.Channel, r.RSSI, r.HT, r.CC, r.Security); err != nil {
			return 0, fmt.Errorf("failed to insert observation for %s: %w", st.BSSID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scan: %w", err)
	}
	return id, nil
}

// ScanMetadata contains summary information about a stored scan.
// This is used for listing history without loading full reports.
type ScanMetadata struct {
	// ID is the unique identifier of the scan in the database.
	ID int64 `json:"id"`

	// StartedAt is when the scan was performed.
	StartedAt time.Time `json:"started_at"`

	// Utility is the scanning utility that was invoked.
	Utility string `json:"utility"`

	// StationCount is the number of base stations found.
	StationCount int `json:"station_count"`

	// Digest fingerprints the stations; see Digest.
	Digest string `json:"digest"`
}

// StoredScan is a report loaded from the database.
type StoredScan struct {
	ScanMetadata

	// Report is the decoded report.
	Report *model.ScanReport `json:"report"`
}

// ListScans returns metadata of every stored scan, newest first.
func (sdb *ScanDB) ListScans(ctx context.Context) ([]ScanMetadata, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT id, started_at, utility, station_count, digest
	FROM scans
	ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var startedAt string
		if err := rows.Scan(&meta.ID, &startedAt, &meta.Utility, &meta.StationCount, &meta.Digest); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.StartedAt = parseTimestamp(startedAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetLatestScanReports returns up to n most recent scans, newest first.
func (sdb *ScanDB) GetLatestScanReports(ctx context.Context, n int) ([]*StoredScan, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT id, started_at, utility, station_count, digest, report_json
	FROM scans
	ORDER BY id DESC
	LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan reports: %w", err)
	}
	defer rows.Close()

	var results []*StoredScan
	for rows.Next() {
		scan, err := scanStoredScan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, scan)
	}

	return results, rows.Err()
}

// GetScanReportByID retrieves a scan by its database ID.
// It returns nil and no error when no scan has that ID.
func (sdb *ScanDB) GetScanReportByID(ctx context.Context, id int64) (*StoredScan, error) {
	row := sdb.db.QueryRowContext(ctx, `
	SELECT id, started_at, utility, station_count, digest, report_json
	FROM scans
	WHERE id = ?
	`, id)

	scan, err := scanStoredScan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return scan, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanStoredScan reads one scans row including the report JSON.
func scanStoredScan(row rowScanner) (*StoredScan, error) {
	var scan StoredScan
	var startedAt, reportJSON string

	err := row.Scan(&scan.ID, &startedAt, &scan.Utility, &scan.StationCount, &scan.Digest, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scan: %w", err)
	}
	scan.StartedAt = parseTimestamp(startedAt)

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report of scan %d: %w", scan.ID, err)
	}
	scan.Report = &report

	return &scan, nil
}

// Observation is one sighting of a base station.
type Observation struct {
	// ScanID is the scan the station was seen in.
	ScanID int64 `json:"scan_id"`

	// StartedAt is when that scan started.
	StartedAt time.Time `json:"started_at"`

	// BSSID is the canonical hardware address.
	BSSID string `json:"bssid"`

	// Record is the station as observed.
	Record model.StationRecord `json:"record"`
}

// StationHistory returns every observation of bssid, oldest first.
func (sdb *ScanDB) StationHistory(ctx context.Context, bssid string) ([]Observation, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT o.scan_id, s.started_at, o.bssid, o.ssid, o.channel, o.rssi,
	       COALESCE(o.ht, ''), COALESCE(o.cc, ''), COALESCE(o.security, '')
	FROM observations o
	JOIN scans s ON s.id = o.scan_id
	WHERE o.bssid = ?
	ORDER BY o.scan_id ASC
	`, bssid)
	if err != nil {
		return nil, fmt.Errorf("failed to get station history: %w", err)
	}
	defer rows.Close()

	var results []Observation
	for rows.Next() {
		var obs Observation
		var startedAt string
		r := &obs.Record
		if err := rows.Scan(&obs.ScanID, &startedAt, &obs.BSSID, &r.SSID, &r.Channel, &r.RSSI, &r.HT, &r.CC, &r.Security); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		obs.StartedAt = parseTimestamp(startedAt)
		results = append(results, obs)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
