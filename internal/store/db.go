package store

import (
	"co2-sector-pipeline/internal/model"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the run-history database and creates tables if needed.
// The store is audit-only: pipeline stages never read back from it.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		config TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	warningTable := `
	CREATE TABLE IF NOT EXISTS run_warnings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		year INTEGER,
		message TEXT,
		created_at DATETIME
	);
	`
	artifactTable := `
	CREATE TABLE IF NOT EXISTS run_artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		kind TEXT,
		path TEXT,
		row_count INTEGER,
		created_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, warningTable, artifactTable, errorTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// SaveRun stores a new analysis run with its full configuration.
func SaveRun(runID string, cfg model.Config) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, config, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, cfgJSON, "pending", now, now)
	return err
}

// UpdateRunStatus advances a run through its lifecycle.
func UpdateRunStatus(runID, status string) error {
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), runID)
	return err
}

// SaveRunError records a fatal error for a run.
func SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// SaveRunWarning records a non-fatal data-quality finding.
func SaveRunWarning(runID string, w model.Warning) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_warnings (run_id, stage, year, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, w.Stage, w.Year, w.Message, now)
	return err
}

// SaveArtifact records an exported table, workbook or figure.
func SaveArtifact(runID, kind, path string, rowCount int) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_artifacts (run_id, kind, path, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, kind, path, rowCount, now)
	return err
}

// RunInfo is a summary row from the run history.
type RunInfo struct {
	ID        string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListRuns returns all runs with basic info, newest first.
func ListRuns() ([]RunInfo, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var run RunInfo
		if err := rows.Scan(&run.ID, &run.Status, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
