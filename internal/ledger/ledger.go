package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	tool          TEXT NOT NULL,
	started_at    TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL,
	input_path    TEXT NOT NULL,
	output_paths  TEXT NOT NULL,
	records_in    INTEGER NOT NULL,
	rows_written  INTEGER NOT NULL,
	passed        INTEGER NOT NULL,
	status        TEXT NOT NULL,
	error         TEXT
);
`

// Statuses recorded for a run.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Run is one provenance row.
type Run struct {
	// ID is the run identifier. Record assigns a fresh UUID when empty.
	ID string

	// Tool names the binary that ran: "coverage" or "sensitivity".
	Tool string

	// StartedAt is when the run began, in UTC.
	StartedAt time.Time

	// Duration is the wall-clock run time.
	Duration time.Duration

	// InputPath is the input file or directory.
	InputPath string

	// OutputPaths lists every table the run committed.
	OutputPaths []string

	// RecordsIn counts parsed input records (depth lines or hits).
	RecordsIn int

	// RowsWritten counts emitted table rows across all outputs.
	RowsWritten int

	// Passed counts rows flagged pass_conservative.
	Passed int

	// Status is StatusOK or StatusError; Error carries the failure
	// message for error runs.
	Status string
	Error  string
}

// Ledger wraps the SQLite database holding run provenance.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database and runs migrations.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: migrate: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record inserts one run row. An empty run ID gets a fresh UUID; the
// assigned ID is written back to run.
func (l *Ledger) Record(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Status == "" {
		run.Status = StatusOK
	}

	outJSON, err := json.Marshal(run.OutputPaths)
	if err != nil {
		return fmt.Errorf("ledger: marshal output paths: %w", err)
	}

	_, err = l.db.Exec(
		`INSERT INTO runs (run_id, tool, started_at, duration_ms, input_path,
		                   output_paths, records_in, rows_written, passed, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Tool, run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(), run.InputPath, string(outJSON),
		run.RecordsIn, run.RowsWritten, run.Passed, run.Status,
		nullIfEmpty(run.Error),
	)
	if err != nil {
		return fmt.Errorf("ledger: insert run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (l *Ledger) Recent(limit int) ([]Run, error) {
	rows, err := l.db.Query(
		`SELECT run_id, tool, started_at, duration_ms, input_path,
		        output_paths, records_in, rows_written, passed, status, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedStr string
			durationMs int64
			outJSON    string
			errMsg     sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Tool, &startedStr, &durationMs,
			&run.InputPath, &outJSON, &run.RecordsIn, &run.RowsWritten,
			&run.Passed, &run.Status, &errMsg); err != nil {
			return nil, fmt.Errorf("ledger: scan row: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal([]byte(outJSON), &run.OutputPaths); err != nil {
			return nil, fmt.Errorf("ledger: unmarshal output paths: %w", err)
		}
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RecordRun is the fire-and-forget entry point used by the tools: it
// opens the ledger at path, records run, and logs (never returns)
// failures. A run is never failed over its provenance row.
func RecordRun(path string, run Run) {
	if path == "" {
		return
	}
	led, err := Open(path)
	if err != nil {
		slog.Warn("ledger: open failed, run not recorded", "path", path, "err", err)
		return
	}
	defer led.Close()

	if err := led.Record(&run); err != nil {
		slog.Warn("ledger: record failed", "path", path, "err", err)
		return
	}
	slog.Debug("ledger: run recorded", "path", path, "run_id", run.ID, "tool", run.Tool)
}

// nullIfEmpty maps "" to NULL so empty error messages stay out of the table.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
