// Package sqlite provides SQLite database writing for search results
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/TruncSearch/pkg/ladder"
	"github.com/ChrisMcGann/TruncSearch/pkg/search"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"

	// Schema version stamped into HeaderTable
	schemaVersion = 1
)

// Writer handles writing queries, matches and ladders to an SQLite file
type Writer struct {
	db         *sql.DB
	outputPath string
	runID      string
	queryStmt  *sql.Stmt
	matchStmt  *sql.Stmt
	ladderStmt *sql.Stmt
	queryID    int64
	closed     bool
}

// NewWriter creates a new SQLite writer. Every writer stamps its rows with a
// fresh run id so repeated runs can share one database file.
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		runID:      uuid.NewString(),
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.db.QueryRow(`SELECT COALESCE(MAX(QueryId), 0) FROM QueryTable`).Scan(&w.queryID); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read last query id: %w", err)
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// RunID returns the identifier stamped on every row this writer inserts
func (w *Writer) RunID() string {
	return w.runID
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS QueryTable (
		QueryId INTEGER PRIMARY KEY,
		RunId TEXT NOT NULL,
		Kind TEXT NOT NULL,
		Peptide TEXT NOT NULL,
		Adjustments TEXT,
		TargetMass DOUBLE,
		Tolerance DOUBLE,
		IgnoreCount INTEGER,
		CapMass DOUBLE,
		MatchCount INTEGER
	);

	CREATE TABLE IF NOT EXISTS MatchTable (
		MatchId INTEGER PRIMARY KEY AUTOINCREMENT,
		QueryId INTEGER REFERENCES QueryTable(QueryId),
		Rank INTEGER,
		Pattern TEXT,
		Mass DOUBLE,
		Deletions INTEGER,
		DeltaMass DOUBLE
	);

	CREATE TABLE IF NOT EXISTS LadderTable (
		LadderId INTEGER PRIMARY KEY AUTOINCREMENT,
		QueryId INTEGER REFERENCES QueryTable(QueryId),
		Sequence TEXT,
		Mass DOUBLE,
		MZ1 DOUBLE, MZ2 DOUBLE, MZ3 DOUBLE, MZ4 DOUBLE,
		MZ5 DOUBLE, MZ6 DOUBLE, MZ7 DOUBLE, MZ8 DOUBLE
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		RunId TEXT,
		CreationDate TEXT,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.queryStmt, err = w.db.Prepare(`
		INSERT INTO QueryTable (
			QueryId, RunId, Kind, Peptide, Adjustments, TargetMass,
			Tolerance, IgnoreCount, CapMass, MatchCount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare query statement: %w", err)
	}

	w.matchStmt, err = w.db.Prepare(`
		INSERT INTO MatchTable (QueryId, Rank, Pattern, Mass, Deletions, DeltaMass)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare match statement: %w", err)
	}

	w.ladderStmt, err = w.db.Prepare(`
		INSERT INTO LadderTable (
			QueryId, Sequence, Mass, MZ1, MZ2, MZ3, MZ4, MZ5, MZ6, MZ7, MZ8
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare ladder statement: %w", err)
	}

	return nil
}

// WriteResult writes a search query and its matches in one transaction and
// returns the query id
func (w *Writer) WriteResult(q search.Query, matches []search.Match) (int64, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := w.queryID + 1
	_, err = tx.Stmt(w.queryStmt).Exec(
		id,
		w.runID,
		"search",
		q.Peptide,
		formatAdjustments(q.Adjustments),
		q.TargetMass,
		q.Tolerance,
		q.IgnoreCount,
		q.CapMass,
		len(matches),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert query: %w", err)
	}

	stmt := tx.Stmt(w.matchStmt)
	for rank, m := range matches {
		if _, err := stmt.Exec(id, rank+1, m.Pattern, m.Mass, m.Deletions, m.Delta); err != nil {
			return 0, fmt.Errorf("failed to insert match %s: %w", m.Pattern, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit query: %w", err)
	}

	w.queryID = id
	return id, nil
}

// WriteLadder writes a truncation ladder under its own query row
func (w *Writer) WriteLadder(peptide string, adjustments []float64, capMass float64, rows []ladder.Row) (int64, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := w.queryID + 1
	_, err = tx.Stmt(w.queryStmt).Exec(
		id, w.runID, "ladder", peptide, formatAdjustments(adjustments),
		nil, nil, nil, capMass, len(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert ladder query: %w", err)
	}

	stmt := tx.Stmt(w.ladderStmt)
	for _, row := range rows {
		args := []any{id, row.Sequence, row.Mass}
		for _, mz := range row.MZ {
			args = append(args, mz)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return 0, fmt.Errorf("failed to insert ladder row %s: %w", row.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ladder: %w", err)
	}

	w.queryID = id
	return id, nil
}

func formatAdjustments(adj []float64) any {
	if len(adj) == 0 {
		return nil
	}
	parts := make([]string, len(adj))
	for i, a := range adj {
		parts[i] = fmt.Sprintf("%.6f", a)
	}
	return strings.Join(parts, ";")
}

// Finalize writes the header row and closes the database. Only a run
// that completed should be finalized.
func (w *Writer) Finalize() error {
	if w.closed {
		return nil
	}

	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, RunId, CreationDate, Description)
		VALUES (?, ?, ?, ?)
	`, schemaVersion, w.runID, time.Now().Format(headerDateFormat), "truncsearch results")
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	return w.Close()
}

// Close closes prepared statements and the database without writing a
// header row. Rows already committed stay; safe to call after Finalize.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	for _, stmt := range []*sql.Stmt{w.queryStmt, w.matchStmt, w.ladderStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
