package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/fedfunds/internal/types"
)

// DuckDBWriter stages a series in an in-memory DuckDB table and exports it as Parquet.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	columns    Columns
	outputPath string // Path of the final Parquet file
}

// NewDuckDBWriter creates a new DuckDBWriter.
func NewDuckDBWriter(outputPath string, columns Columns) SeriesWriter {
	return &DuckDBWriter{
		outputPath: outputPath,
		columns:    columns,
	}
}

// quoteIdent quotes a column name for DuckDB.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral quotes a string literal for DuckDB.
func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// Initialize opens an in-memory database, creates the staging table,
// begins a transaction and prepares the insert statement.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	_, err = w.db.Exec(fmt.Sprintf(`
		CREATE TABLE series_data (
			id TEXT,
			%s DATE,
			%s DOUBLE
		)
	`, quoteIdent(w.columns.Index), quoteIdent(w.columns.Value)))
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to create table: %w", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.stmt, err = w.tx.Prepare(fmt.Sprintf(
		`INSERT INTO series_data (id, %s, %s) VALUES (?, ?, ?)`,
		quoteIdent(w.columns.Index), quoteIdent(w.columns.Value),
	))
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	return nil
}

// Write inserts one observation. Missing values are stored as NULL.
func (w *DuckDBWriter) Write(obs types.Observation) error {
	if w.stmt == nil {
		return fmt.Errorf("writer not initialized or statement is nil")
	}

	var value sql.NullFloat64
	if !obs.IsMissing() {
		value = sql.NullFloat64{Float64: obs.Value.Unwrap(), Valid: true}
	}

	if _, err := w.stmt.Exec(uuid.New().String(), obs.Date.In(time.UTC), value); err != nil {
		return fmt.Errorf("failed to insert data: %w", err)
	}

	return nil
}

// Finalize commits the transaction and exports the rows, ordered by date, to Parquet.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", fmt.Errorf("writer not initialized or transaction is nil")
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.tx = nil

	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpPath := filepath.Join(filepath.Dir(w.outputPath), "."+filepath.Base(w.outputPath)+".tmp")

	_, err = w.db.Exec(fmt.Sprintf(
		`COPY (SELECT %s, %s FROM series_data ORDER BY %s) TO %s (FORMAT PARQUET)`,
		quoteIdent(w.columns.Index), quoteIdent(w.columns.Value), quoteIdent(w.columns.Index),
		quoteLiteral(tmpPath),
	))
	if err != nil {
		os.Remove(tmpPath)

		return "", fmt.Errorf("failed to export to Parquet: %w", err)
	}

	if err := os.Rename(tmpPath, w.outputPath); err != nil {
		os.Remove(tmpPath)

		return "", fmt.Errorf("failed to move Parquet file into place: %w", err)
	}

	return w.outputPath, nil
}

// Close releases the statement, any open transaction and the database.
func (w *DuckDBWriter) Close() error {
	var closeErrors []string

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close statement: %v", err))
		}

		w.stmt = nil
	}

	if w.tx != nil {
		// Finalize never ran or failed before commit
		if err := w.tx.Rollback(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to rollback transaction: %v", err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		return fmt.Errorf("errors occurred during close:\n- %s", strings.Join(closeErrors, "\n- "))
	}

	return nil
}

// GetOutputPath implements SeriesWriter.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}
