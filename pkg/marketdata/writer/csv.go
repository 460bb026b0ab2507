package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/fedfunds/internal/types"
)

// CSVWriter writes a series as a two-column CSV file with a header row.
// Rows go to a temporary file next to the target, which is renamed into place on Finalize,
// so a failed run never leaves a partial file at outputPath.
type CSVWriter struct {
	outputPath string
	columns    Columns
	file       *os.File
	csv        *csv.Writer
}

// NewCSVWriter creates a new CSVWriter.
func NewCSVWriter(outputPath string, columns Columns) SeriesWriter {
	return &CSVWriter{
		outputPath: outputPath,
		columns:    columns,
	}
}

// Initialize creates the output directory and the temporary file, and writes the header.
func (w *CSVWriter) Initialize() error {
	dir := filepath.Dir(w.outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(w.outputPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	w.file = file
	w.csv = csv.NewWriter(file)

	if err := w.csv.Write([]string{w.columns.Index, w.columns.Value}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	return nil
}

// Write appends one row. Missing values are written as an empty cell.
func (w *CSVWriter) Write(obs types.Observation) error {
	if w.csv == nil {
		return fmt.Errorf("writer not initialized")
	}

	if err := w.csv.Write([]string{obs.Date.String(), obs.FormatValue()}); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	return nil
}

// Finalize flushes the rows and moves the file to its final path.
func (w *CSVWriter) Finalize() (string, error) {
	if w.csv == nil || w.file == nil {
		return "", fmt.Errorf("writer not initialized")
	}

	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		return "", fmt.Errorf("failed to flush rows: %w", err)
	}

	tmpPath := w.file.Name()
	if err := w.file.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}

	w.file = nil
	w.csv = nil

	if err := os.Rename(tmpPath, w.outputPath); err != nil {
		os.Remove(tmpPath)

		return "", fmt.Errorf("failed to move %s into place: %w", w.outputPath, err)
	}

	return w.outputPath, nil
}

// Close discards the temporary file if Finalize did not run.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}

	tmpPath := w.file.Name()
	closeErr := w.file.Close()
	w.file = nil
	w.csv = nil

	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temporary file: %w", err)
	}

	return closeErr
}

// GetOutputPath implements SeriesWriter.
func (w *CSVWriter) GetOutputPath() string {
	return w.outputPath
}
