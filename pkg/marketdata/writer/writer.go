package writer

import (
	"fmt"

	"github.com/rxtech-lab/fedfunds/internal/types"
)

// WriterType defines the output format of a series writer.
type WriterType string

const (
	WriterCSV    WriterType = "csv"
	WriterDuckDB WriterType = "duckdb"
)

// Extension returns the file extension produced by the writer type.
func (t WriterType) Extension() string {
	switch t {
	case WriterDuckDB:
		return ".parquet"
	default:
		return ".csv"
	}
}

// Columns names the two output columns: the index (date key) and the value.
type Columns struct {
	Index string
	Value string
}

// ColumnsFor returns the column layout of a series: "date" keys monthly rows, "quarter" keys quarterly rows,
// and the value column carries the series alias.
func ColumnsFor(series types.Series) Columns {
	index := "date"
	if series.Frequency == types.FrequencyQuarterly {
		index = "quarter"
	}

	return Columns{
		Index: index,
		Value: series.Name,
	}
}

// SeriesWriter defines the interface for writing a series to a destination.
type SeriesWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single observation.
	Write(obs types.Observation) error
	// Finalize completes the writing process (e.g., commits transactions, exports files).
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// NewSeriesWriter creates a writer of the given type targeting outputPath.
func NewSeriesWriter(writerType WriterType, outputPath string, columns Columns) (SeriesWriter, error) {
	switch writerType {
	case WriterCSV:
		return NewCSVWriter(outputPath, columns), nil
	case WriterDuckDB:
		return NewDuckDBWriter(outputPath, columns), nil
	default:
		return nil, fmt.Errorf("unsupported writer type: %s", writerType)
	}
}

// WriteSeries runs the full writer lifecycle for one series and returns the output path.
// The writer is always closed.
func WriteSeries(w SeriesWriter, series types.Series) (outputPath string, err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing writer: %w", cerr)
		}
	}()

	if err := w.Initialize(); err != nil {
		return "", fmt.Errorf("failed to initialize writer: %w", err)
	}

	for _, obs := range series.Observations {
		if err := w.Write(obs); err != nil {
			return "", fmt.Errorf("failed to write observation %s: %w", obs.Date, err)
		}
	}

	outputPath, err = w.Finalize()
	if err != nil {
		return "", fmt.Errorf("failed to finalize writer: %w", err)
	}

	return outputPath, nil
}
