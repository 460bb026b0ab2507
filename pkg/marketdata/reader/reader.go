package reader

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/fedfunds/internal/logger"
	"github.com/rxtech-lab/fedfunds/internal/types"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// Reader queries a series file written by a SeriesWriter.
// The file is exposed as the view series_data(obs_date DATE, obs_value DOUBLE).
type Reader struct {
	db      *sql.DB
	logger  *logger.Logger
	sq      squirrel.StatementBuilderType
	path    string
	columns writer.Columns
}

// Stats summarises the rows of a series file.
type Stats struct {
	Rows    int
	Missing int
	First   optional.Option[civil.Date]
	Last    optional.Option[civil.Date]
	Min     optional.Option[float64]
	Max     optional.Option[float64]
	Mean    optional.Option[float64]
}

// Open attaches the CSV or Parquet file at path to an in-memory DuckDB database.
func Open(path string, log *logger.Logger) (*Reader, error) {
	log = logger.OrNop(log)

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeNoDataFound, err, "series file %s is not readable", path)
	}

	source, err := sourceFunction(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	r := &Reader{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		path:   path,
	}

	if err := r.initialize(source); err != nil {
		db.Close()

		return nil, err
	}

	log.Debug("Opened series file",
		zap.String("path", path),
		zap.String("index", r.columns.Index),
		zap.String("value", r.columns.Value),
	)

	return r, nil
}

func sourceFunction(path string) (string, error) {
	literal := `'` + strings.ReplaceAll(path, `'`, `''`) + `'`

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return fmt.Sprintf("read_csv_auto(%s, header=true, all_varchar=true)", literal), nil
	case ".parquet":
		return fmt.Sprintf("read_parquet(%s)", literal), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported series file extension %q (expected .csv or .parquet)", filepath.Ext(path))
	}
}

// initialize creates the raw view over the file, discovers its two columns and
// builds the typed series_data view on top of it.
func (r *Reader) initialize(source string) error {
	if _, err := r.db.Exec(fmt.Sprintf(`CREATE VIEW raw_series AS SELECT * FROM %s`, source)); err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to read %s", r.path)
	}

	rows, err := r.db.Query(`SELECT * FROM raw_series LIMIT 0`)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to inspect %s", r.path)
	}

	names, err := rows.Columns()
	rows.Close()

	if err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to inspect %s", r.path)
	}

	if len(names) != 2 {
		return errors.Newf(errors.ErrCodeMarketDataParseFailed, "expected 2 columns in %s, found %d", r.path, len(names))
	}

	r.columns = writer.Columns{Index: names[0], Value: names[1]}

	_, err = r.db.Exec(fmt.Sprintf(`
		CREATE VIEW series_data AS
		SELECT CAST(%s AS DATE) AS obs_date, TRY_CAST(%s AS DOUBLE) AS obs_value
		FROM raw_series
	`, quoteIdent(r.columns.Index), quoteIdent(r.columns.Value)))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to map columns of %s", r.path)
	}

	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Columns returns the header of the file.
func (r *Reader) Columns() writer.Columns {
	return r.columns
}

// Frequency infers the series frequency from the index column name.
func (r *Reader) Frequency() types.Frequency {
	if r.columns.Index == "quarter" {
		return types.FrequencyQuarterly
	}

	return types.FrequencyMonthly
}

func applyBounds(builder squirrel.SelectBuilder, start optional.Option[civil.Date], end optional.Option[civil.Date]) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"obs_date": start.Unwrap().In(time.UTC)})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"obs_date": end.Unwrap().In(time.UTC)})
	}

	return builder
}

// Read returns the observations within the optional bounds, ordered by date.
func (r *Reader) Read(ctx context.Context, start optional.Option[civil.Date], end optional.Option[civil.Date]) (types.Series, error) {
	query, args, err := applyBounds(
		r.sq.Select("obs_date", "obs_value").From("series_data"),
		start, end,
	).OrderBy("obs_date ASC").ToSql()
	if err != nil {
		return types.Series{}, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return types.Series{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query series", err)
	}
	defer rows.Close()

	series := types.Series{
		Name:         r.columns.Value,
		Frequency:    r.Frequency(),
		Observations: []types.Observation{},
	}

	for rows.Next() {
		var (
			date  time.Time
			value sql.NullFloat64
		)

		if err := rows.Scan(&date, &value); err != nil {
			return types.Series{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		obs := types.MissingObservation(civil.DateOf(date))
		if value.Valid {
			obs = types.NewObservation(obs.Date, value.Float64)
		}

		series.Observations = append(series.Observations, obs)
	}

	if err := rows.Err(); err != nil {
		return types.Series{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return series, nil
}

// Stats computes row counts, date span and value range within the optional bounds.
func (r *Reader) Stats(ctx context.Context, start optional.Option[civil.Date], end optional.Option[civil.Date]) (Stats, error) {
	query, args, err := applyBounds(
		r.sq.Select(
			"COUNT(*)",
			"COUNT(*) - COUNT(obs_value)",
			"MIN(obs_date)",
			"MAX(obs_date)",
			"MIN(obs_value)",
			"MAX(obs_value)",
			"AVG(obs_value)",
		).From("series_data"),
		start, end,
	).ToSql()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to build query: %w", err)
	}

	var (
		rows, missing   int
		first, last     sql.NullTime
		lo, hi, average sql.NullFloat64
	)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&rows, &missing, &first, &last, &lo, &hi, &average)
	if err != nil {
		return Stats{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to compute series stats", err)
	}

	stats := Stats{
		Rows:    rows,
		Missing: missing,
		First:   optional.None[civil.Date](),
		Last:    optional.None[civil.Date](),
		Min:     optional.None[float64](),
		Max:     optional.None[float64](),
		Mean:    optional.None[float64](),
	}

	if first.Valid {
		stats.First = optional.Some(civil.DateOf(first.Time))
	}

	if last.Valid {
		stats.Last = optional.Some(civil.DateOf(last.Time))
	}

	if lo.Valid {
		stats.Min = optional.Some(lo.Float64)
	}

	if hi.Valid {
		stats.Max = optional.Some(hi.Float64)
	}

	if average.Valid {
		stats.Mean = optional.Some(average.Float64)
	}

	return stats, nil
}

// Close releases the database.
func (r *Reader) Close() error {
	if r.db == nil {
		return nil
	}

	err := r.db.Close()
	r.db = nil

	return err
}
