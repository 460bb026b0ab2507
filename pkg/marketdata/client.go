package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/fedfunds/internal/logger"
	"github.com/rxtech-lab/fedfunds/internal/types"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata/provider"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata/resample"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// DefaultPreviewRows is the number of head and tail rows logged after each stage.
const DefaultPreviewRows = 5

// ClientConfig holds the configuration for the series client.
type ClientConfig struct {
	ProviderType provider.ProviderType `validate:"required,oneof=fred fredgraph"`
	WriterType   writer.WriterType     `validate:"required,oneof=csv duckdb"`
	DataPath     string                `validate:"required"`
	FREDApiKey   string                `validate:"required_if=ProviderType fred"`
	Timeout      time.Duration         `validate:"gte=0"`
	BaseURL      string                `validate:"omitempty,url"`
}

// RetrieveParams identifies the monthly series to download.
type RetrieveParams struct {
	SeriesID  string `validate:"required"`
	Alias     string `validate:"required"`
	StartDate civil.Date
	EndDate   civil.Date
}

// RunParams holds the parameters of a full retrieve, resample and write run.
type RunParams struct {
	RetrieveParams

	Policy resample.Policy
	// MonthlyFile and QuarterlyFile override the default file names inside DataPath.
	MonthlyFile   string
	QuarterlyFile string
}

// OutputFile describes one written file.
type OutputFile struct {
	Path string
	Rows int
}

// RunResult reports what a run produced.
type RunResult struct {
	Monthly   OutputFile
	Quarterly OutputFile
	Policy    resample.Policy
}

// WriterFactory creates the writer for one output file.
type WriterFactory func(writerType writer.WriterType, outputPath string, columns writer.Columns) (writer.SeriesWriter, error)

// ClientOption configures optional collaborators of a Client.
type ClientOption func(*Client)

// WithProvider replaces the provider built from the configuration.
func WithProvider(p provider.Provider) ClientOption {
	return func(c *Client) {
		c.provider = p
	}
}

// WithWriterFactory replaces writer.NewSeriesWriter.
func WithWriterFactory(factory WriterFactory) ClientOption {
	return func(c *Client) {
		c.newWriter = factory
	}
}

// WithLogger sets the logger used for stage logging and series previews.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithProgress sets the callback receiving download progress.
func WithProgress(onProgress provider.OnFetchProgress) ClientOption {
	return func(c *Client) {
		c.onProgress = onProgress
	}
}

// WithPreviewRows sets how many head and tail rows are logged per stage. Zero disables the preview.
func WithPreviewRows(n int) ClientOption {
	return func(c *Client) {
		c.previewRows = n
	}
}

// Client retrieves a monthly series, resamples it to quarters and writes both.
type Client struct {
	provider    provider.Provider
	config      ClientConfig
	validate    *validator.Validate
	logger      *logger.Logger
	onProgress  provider.OnFetchProgress
	newWriter   WriterFactory
	previewRows int
}

// NewClient creates a new series client with the given configuration.
func NewClient(config ClientConfig, opts ...ClientOption) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	c := &Client{
		config:      config,
		validate:    validate,
		newWriter:   writer.NewSeriesWriter,
		previewRows: DefaultPreviewRows,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = logger.OrNop(c.logger)

	if c.provider == nil {
		seriesProvider, err := provider.NewSeriesProvider(
			config.ProviderType,
			config.FREDApiKey,
			provider.WithBaseURL(config.BaseURL),
			provider.WithTimeout(config.Timeout),
			provider.WithLogger(c.logger),
		)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidProvider, err, "failed to create %s provider", config.ProviderType)
		}

		c.provider = seriesProvider
	}

	return c, nil
}

// Retrieve downloads the monthly observations of params.SeriesID within
// [StartDate, EndDate] and renames the series to params.Alias.
func (c *Client) Retrieve(ctx context.Context, params RetrieveParams) (types.Series, error) {
	if err := provider.ValidateRange(params.SeriesID, params.StartDate, params.EndDate); err != nil {
		return types.Series{}, err
	}

	if err := c.validate.Struct(params); err != nil {
		return types.Series{}, errors.Wrap(errors.ErrCodeMissingParameter, "invalid retrieve parameters", err)
	}

	log := c.logger.With(
		zap.String("series_id", params.SeriesID),
		zap.String("alias", params.Alias),
		zap.String("start", params.StartDate.String()),
		zap.String("end", params.EndDate.String()),
	)
	log.Info("Retrieving monthly series")

	series, err := c.provider.Fetch(ctx, params.SeriesID, params.StartDate, params.EndDate, c.onProgress)
	if err != nil {
		return types.Series{}, fmt.Errorf("retrieve %s: %w", params.SeriesID, err)
	}

	if !series.IsStrictlyIncreasing() || !series.Within(params.StartDate, params.EndDate) {
		return types.Series{}, errors.Newf(errors.ErrCodeSourceUnavailable,
			"provider returned observations of %s out of order or outside [%s, %s]",
			params.SeriesID, params.StartDate, params.EndDate)
	}

	monthly := types.Series{
		Name:         params.Alias,
		Frequency:    types.FrequencyMonthly,
		Observations: series.Observations,
	}
	if monthly.Observations == nil {
		monthly.Observations = []types.Observation{}
	}

	log.Info("Retrieved monthly series", zap.Int("rows", monthly.Len()))
	c.preview("monthly", monthly)

	return monthly, nil
}

// Resample converts the monthly series to quarters with the given policy.
func (c *Client) Resample(monthly types.Series, policy resample.Policy) (types.Series, error) {
	quarterly, err := resample.Resample(monthly, policy)
	if err != nil {
		return types.Series{}, err
	}

	fields := []zap.Field{
		zap.String("alias", monthly.Name),
		zap.String("policy", string(policy)),
		zap.Int("rows", quarterly.Len()),
	}

	if !quarterly.IsEmpty() {
		first := quarterly.Observations[0].Date
		last := quarterly.Observations[quarterly.Len()-1].Date
		spanned := types.QuartersSpanned(first, last)

		fields = append(fields,
			zap.String("first_quarter", types.QuarterOf(first).String()),
			zap.String("last_quarter", types.QuarterOf(last).String()),
			zap.Int("quarters_without_data", spanned-quarterly.Len()),
		)
	}

	c.logger.Info("Resampled to quarterly", fields...)
	c.preview("quarterly", quarterly)

	return quarterly, nil
}

// Run retrieves, resamples and writes both series.
// Nothing is written unless retrieval and resampling both succeed, and a failed
// quarterly write removes the monthly file written before it.
func (c *Client) Run(ctx context.Context, params RunParams) (RunResult, error) {
	if !params.Policy.IsValid() {
		return RunResult{}, errors.Newf(errors.ErrCodeInvalidPolicy,
			"unknown aggregation policy %q (expected one of: mean, last)", string(params.Policy))
	}

	monthly, err := c.Retrieve(ctx, params.RetrieveParams)
	if err != nil {
		return RunResult{}, err
	}

	quarterly, err := c.Resample(monthly, params.Policy)
	if err != nil {
		return RunResult{}, err
	}

	monthlyPath, quarterlyPath := c.outputPaths(params)

	monthlyOut, err := c.write(monthly, monthlyPath)
	if err != nil {
		return RunResult{}, err
	}

	quarterlyOut, err := c.write(quarterly, quarterlyPath)
	if err != nil {
		if rmErr := os.Remove(monthlyOut.Path); rmErr != nil && !os.IsNotExist(rmErr) {
			c.logger.Warn("Failed to remove monthly file after quarterly write failure",
				zap.String("path", monthlyOut.Path),
				zap.Error(rmErr),
			)
		}

		return RunResult{}, err
	}

	return RunResult{
		Monthly:   monthlyOut,
		Quarterly: quarterlyOut,
		Policy:    params.Policy,
	}, nil
}

// DefaultFileName returns the file name used for alias at the given frequency, e.g. us_fedfunds_monthly.csv.
func DefaultFileName(alias string, frequency types.Frequency, writerType writer.WriterType) string {
	return fmt.Sprintf("us_%s_%s%s", alias, frequency, writerType.Extension())
}

func (c *Client) outputPaths(params RunParams) (monthly string, quarterly string) {
	monthlyFile := params.MonthlyFile
	if monthlyFile == "" {
		monthlyFile = DefaultFileName(params.Alias, types.FrequencyMonthly, c.config.WriterType)
	}

	quarterlyFile := params.QuarterlyFile
	if quarterlyFile == "" {
		quarterlyFile = DefaultFileName(params.Alias, types.FrequencyQuarterly, c.config.WriterType)
	}

	return filepath.Join(c.config.DataPath, monthlyFile), filepath.Join(c.config.DataPath, quarterlyFile)
}

func (c *Client) write(series types.Series, outputPath string) (OutputFile, error) {
	seriesWriter, err := c.newWriter(c.config.WriterType, outputPath, writer.ColumnsFor(series))
	if err != nil {
		return OutputFile{}, errors.Wrap(errors.ErrCodeInvalidWriter, "failed to create writer", err)
	}

	path, err := writer.WriteSeries(seriesWriter, series)
	if err != nil {
		return OutputFile{}, errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write %s", outputPath)
	}

	c.logger.Info("Saved series",
		zap.String("path", path),
		zap.String("frequency", string(series.Frequency)),
		zap.Int("rows", series.Len()),
	)

	return OutputFile{Path: path, Rows: series.Len()}, nil
}

func (c *Client) preview(label string, series types.Series) {
	if c.previewRows > 0 {
		c.logger.LogSeriesPreview(label, series, c.previewRows)
	}
}
