package provider

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-resty/resty/v2"
	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/fedfunds/internal/logger"
	"github.com/rxtech-lab/fedfunds/internal/types"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"go.uber.org/zap"
)

const fredGraphPath = "/graph/fredgraph.csv"

// Date column names used by fredgraph.csv, current first.
var fredGraphDateColumns = []string{"observation_date", "DATE"}

// FREDGraphClient retrieves series from the public fredgraph CSV download.
type FREDGraphClient struct {
	http   *resty.Client
	logger *logger.Logger
}

// NewFREDGraphClient creates a client for fredgraph.csv.
func NewFREDGraphClient(opts ...Option) (Provider, error) {
	o := newClientOptions(DefaultFREDGraphBaseURL, opts)

	client := resty.New().
		SetBaseURL(o.baseURL).
		SetTimeout(o.timeout).
		SetHeader("Accept", "text/csv")

	return &FREDGraphClient{
		http:   client,
		logger: o.logger,
	}, nil
}

// Fetch implements Provider.
func (c *FREDGraphClient) Fetch(ctx context.Context, seriesID string, start civil.Date, end civil.Date, onProgress OnFetchProgress) (types.Series, error) {
	if err := ValidateRange(seriesID, start, end); err != nil {
		return types.Series{}, err
	}

	reportProgress(onProgress, 0, 1, fmt.Sprintf("Downloading %s from fredgraph", seriesID))

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":   seriesID,
			"cosd": start.String(),
			"coed": end.String(),
		}).
		Get(fredGraphPath)
	if err != nil {
		return types.Series{}, errors.Wrapf(errors.ErrCodeSourceUnavailable, err, "request for %s failed", seriesID)
	}

	if resp.IsError() {
		return types.Series{}, statusError(seriesID, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	body := resp.Body()
	// an unknown id is answered with an HTML error page instead of CSV
	if looksLikeHTML(body) {
		return types.Series{}, errors.Newf(errors.ErrCodeSeriesNotFound, "series %s not found", seriesID)
	}

	observations, err := parseFREDGraphCSV(seriesID, body)
	if err != nil {
		return types.Series{}, errors.Wrapf(errors.ErrCodeSourceUnavailable, err, "malformed response for %s", seriesID)
	}

	series := types.Series{
		Name:         seriesID,
		Frequency:    types.FrequencyMonthly,
		Observations: normalizeObservations(observations, start, end),
	}

	c.logger.Debug("Fetched series from fredgraph",
		zap.String("series_id", seriesID),
		zap.Int("published", len(observations)),
		zap.Int("rows", series.Len()),
	)

	reportProgress(onProgress, 1, 1, fmt.Sprintf("Fetched %d observations of %s", series.Len(), seriesID))

	return series, nil
}

func looksLikeHTML(body []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), 64)])))

	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// parseFREDGraphCSV reads a two-column "date,<seriesID>" payload.
func parseFREDGraphCSV(seriesID string, body []byte) ([]types.Observation, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New(errors.ErrCodeMarketDataParseFailed, "empty CSV payload")
	}

	rows, err := gocsv.CSVToMaps(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to read CSV payload", err)
	}

	observations := make([]types.Observation, 0, len(rows))
	for i, row := range rows {
		rawDate, ok := lookupColumn(row, fredGraphDateColumns...)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed, "row %d has no date column", i+1)
		}

		rawValue, ok := lookupColumn(row, seriesID)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed, "row %d has no %s column", i+1, seriesID)
		}

		obs, err := parseObservation(rawDate, rawValue)
		if err != nil {
			return nil, err
		}

		observations = append(observations, obs)
	}

	return observations, nil
}

func lookupColumn(row map[string]string, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := row[name]; ok {
			return v, true
		}
	}

	for key, v := range row {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(key), name) {
				return v, true
			}
		}
	}

	return "", false
}
