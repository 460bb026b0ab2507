package provider

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/fedfunds/internal/logger"
	"github.com/rxtech-lab/fedfunds/internal/types"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"go.uber.org/zap"
)

const fredObservationsPath = "/fred/series/observations"

// fredObservationsResponse is the body of a successful fred/series/observations call.
type fredObservationsResponse struct {
	ObservationStart string            `json:"observation_start"`
	ObservationEnd   string            `json:"observation_end"`
	Count            int               `json:"count"`
	Observations     []fredObservation `json:"observations"`
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// fredErrorResponse is the body FRED returns with 4xx statuses.
type fredErrorResponse struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// FREDClient retrieves series from the FRED observations API.
type FREDClient struct {
	http   *resty.Client
	apiKey string
	logger *logger.Logger
}

// NewFREDClient creates a client for the FRED JSON API.
func NewFREDClient(apiKey string, opts ...Option) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	o := newClientOptions(DefaultFREDBaseURL, opts)

	client := resty.New().
		SetBaseURL(o.baseURL).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json")

	return &FREDClient{
		http:   client,
		apiKey: apiKey,
		logger: o.logger,
	}, nil
}

// Fetch implements Provider.
func (c *FREDClient) Fetch(ctx context.Context, seriesID string, start civil.Date, end civil.Date, onProgress OnFetchProgress) (types.Series, error) {
	if err := ValidateRange(seriesID, start, end); err != nil {
		return types.Series{}, err
	}

	reportProgress(onProgress, 0, 1, fmt.Sprintf("Fetching %s from FRED", seriesID))

	var result fredObservationsResponse

	var apiErr fredErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"series_id":         seriesID,
			"api_key":           c.apiKey,
			"file_type":         "json",
			"observation_start": start.String(),
			"observation_end":   end.String(),
		}).
		ForceContentType("application/json").
		SetResult(&result).
		SetError(&apiErr).
		Get(fredObservationsPath)
	if err != nil && (resp == nil || resp.RawResponse == nil) {
		return types.Series{}, errors.Wrapf(errors.ErrCodeSourceUnavailable, err, "request for %s failed", seriesID)
	}

	if resp.IsError() {
		message := apiErr.ErrorMessage
		if message == "" {
			message = resp.String()
		}

		return types.Series{}, statusError(seriesID, resp.StatusCode(), message)
	}

	if err != nil {
		return types.Series{}, errors.Wrapf(errors.ErrCodeSourceUnavailable, err, "malformed response for %s", seriesID)
	}

	observations := make([]types.Observation, 0, len(result.Observations))
	for _, raw := range result.Observations {
		obs, err := parseObservation(raw.Date, raw.Value)
		if err != nil {
			return types.Series{}, errors.Wrapf(errors.ErrCodeSourceUnavailable, err, "malformed response for %s", seriesID)
		}

		observations = append(observations, obs)
	}

	series := types.Series{
		Name:         seriesID,
		Frequency:    types.FrequencyMonthly,
		Observations: normalizeObservations(observations, start, end),
	}

	c.logger.Debug("Fetched series from FRED API",
		zap.String("series_id", seriesID),
		zap.Int("published", len(result.Observations)),
		zap.Int("rows", series.Len()),
	)

	reportProgress(onProgress, 1, 1, fmt.Sprintf("Fetched %d observations of %s", series.Len(), seriesID))

	return series, nil
}
