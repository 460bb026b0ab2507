package provider

import (
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/rxtech-lab/fedfunds/internal/types"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
)

// FRED publishes gaps as "." in both the JSON API and the CSV download; newer CSVs leave the cell empty.
const fredMissingValue = "."

// ValidateRange checks the retrieval arguments before any network I/O happens.
func ValidateRange(seriesID string, start civil.Date, end civil.Date) error {
	if strings.TrimSpace(seriesID) == "" {
		return errors.New(errors.ErrCodeMissingParameter, "series id is required")
	}

	if !start.IsValid() || !end.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidRange, "invalid date range %s to %s", start, end)
	}

	if end.Before(start) {
		return errors.Newf(errors.ErrCodeInvalidRange, "end date %s is before start date %s", end, start)
	}

	return nil
}

// parseObservation converts a raw (date, value) pair as published by FRED.
func parseObservation(rawDate string, rawValue string) (types.Observation, error) {
	date, err := civil.ParseDate(strings.TrimSpace(rawDate))
	if err != nil {
		return types.Observation{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid observation date %q", rawDate)
	}

	value := strings.TrimSpace(rawValue)
	if value == "" || value == fredMissingValue {
		return types.MissingObservation(date), nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return types.Observation{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid observation value %q on %s", rawValue, rawDate)
	}

	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return types.Observation{}, errors.Newf(errors.ErrCodeMarketDataParseFailed, "non-finite observation value %q on %s", rawValue, rawDate)
	}

	return types.NewObservation(date, parsed), nil
}

// normalizeObservations keeps observations dated within [start, end], orders them by date
// and drops repeated dates, keeping the last one published.
func normalizeObservations(observations []types.Observation, start civil.Date, end civil.Date) []types.Observation {
	inRange := make([]types.Observation, 0, len(observations))
	for _, obs := range observations {
		if obs.Date.Before(start) || obs.Date.After(end) {
			continue
		}

		inRange = append(inRange, obs)
	}

	slices.SortStableFunc(inRange, func(a, b types.Observation) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		default:
			return 0
		}
	})

	out := make([]types.Observation, 0, len(inRange))
	for _, obs := range inRange {
		if n := len(out); n > 0 && out[n-1].Date == obs.Date {
			out[n-1] = obs

			continue
		}

		out = append(out, obs)
	}

	return out
}

// statusError maps a non-2xx FRED response to SeriesNotFound or SourceUnavailable.
func statusError(seriesID string, status int, message string) error {
	lower := strings.ToLower(message)
	if status == http.StatusNotFound || strings.Contains(lower, "series does not exist") {
		return errors.Newf(errors.ErrCodeSeriesNotFound, "series %s not found", seriesID)
	}

	if message == "" {
		message = http.StatusText(status)
	}

	return errors.Newf(errors.ErrCodeSourceUnavailable, "FRED responded %d: %s", status, message)
}
