// Package resample converts a monthly rate series into a quarterly one.
//
// Observations are grouped by Gregorian calendar quarter and each non-empty group
// becomes one quarterly observation keyed by the last calendar day of the quarter.
// Quarters without monthly observations never appear in the result.
package resample

import (
	"math"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/fedfunds/internal/types"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"github.com/shopspring/decimal"
)

// Resample aggregates monthly into one observation per calendar quarter using policy.
//
// The input is never modified. An empty input yields an empty quarterly series.
func Resample(monthly types.Series, policy Policy) (types.Series, error) {
	if !policy.IsValid() {
		return types.Series{}, errors.Newf(errors.ErrCodeInvalidPolicy, "unknown aggregation policy %q", string(policy))
	}

	quarterly := types.Series{
		Name:         monthly.Name,
		Frequency:    types.FrequencyQuarterly,
		Observations: []types.Observation{},
	}

	ordered := slices.Clone(monthly.Observations)
	slices.SortStableFunc(ordered, func(a, b types.Observation) int {
		return compareDates(a.Date, b.Date)
	})

	for _, bucket := range partition(ordered) {
		quarterly.Observations = append(quarterly.Observations, types.Observation{
			Date:  bucket.quarter.End(),
			Value: aggregate(bucket.observations, policy),
		})
	}

	return quarterly, nil
}

type quarterBucket struct {
	quarter      types.Quarter
	observations []types.Observation
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// partition splits date-ordered observations into quarter buckets.
func partition(observations []types.Observation) []quarterBucket {
	var buckets []quarterBucket

	for _, obs := range observations {
		q := types.QuarterOf(obs.Date)

		if n := len(buckets); n > 0 && buckets[n-1].quarter == q {
			buckets[n-1].observations = append(buckets[n-1].observations, obs)

			continue
		}

		buckets = append(buckets, quarterBucket{
			quarter:      q,
			observations: []types.Observation{obs},
		})
	}

	return buckets
}

func aggregate(observations []types.Observation, policy Policy) optional.Option[float64] {
	switch policy {
	case PolicyLast:
		return last(observations)
	default:
		return mean(observations)
	}
}

// mean averages present values in decimal so that e.g. 0.10, 0.20, 0.30 average to exactly 0.20.
// All-missing buckets stay missing.
func mean(observations []types.Observation) optional.Option[float64] {
	sum := decimal.Zero
	count := 0

	for _, obs := range observations {
		if !hasFiniteValue(obs) {
			continue
		}

		sum = sum.Add(decimal.NewFromFloat(obs.Value.Unwrap()))
		count++
	}

	if count == 0 {
		return optional.None[float64]()
	}

	avg, _ := sum.Div(decimal.NewFromInt(int64(count))).Float64()

	return optional.Some(avg)
}

// last returns the value of the latest observation that has one.
// All-missing buckets stay missing.
func last(observations []types.Observation) optional.Option[float64] {
	for i := len(observations) - 1; i >= 0; i-- {
		if hasFiniteValue(observations[i]) {
			return optional.Some(observations[i].Value.Unwrap())
		}
	}

	return optional.None[float64]()
}

// hasFiniteValue treats NaN and infinities like missing values.
func hasFiniteValue(obs types.Observation) bool {
	if obs.IsMissing() {
		return false
	}

	v := obs.Value.Unwrap()

	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
