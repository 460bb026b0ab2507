package types

import (
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/moznion/go-optional"
)

// Frequency is the sampling frequency of a Series.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// Observation is a single dated value of a rate series.
// Value is None when the provider published a gap for that date.
type Observation struct {
	Date  civil.Date
	Value optional.Option[float64]
}

// NewObservation returns an observation with a present value.
func NewObservation(date civil.Date, value float64) Observation {
	return Observation{
		Date:  date,
		Value: optional.Some(value),
	}
}

// MissingObservation returns an observation whose value is absent.
func MissingObservation(date civil.Date) Observation {
	return Observation{
		Date:  date,
		Value: optional.None[float64](),
	}
}

// IsMissing reports whether the observation carries no value.
func (o Observation) IsMissing() bool {
	return o.Value.IsNone()
}

// FormatValue renders the value for tabular output. Missing values render as an empty string.
func (o Observation) FormatValue() string {
	if o.Value.IsNone() {
		return ""
	}

	return strconv.FormatFloat(o.Value.Unwrap(), 'f', -1, 64)
}

// Series is an ordered, date-indexed sequence of observations.
// Name is the human readable column alias (e.g. "fedfunds"), not the provider's identifier.
type Series struct {
	Name         string
	Frequency    Frequency
	Observations []Observation
}

// Len returns the number of observations in the series.
func (s Series) Len() int {
	return len(s.Observations)
}

// IsEmpty reports whether the series has no observations.
func (s Series) IsEmpty() bool {
	return len(s.Observations) == 0
}

// Head returns up to n leading observations.
func (s Series) Head(n int) []Observation {
	if n > len(s.Observations) {
		n = len(s.Observations)
	}

	if n < 0 {
		n = 0
	}

	return append([]Observation(nil), s.Observations[:n]...)
}

// Tail returns up to n trailing observations.
func (s Series) Tail(n int) []Observation {
	if n > len(s.Observations) {
		n = len(s.Observations)
	}

	if n < 0 {
		n = 0
	}

	return append([]Observation(nil), s.Observations[len(s.Observations)-n:]...)
}

// IsStrictlyIncreasing reports whether dates ascend with no duplicates.
func (s Series) IsStrictlyIncreasing() bool {
	for i := 1; i < len(s.Observations); i++ {
		if !s.Observations[i-1].Date.Before(s.Observations[i].Date) {
			return false
		}
	}

	return true
}

// Within reports whether every observation date lies in [start, end].
func (s Series) Within(start, end civil.Date) bool {
	for _, obs := range s.Observations {
		if obs.Date.Before(start) || obs.Date.After(end) {
			return false
		}
	}

	return true
}
