package types

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/suite"
)

type ObservationTestSuite struct {
	suite.Suite
}

func TestObservationSuite(t *testing.T) {
	suite.Run(t, new(ObservationTestSuite))
}

func date(y int, m int, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func (suite *ObservationTestSuite) TestNewObservation() {
	obs := NewObservation(date(2020, 1, 1), 1.55)
	suite.False(obs.IsMissing())
	suite.Equal(1.55, obs.Value.Unwrap())
	suite.Equal("1.55", obs.FormatValue())
}

func (suite *ObservationTestSuite) TestMissingObservation() {
	obs := MissingObservation(date(2020, 2, 1))
	suite.True(obs.IsMissing())
	suite.Equal("", obs.FormatValue())
}

func (suite *ObservationTestSuite) TestFormatValueAvoidsExponent() {
	suite.Equal("0.07", NewObservation(date(2021, 1, 1), 0.07).FormatValue())
	suite.Equal("19.1", NewObservation(date(1981, 6, 1), 19.1).FormatValue())
}

func (suite *ObservationTestSuite) TestHeadAndTail() {
	series := Series{
		Name:      "fedfunds",
		Frequency: FrequencyMonthly,
		Observations: []Observation{
			NewObservation(date(2020, 1, 1), 1.55),
			NewObservation(date(2020, 2, 1), 1.58),
			NewObservation(date(2020, 3, 1), 0.65),
		},
	}

	suite.Len(series.Head(2), 2)
	suite.Equal(date(2020, 1, 1), series.Head(2)[0].Date)
	suite.Len(series.Tail(2), 2)
	suite.Equal(date(2020, 3, 1), series.Tail(2)[1].Date)
	suite.Len(series.Head(10), 3)
	suite.Len(series.Tail(10), 3)
	suite.Empty(series.Head(-1))
	suite.Empty(Series{}.Tail(5))
}

func (suite *ObservationTestSuite) TestHeadDoesNotAlias() {
	series := Series{Observations: []Observation{NewObservation(date(2020, 1, 1), 1)}}
	head := series.Head(1)
	head[0] = NewObservation(date(1999, 1, 1), 9)
	suite.Equal(date(2020, 1, 1), series.Observations[0].Date)
}

func (suite *ObservationTestSuite) TestIsStrictlyIncreasing() {
	ordered := Series{Observations: []Observation{
		NewObservation(date(2020, 1, 1), 1),
		NewObservation(date(2020, 2, 1), 1),
	}}
	suite.True(ordered.IsStrictlyIncreasing())

	duplicated := Series{Observations: []Observation{
		NewObservation(date(2020, 1, 1), 1),
		NewObservation(date(2020, 1, 1), 2),
	}}
	suite.False(duplicated.IsStrictlyIncreasing())

	reversed := Series{Observations: []Observation{
		NewObservation(date(2020, 2, 1), 1),
		NewObservation(date(2020, 1, 1), 1),
	}}
	suite.False(reversed.IsStrictlyIncreasing())
	suite.True(Series{}.IsStrictlyIncreasing())
}

func (suite *ObservationTestSuite) TestWithin() {
	series := Series{Observations: []Observation{
		NewObservation(date(2020, 1, 1), 1),
		NewObservation(date(2020, 6, 1), 1),
	}}
	suite.True(series.Within(date(2020, 1, 1), date(2020, 6, 1)))
	suite.False(series.Within(date(2020, 1, 2), date(2020, 6, 1)))
	suite.False(series.Within(date(2020, 1, 1), date(2020, 5, 31)))
	suite.False(series.IsEmpty())
}
