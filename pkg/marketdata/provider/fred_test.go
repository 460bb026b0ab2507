package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rxtech-lab/fedfunds/internal/types"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type FREDClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	requests []*http.Request
}

func TestFREDClientSuite(t *testing.T) {
	suite.Run(t, new(FREDClientTestSuite))
}

func (suite *FREDClientTestSuite) SetupTest() {
	suite.requests = nil
	suite.handler = nil
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.requests = append(suite.requests, r)
		suite.handler(w, r)
	}))
}

func (suite *FREDClientTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *FREDClientTestSuite) newClient() Provider {
	client, err := NewFREDClient("test-api-key", WithBaseURL(suite.server.URL))
	suite.Require().NoError(err)

	return client
}

func (suite *FREDClientTestSuite) respondJSON(status int, body string) {
	suite.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (suite *FREDClientTestSuite) TestNewFREDClientEmptyApiKey() {
	client, err := NewFREDClient("")
	suite.Error(err)
	suite.Nil(client)
	suite.Contains(err.Error(), "apiKey is required")
}

func (suite *FREDClientTestSuite) TestFetchSuccess() {
	suite.respondJSON(http.StatusOK, `{
		"observation_start": "2020-01-01",
		"observation_end": "2020-04-30",
		"count": 4,
		"observations": [
			{"realtime_start": "2024-01-01", "realtime_end": "2024-01-01", "date": "2020-01-01", "value": "1.55"},
			{"realtime_start": "2024-01-01", "realtime_end": "2024-01-01", "date": "2020-02-01", "value": "1.58"},
			{"realtime_start": "2024-01-01", "realtime_end": "2024-01-01", "date": "2020-03-01", "value": "."},
			{"realtime_start": "2024-01-01", "realtime_end": "2024-01-01", "date": "2020-04-01", "value": "0.05"}
		]
	}`)

	series, err := suite.newClient().Fetch(context.Background(), "FEDFUNDS", day(2020, 1, 1), day(2020, 4, 30), nil)
	suite.Require().NoError(err)

	suite.Equal("FEDFUNDS", series.Name)
	suite.Equal([]types.Observation{
		types.NewObservation(day(2020, 1, 1), 1.55),
		types.NewObservation(day(2020, 2, 1), 1.58),
		types.MissingObservation(day(2020, 3, 1)),
		types.NewObservation(day(2020, 4, 1), 0.05),
	}, series.Observations)

	suite.Require().Len(suite.requests, 1)
	query := suite.requests[0].URL.Query()
	suite.Equal("/fred/series/observations", suite.requests[0].URL.Path)
	suite.Equal("FEDFUNDS", query.Get("series_id"))
	suite.Equal("test-api-key", query.Get("api_key"))
	suite.Equal("json", query.Get("file_type"))
	suite.Equal("2020-01-01", query.Get("observation_start"))
	suite.Equal("2020-04-30", query.Get("observation_end"))
}

func (suite *FREDClientTestSuite) TestFetchClipsToRange() {
	suite.respondJSON(http.StatusOK, `{"observations": [
		{"date": "2019-12-01", "value": "1.55"},
		{"date": "2020-01-01", "value": "1.55"},
		{"date": "2020-02-01", "value": "1.58"}
	]}`)

	start, end := day(2020, 1, 1), day(2020, 1, 31)

	series, err := suite.newClient().Fetch(context.Background(), "FEDFUNDS", start, end, nil)
	suite.Require().NoError(err)
	suite.Equal(1, series.Len())
	suite.True(series.Within(start, end))
}

func (suite *FREDClientTestSuite) TestFetchEmpty() {
	suite.respondJSON(http.StatusOK, `{"count": 0, "observations": []}`)

	series, err := suite.newClient().Fetch(context.Background(), "FEDFUNDS", day(1900, 1, 1), day(1900, 2, 1), nil)
	suite.NoError(err)
	suite.True(series.IsEmpty())
}

func (suite *FREDClientTestSuite) TestFetchUnknownSeries() {
	suite.respondJSON(http.StatusBadRequest, `{"error_code": 400, "error_message": "Bad Request.  The series does not exist."}`)

	_, err := suite.newClient().Fetch(context.Background(), "NOPE", day(2020, 1, 1), day(2020, 2, 1), nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSeriesNotFound))
}

func (suite *FREDClientTestSuite) TestFetchBadApiKey() {
	suite.respondJSON(http.StatusBadRequest, `{"error_code": 400, "error_message": "Bad Request.  The value for variable api_key is not registered."}`)

	_, err := suite.newClient().Fetch(context.Background(), "FEDFUNDS", day(2020, 1, 1), day(2020, 2, 1), nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSourceUnavailable))
	suite.Contains(err.Error(), "api_key is not registered")
}

func (suite *FREDClientTestSuite) TestFetchServerErrorWithHTMLBody() {
	suite.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}

	_, err := suite.newClient().Fetch(context.Background(), "FEDFUNDS", day(2020, 1, 1), day(2020, 2, 1), nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSourceUnavailable))
	suite.Contains(err.Error(), "503")
}

func (suite *FREDClientTestSuite) TestFetchMalformedJSON() {
	suite.respondJSON(http.StatusOK, `{"observations": [`)

	_, err := suite.newClient().Fetch(context.Background(), "FEDFUNDS", day(2020, 1, 1), day(2020, 2, 1), nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSourceUnavailable))
}

func (suite *FREDClientTestSuite) TestFetchMalformedDate() {
	suite.respondJSON(http.StatusOK, `{"observations": [{"date": "01/01/2020", "value": "1.55"}]}`)

	_, err := suite.newClient().Fetch(context.Background(), "FEDFUNDS", day(2020, 1, 1), day(2020, 2, 1), nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSourceUnavailable))
}

func (suite *FREDClientTestSuite) TestFetchNonFiniteValue() {
	suite.respondJSON(http.StatusOK, `{"observations": [{"date": "2020-01-01", "value": "NaN"}]}`)

	_, err := suite.newClient().Fetch(context.Background(), "FEDFUNDS", day(2020, 1, 1), day(2020, 2, 1), nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSourceUnavailable))
}

func (suite *FREDClientTestSuite) TestFetchInvalidRange() {
	suite.respondJSON(http.StatusOK, `{"observations": []}`)

	_, err := suite.newClient().Fetch(context.Background(), "FEDFUNDS", day(2020, 6, 1), day(2020, 1, 1), nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidRange))
	suite.Empty(suite.requests)
}

func (suite *FREDClientTestSuite) TestFetchTimeout() {
	suite.handler = func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}

	client, err := NewFREDClient("test-api-key", WithBaseURL(suite.server.URL), WithTimeout(50*time.Millisecond))
	suite.Require().NoError(err)

	_, err = client.Fetch(context.Background(), "FEDFUNDS", day(2020, 1, 1), day(2020, 2, 1), nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSourceUnavailable))
}
