package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidPolicy, "unknown policy")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidPolicy, err.Code)
	suite.Equal("unknown policy", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeSeriesNotFound, "series %s does not exist", "NOPE")
	suite.Equal(ErrCodeSeriesNotFound, err.Code)
	suite.Equal("series NOPE does not exist", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeSourceUnavailable, "request failed", cause)
	suite.Equal(ErrCodeSourceUnavailable, err.Code)
	suite.Equal("request failed", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("unexpected EOF")
	err := Wrapf(ErrCodeMarketDataParseFailed, cause, "malformed payload for %s", "FEDFUNDS")
	suite.Equal(ErrCodeMarketDataParseFailed, err.Code)
	suite.Equal("malformed payload for FEDFUNDS", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidRange, "end before start")
	suite.Equal("[102 InvalidRange] end before start", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("timeout")
	err := Wrap(ErrCodeSourceUnavailable, "request failed", cause)
	suite.Equal("[201 SourceUnavailable] request failed: timeout", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeQueryFailed, "query failed", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Nil(New(ErrCodeQueryFailed, "query failed").Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	suite.Equal(ErrCodeInvalidRange, GetCode(New(ErrCodeInvalidRange, "bad range")))
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("standard error")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestGetCodeThroughFmtWrap() {
	inner := New(ErrCodeSeriesNotFound, "series not found")
	err := fmt.Errorf("retrieve: %w", inner)
	suite.Equal(ErrCodeSeriesNotFound, GetCode(err))
	suite.True(HasCode(err, ErrCodeSeriesNotFound))
}

func (suite *ErrorTestSuite) TestGetCodeReturnsOutermost() {
	cause := New(ErrCodeSeriesNotFound, "series not found")
	err := Wrap(ErrCodeSourceUnavailable, "fetch failed", cause)
	suite.Equal(ErrCodeSourceUnavailable, GetCode(err))
}

func (suite *ErrorTestSuite) TestIsAndAs() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeSourceUnavailable, "unavailable", cause)
	suite.True(Is(err, cause))

	var typed *Error
	suite.True(As(err, &typed))
	suite.Equal(ErrCodeSourceUnavailable, typed.Code)
}

func (suite *ErrorTestSuite) TestIsTerminal() {
	suite.True(IsTerminal(New(ErrCodeInvalidRange, "")))
	suite.True(IsTerminal(New(ErrCodeInvalidPolicy, "")))
	suite.True(IsTerminal(New(ErrCodeSeriesNotFound, "")))
	suite.True(IsTerminal(New(ErrCodeSourceUnavailable, "")))
	suite.False(IsTerminal(New(ErrCodeMarketDataWriteFailed, "")))
	suite.False(IsTerminal(errors.New("plain")))
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeSeriesNotFound)
	suite.Equal(ErrorCode(701), ErrCodeMarketDataWriteFailed)
}

func (suite *ErrorTestSuite) TestErrorCodeString() {
	suite.Equal("InvalidPolicy", ErrCodeInvalidPolicy.String())
	suite.Equal("SourceUnavailable", ErrCodeSourceUnavailable.String())
	suite.Equal("Unknown", ErrorCode(9999).String())
}
