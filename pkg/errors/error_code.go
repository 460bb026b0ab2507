package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidRange         ErrorCode = 102
	ErrCodeInvalidPolicy        ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110

	// Data/Resource errors (200-299)
	ErrCodeSeriesNotFound    ErrorCode = 200
	ErrCodeSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed       ErrorCode = 202
	ErrCodeNoDataFound       ErrorCode = 204

	// Market data errors (700-799)
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 704
	ErrCodeInvalidWriter         ErrorCode = 705
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:               "Unknown",
	ErrCodeInvalidParameter:      "InvalidParameter",
	ErrCodeInvalidConfiguration:  "InvalidConfiguration",
	ErrCodeInvalidRange:          "InvalidRange",
	ErrCodeInvalidPolicy:         "InvalidPolicy",
	ErrCodeMissingParameter:      "MissingParameter",
	ErrCodeInvalidVersion:        "InvalidVersion",
	ErrCodeSeriesNotFound:        "SeriesNotFound",
	ErrCodeSourceUnavailable:     "SourceUnavailable",
	ErrCodeQueryFailed:           "QueryFailed",
	ErrCodeNoDataFound:           "NoDataFound",
	ErrCodeMarketDataWriteFailed: "MarketDataWriteFailed",
	ErrCodeMarketDataParseFailed: "MarketDataParseFailed",
	ErrCodeInvalidProvider:       "InvalidProvider",
	ErrCodeInvalidWriter:         "InvalidWriter",
}

// String returns the symbolic name of the code, e.g. "InvalidRange".
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return "Unknown"
}
