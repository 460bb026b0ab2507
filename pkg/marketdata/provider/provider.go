package provider

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/rxtech-lab/fedfunds/internal/types"
)

// ProviderType defines the type of series data provider.
type ProviderType string

const (
	// ProviderFRED is the FRED observations JSON API. It requires an API key.
	ProviderFRED ProviderType = "fred"
	// ProviderFREDGraph is the public fredgraph CSV download. No key needed.
	ProviderFREDGraph ProviderType = "fredgraph"
)

type OnFetchProgress = func(current float64, total float64, message string)

type Provider interface {
	// Fetch retrieves every published observation of seriesID dated within [start, end],
	// both ends inclusive, in strictly ascending date order.
	// The returned series is named after seriesID; renaming to an alias is the caller's concern.
	// example:
	// Fetch(ctx, "FEDFUNDS", civil.Date{Year: 2020, Month: 1, Day: 1}, civil.Date{Year: 2020, Month: 12, Day: 31}, onProgress)
	Fetch(ctx context.Context, seriesID string, start civil.Date, end civil.Date, onProgress OnFetchProgress) (types.Series, error)
}

// NewSeriesProvider creates a new series provider based on the provider type.
// apiKey is only used by ProviderFRED.
func NewSeriesProvider(providerType ProviderType, apiKey string, opts ...Option) (Provider, error) {
	switch providerType {
	case ProviderFREDGraph:
		return NewFREDGraphClient(opts...)
	case ProviderFRED:
		return NewFREDClient(apiKey, opts...)
	default:
		return nil, fmt.Errorf("unsupported series provider: %s", providerType)
	}
}

func reportProgress(onProgress OnFetchProgress, current float64, total float64, message string) {
	if onProgress != nil {
		onProgress(current, total, message)
	}
}
