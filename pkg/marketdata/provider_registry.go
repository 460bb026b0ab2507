package marketdata

import (
	"slices"

	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata/provider"
	"github.com/rxtech-lab/fedfunds/pkg/utils"
)

// ProviderInfo contains metadata about a series data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
	BaseURL      string `json:"baseUrl"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderFREDGraph: {
		Name:         string(provider.ProviderFREDGraph),
		DisplayName:  "FRED Graph CSV",
		Description:  "Public fredgraph.csv download of any FRED series; no API key required",
		RequiresAuth: false,
		BaseURL:      provider.DefaultFREDGraphBaseURL,
	},
	provider.ProviderFRED: {
		Name:         string(provider.ProviderFRED),
		DisplayName:  "FRED API",
		Description:  "St. Louis Fed observations JSON API; requires FRED_API_KEY",
		RequiresAuth: true,
		BaseURL:      provider.DefaultFREDBaseURL,
	},
}

// GetSupportedProviders returns the names of all supported providers in sorted order.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	slices.Sort(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetConfigSchema returns the JSON schema of the YAML config file.
func GetConfigSchema() (string, error) {
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	return utils.GetSchemaFromConfig(FileConfig{})
}
