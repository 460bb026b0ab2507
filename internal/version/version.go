package version

// Version is the current version of the fedfunds tool.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/fedfunds/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "v0.3.0"

// ConfigVersion is the version of the YAML config file layout this build reads.
const ConfigVersion = "1.1.0"

// GetVersion returns the current version of the tool.
func GetVersion() string {
	return Version
}
