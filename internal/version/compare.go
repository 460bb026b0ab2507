package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility checks whether a config file written for fileVersion
// can be read by a build that understands supportedVersion.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - The file's minor version must not be newer than the supported one
//   - Patch versions can differ
//
// Examples:
//   - Supported 1.1.0, File 1.1.0 -> OK (exact match)
//   - Supported 1.1.0, File 1.0.3 -> OK (older minor)
//   - Supported 1.1.0, File 1.2.0 -> ERROR (file uses newer keys)
//   - Supported 1.1.0, File 2.0.0 -> ERROR (major differs)
func CheckConfigCompatibility(supportedVersion, fileVersion string) error {
	supportedVersion = strings.TrimPrefix(supportedVersion, "v")
	fileVersion = strings.TrimPrefix(fileVersion, "v")

	if supportedVersion == "main" || fileVersion == "main" {
		return nil
	}

	supported, err := semver.NewVersion(supportedVersion)
	if err != nil {
		return fmt.Errorf("invalid supported version '%s': %w", supportedVersion, err)
	}

	file, err := semver.NewVersion(fileVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", fileVersion, err)
	}

	if supported.Major() != file.Major() {
		return fmt.Errorf("major version mismatch: this build reads config %d.x.x but the file is %d.x.x",
			supported.Major(), file.Major())
	}

	if file.Minor() > supported.Minor() {
		return fmt.Errorf("config version %d.%d.x is newer than supported %d.%d.x",
			file.Major(), file.Minor(),
			supported.Major(), supported.Minor())
	}

	return nil
}
