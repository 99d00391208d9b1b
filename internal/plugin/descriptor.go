package plugin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// ValidID reports whether id is an acceptable plugin identifier. Used by
// configuration loading to reject unknown-looking plugin keys early.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Descriptor carries the static metadata identifying a plugin. It is immutable
// once the plugin has been registered.
type Descriptor struct {
	// ID uniquely identifies the plugin within a process.
	ID string
	// Name is the human-readable name shown in listings.
	Name string
	// Version is the plugin's semantic version.
	Version string
	// Description is a short summary of what the plugin provides.
	Description string
	// Author is optional.
	Author string
}

// Validate ensures the descriptor is well-formed.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("plugin descriptor requires a non-empty ID")
	}
	if !idPattern.MatchString(d.ID) {
		return fmt.Errorf("plugin ID '%s' is invalid (lowercase alphanumerics and hyphens only)", d.ID)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("plugin '%s' descriptor requires Name", d.ID)
	}
	if strings.TrimSpace(d.Version) == "" {
		return fmt.Errorf("plugin '%s' descriptor requires Version", d.ID)
	}
	if _, err := semver.StrictNewVersion(d.Version); err != nil {
		return fmt.Errorf("plugin '%s' has invalid Version '%s': %w", d.ID, d.Version, err)
	}
	return nil
}

// SemVer returns the parsed semantic version. Validate must have succeeded.
func (d Descriptor) SemVer() (*semver.Version, error) {
	return semver.StrictNewVersion(d.Version)
}

// String returns the canonical "name vX.Y.Z" form used in log output.
func (d Descriptor) String() string {
	name := d.Name
	if name == "" {
		name = d.ID
	}
	return fmt.Sprintf("%s v%s", name, d.Version)
}
